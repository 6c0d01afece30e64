package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"

	_ "github.com/lmittmann/ppm"
	_ "golang.org/x/image/bmp"
)

// Texture is a decoded image expanded to tightly packed RGBA8.
type Texture struct {
	Width        int
	Height       int
	BitsPerPixel int
	Pixels       []byte
}

var textureFormats = map[string]bool{
	"bmp": true,
	"ppm": true,
	"png": true,
}

// LoadTexture decodes the image file at path.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open texture")
	}
	defer f.Close()
	tex, err := DecodeTexture(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return tex, nil
}

// DecodeTexture sniffs the format from the content and decodes BMP, binary
// PPM or PNG data.
func DecodeTexture(r io.Reader) (*Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read texture")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedTexture, err.Error())
	}
	if !textureFormats[format] {
		return nil, errors.Wrapf(ErrUnsupportedTexture, "format %s", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Wrapf(ErrUnsupportedTexture, "%dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}
	return FromImage(img), nil
}

// FromImage converts any image to an RGBA8 texture.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Texture{
		Width:        b.Dx(),
		Height:       b.Dy(),
		BitsPerPixel: 32,
		Pixels:       rgba.Pix,
	}
}

// Solid returns a single-color texture, used when no texture is configured.
func Solid(width, height int, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return FromImage(img)
}
