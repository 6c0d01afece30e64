package asset

import (
	"context"
	"image/color"

	"golang.org/x/sync/errgroup"
)

// Paths locates the assets of one scene. Empty Mesh and Texture fall back to
// Quad and a white texture.
type Paths struct {
	Mesh           string
	Texture        string
	VertexShader   string
	FragmentShader string
}

// Bundle is everything loaded from Paths, ready for upload.
type Bundle struct {
	Vertices       []Vertex
	Indices        []uint32
	Texture        *Texture
	VertexShader   []byte
	FragmentShader []byte
}

// LoadBundle reads and decodes all assets concurrently. The first failure
// cancels the rest.
func LoadBundle(ctx context.Context, paths Paths) (*Bundle, error) {
	g, ctx := errgroup.WithContext(ctx)
	b := &Bundle{}

	g.Go(func() error {
		if paths.Mesh == "" {
			b.Vertices, b.Indices = Quad()
			return nil
		}
		m, err := LoadMesh(paths.Mesh)
		if err != nil {
			return err
		}
		b.Vertices, b.Indices = m.Interleave()
		return ctx.Err()
	})
	g.Go(func() error {
		if paths.Texture == "" {
			b.Texture = Solid(1, 1, color.RGBA{255, 255, 255, 255})
			return nil
		}
		tex, err := LoadTexture(paths.Texture)
		b.Texture = tex
		return err
	})
	g.Go(func() (err error) {
		b.VertexShader, err = ReadShader(paths.VertexShader)
		return err
	})
	g.Go(func() (err error) {
		b.FragmentShader, err = ReadShader(paths.FragmentShader)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
