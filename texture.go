package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

// TextureFormat is the GPU format of uploaded RGBA8 textures.
const TextureFormat = vk.FormatR8g8b8a8Unorm

// Texture is a sampled image in the shader-read layout plus its sampler.
type Texture struct {
	Image   *Image
	Sampler vk.Sampler

	driver Driver
	device vk.Device
}

// CreateTexture uploads tex through a staging buffer:
// undefined -> transfer dst, copy, transfer dst -> shader read.
func (f *Factory) CreateTexture(tex *asset.Texture) (*Texture, error) {
	if tex.BitsPerPixel != 32 || len(tex.Pixels) != tex.Width*tex.Height*4 {
		return nil, errors.Wrapf(asset.ErrUnsupportedTexture, "%dx%d at %d bpp", tex.Width, tex.Height, tex.BitsPerPixel)
	}
	staging, err := f.Staging(tex.Pixels)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	img, err := f.CreateImage(ImageSpec{
		Extent: vk.Extent2D{Width: uint32(tex.Width), Height: uint32(tex.Height)},
		Type:   vk.ImageType2d,
		Format: TextureFormat,
		Tiling: vk.ImageTilingOptimal,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		Aspect: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	}, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, errors.Wrap(err, "texture image")
	}
	if err := f.fillTexture(staging, img); err != nil {
		img.Destroy()
		return nil, err
	}

	sampler, err := f.driver.CreateSampler(f.device, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	})
	if err != nil {
		img.Destroy()
		return nil, errors.Wrap(err, "texture sampler")
	}
	return &Texture{Image: img, Sampler: sampler, driver: f.driver, device: f.device}, nil
}

func (f *Factory) fillTexture(staging *Buffer, img *Image) error {
	if err := f.TransitionLayout(img.Handle, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}
	if err := f.CopyBufferToImage(staging, img); err != nil {
		return err
	}
	if err := f.TransitionLayout(img.Handle, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		return err
	}
	return img.CreateView()
}

// Descriptor returns the combined image sampler info for binding the texture.
func (t *Texture) Descriptor() vk.DescriptorImageInfo {
	return vk.DescriptorImageInfo{
		Sampler:     t.Sampler,
		ImageView:   t.Image.View,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
}

func (t *Texture) Destroy() {
	if t == nil {
		return
	}
	if t.Sampler != vk.Sampler(vk.NullHandle) {
		t.driver.DestroySampler(t.device, t.Sampler)
		t.Sampler = vk.Sampler(vk.NullHandle)
	}
	t.Image.Destroy()
}
