package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ImageSpec describes a single-mip, single-layer image.
type ImageSpec struct {
	Extent vk.Extent2D
	Type   vk.ImageType
	Format vk.Format
	Tiling vk.ImageTiling
	Usage  vk.ImageUsageFlags
	Aspect vk.ImageAspectFlags
}

// Image owns a vk.Image, its dedicated allocation and an optional view.
type Image struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Spec   ImageSpec

	driver Driver
	device vk.Device
}

// CreateImage creates an image in the undefined layout bound to memory with the
// required properties. On failure nothing is left allocated.
func (f *Factory) CreateImage(spec ImageSpec, required vk.MemoryPropertyFlags) (*Image, error) {
	handle, err := f.driver.CreateImage(f.device, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: spec.Type,
		Format:    spec.Format,
		Extent: vk.Extent3D{
			Width:  spec.Extent.Width,
			Height: spec.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        spec.Tiling,
		Usage:         spec.Usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	})
	if err != nil {
		return nil, err
	}

	mem, err := f.allocate(f.driver.ImageMemoryRequirements(f.device, handle), required)
	if err != nil {
		f.driver.DestroyImage(f.device, handle)
		return nil, errors.Wrap(err, "image memory")
	}
	if err := f.driver.BindImageMemory(f.device, handle, mem); err != nil {
		f.driver.DestroyImage(f.device, handle)
		f.driver.FreeMemory(f.device, mem)
		return nil, err
	}
	return &Image{
		Handle: handle,
		Memory: mem,
		Spec:   spec,
		driver: f.driver,
		device: f.device,
	}, nil
}

// CreateView attaches a 2D view covering the image's aspect.
func (img *Image) CreateView() error {
	view, err := createImageView(img.driver, img.device, img.Handle, img.Spec.Format, img.Spec.Aspect)
	if err != nil {
		return err
	}
	img.View = view
	return nil
}

func (img *Image) Destroy() {
	if img == nil || img.Handle == vk.NullImage {
		return
	}
	if img.View != vk.NullImageView {
		img.driver.DestroyImageView(img.device, img.View)
		img.View = vk.NullImageView
	}
	img.driver.DestroyImage(img.device, img.Handle)
	img.driver.FreeMemory(img.device, img.Memory)
	img.Handle = vk.NullImage
	img.Memory = vk.NullDeviceMemory
}

func createImageView(driver Driver, device vk.Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlags) (vk.ImageView, error) {
	return driver.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	})
}
