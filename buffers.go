package flightvk

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Buffer owns a vk.Buffer and its dedicated allocation.
type Buffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize

	driver Driver
	device vk.Device
	mapped unsafe.Pointer
}

// CreateBuffer creates a buffer of size bytes and binds it to freshly allocated
// memory carrying the required properties. On failure nothing is left allocated.
func (f *Factory) CreateBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags, required vk.MemoryPropertyFlags) (*Buffer, error) {
	handle, err := f.driver.CreateBuffer(f.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	})
	if err != nil {
		return nil, err
	}

	mem, err := f.allocate(f.driver.BufferMemoryRequirements(f.device, handle), required)
	if err != nil {
		f.driver.DestroyBuffer(f.device, handle)
		return nil, errors.Wrap(err, "buffer memory")
	}
	if err := f.driver.BindBufferMemory(f.device, handle, mem); err != nil {
		f.driver.DestroyBuffer(f.device, handle)
		f.driver.FreeMemory(f.device, mem)
		return nil, err
	}
	return &Buffer{
		Handle: handle,
		Memory: mem,
		Size:   size,
		driver: f.driver,
		device: f.device,
	}, nil
}

// Staging returns a host-visible transfer source holding data.
func (f *Factory) Staging(data []byte) (*Buffer, error) {
	buf, err := f.CreateBuffer(vk.DeviceSize(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := buf.Write(data); err != nil {
		buf.Destroy()
		return nil, err
	}
	buf.Unmap()
	return buf, nil
}

// UploadBuffer creates a device-local buffer and fills it with data through a
// staging buffer that does not outlive the call.
func (f *Factory) UploadBuffer(data []byte, usage vk.BufferUsageFlags) (*Buffer, error) {
	staging, err := f.Staging(data)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	dst, err := f.CreateBuffer(staging.Size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	err = f.submitOnce(func(cmd vk.CommandBuffer) {
		f.driver.CmdCopyBuffer(cmd, staging.Handle, dst.Handle, staging.Size)
	})
	if err != nil {
		dst.Destroy()
		return nil, errors.Wrap(err, "copy staging buffer")
	}
	return dst, nil
}

// Map maps the whole buffer once and returns the host pointer.
func (b *Buffer) Map() (unsafe.Pointer, error) {
	if b.mapped != nil {
		return b.mapped, nil
	}
	ptr, err := b.driver.MapMemory(b.device, b.Memory, 0, b.Size)
	if err != nil {
		return nil, err
	}
	b.mapped = ptr
	return ptr, nil
}

func (b *Buffer) Unmap() {
	if b.mapped == nil {
		return
	}
	b.driver.UnmapMemory(b.device, b.Memory)
	b.mapped = nil
}

// Write copies data to the start of a host-visible buffer, mapping it if needed.
func (b *Buffer) Write(data []byte) error {
	if vk.DeviceSize(len(data)) > b.Size {
		return errors.Errorf("write of %d bytes into %d byte buffer", len(data), b.Size)
	}
	ptr, err := b.Map()
	if err != nil {
		return err
	}
	vk.Memcopy(ptr, data)
	return nil
}

func (b *Buffer) Destroy() {
	if b == nil || b.Handle == vk.NullBuffer {
		return
	}
	b.Unmap()
	b.driver.DestroyBuffer(b.device, b.Handle)
	b.driver.FreeMemory(b.device, b.Memory)
	b.Handle = vk.NullBuffer
	b.Memory = vk.NullDeviceMemory
}
