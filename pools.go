package flightvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool is the resettable pool shared by the ring and one-shot uploads.
// It is never recorded into from more than one goroutine.
type CommandPool struct {
	Handle vk.CommandPool
	Family uint32

	driver Driver
	device vk.Device
}

func NewCommandPool(driver Driver, device vk.Device, family uint32) (*CommandPool, error) {
	handle, err := driver.CreateCommandPool(device, family)
	if err != nil {
		return nil, err
	}
	return &CommandPool{Handle: handle, Family: family, driver: driver, device: device}, nil
}

// Allocate returns count fresh primary command buffers.
func (p *CommandPool) Allocate(count int) ([]vk.CommandBuffer, error) {
	if count <= 0 {
		return nil, nil
	}
	return p.driver.AllocateCommandBuffers(p.device, p.Handle, uint32(count))
}

// Free returns bufs to the pool in a single call.
func (p *CommandPool) Free(bufs []vk.CommandBuffer) {
	if len(bufs) == 0 {
		return
	}
	p.driver.FreeCommandBuffers(p.device, p.Handle, bufs)
}

func (p *CommandPool) Destroy() {
	if p == nil || p.Handle == vk.NullCommandPool {
		return
	}
	p.driver.DestroyCommandPool(p.device, p.Handle)
	p.Handle = vk.NullCommandPool
}
