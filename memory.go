package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FindMemoryType returns the first memory type index allowed by typeBits whose
// property flags contain every bit in required.
func FindMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < props.MemoryTypeCount && int(i) < len(props.MemoryTypes); i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		if props.MemoryTypes[i].PropertyFlags&required == required {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoCompatibleMemoryType, "type bits %#x, flags %#x", typeBits, required)
}

// Factory creates buffers and images with dedicated allocations, and runs
// one-shot transfer commands on the graphics queue.
type Factory struct {
	driver Driver
	device vk.Device
	memory vk.PhysicalDeviceMemoryProperties

	//One-shot submission
	pool  vk.CommandPool
	queue vk.Queue
}

func NewFactory(driver Driver, device vk.Device, memory vk.PhysicalDeviceMemoryProperties, pool vk.CommandPool, queue vk.Queue) *Factory {
	return &Factory{
		driver: driver,
		device: device,
		memory: memory,
		pool:   pool,
		queue:  queue,
	}
}

// allocate picks a memory type for reqs and allocates exactly reqs.Size bytes.
func (f *Factory) allocate(reqs vk.MemoryRequirements, required vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	typeIndex, err := FindMemoryType(f.memory, reqs.MemoryTypeBits, required)
	if err != nil {
		return vk.NullDeviceMemory, err
	}
	return f.driver.AllocateMemory(f.device, reqs.Size, typeIndex)
}

// submitOnce records a transient command buffer with record, submits it and
// waits for the queue to drain before freeing it.
func (f *Factory) submitOnce(record func(cmd vk.CommandBuffer)) error {
	bufs, err := f.driver.AllocateCommandBuffers(f.device, f.pool, 1)
	if err != nil {
		return errors.Wrap(err, "one-shot command buffer")
	}
	defer f.driver.FreeCommandBuffers(f.device, f.pool, bufs)

	cmd := bufs[0]
	if err := f.driver.BeginCommandBuffer(cmd, true); err != nil {
		return err
	}
	record(cmd)
	if err := f.driver.EndCommandBuffer(cmd); err != nil {
		return err
	}
	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    bufs,
	}
	if err := f.driver.QueueSubmit(f.queue, []vk.SubmitInfo{submit}, vk.NullFence); err != nil {
		return err
	}
	return f.driver.QueueWaitIdle(f.queue)
}
