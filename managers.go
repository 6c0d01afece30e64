package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FrameSlot holds everything one in-flight frame needs: a command buffer, the
// image-available and render-finished semaphores, a fence created signaled so
// the first wait returns at once, and an optional host-visible uniform buffer.
type FrameSlot struct {
	Command        vk.CommandBuffer
	ImageAvailable vk.Semaphore
	RenderFinished vk.Semaphore
	Fence          vk.Fence
	Uniform        *Buffer
}

// slotManager creates and releases the per-slot primitives. Command buffers are
// handled by the ring since they are allocated and freed in batches.
type slotManager struct {
	driver      Driver
	device      vk.Device
	factory     *Factory
	uniformSize vk.DeviceSize
}

// newSlot fills the synchronization primitives and uniform buffer of a slot
// around cmd. On failure everything created here is released again.
func (m *slotManager) newSlot(cmd vk.CommandBuffer) (*FrameSlot, error) {
	slot := &FrameSlot{Command: cmd}
	var err error
	if slot.ImageAvailable, err = m.driver.CreateSemaphore(m.device); err != nil {
		return nil, errors.Wrap(err, "image available semaphore")
	}
	if slot.RenderFinished, err = m.driver.CreateSemaphore(m.device); err != nil {
		m.release(slot)
		return nil, errors.Wrap(err, "render finished semaphore")
	}
	if slot.Fence, err = m.driver.CreateFence(m.device, true); err != nil {
		m.release(slot)
		return nil, errors.Wrap(err, "in-flight fence")
	}
	if m.uniformSize > 0 {
		slot.Uniform, err = m.factory.CreateBuffer(m.uniformSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			m.release(slot)
			return nil, errors.Wrap(err, "uniform buffer")
		}
	}
	return slot, nil
}

// release destroys the primitives of slot but leaves its command buffer alone.
func (m *slotManager) release(slot *FrameSlot) {
	if slot.ImageAvailable != vk.NullSemaphore {
		m.driver.DestroySemaphore(m.device, slot.ImageAvailable)
		slot.ImageAvailable = vk.NullSemaphore
	}
	if slot.RenderFinished != vk.NullSemaphore {
		m.driver.DestroySemaphore(m.device, slot.RenderFinished)
		slot.RenderFinished = vk.NullSemaphore
	}
	if slot.Fence != vk.NullFence {
		m.driver.DestroyFence(m.device, slot.Fence)
		slot.Fence = vk.NullFence
	}
	slot.Uniform.Destroy()
	slot.Uniform = nil
}
