package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceConfig selects and configures the logical device.
type DeviceConfig struct {
	Scorer     DeviceScorer
	Extensions []Capability
}

// DeviceContext is the root of GPU object ownership: instance, surface,
// physical and logical device, and both queues. It is created once and
// destroyed once, after the device is idle.
type DeviceContext struct {
	Driver   Driver
	Instance *Instance
	Surface  vk.Surface

	PhysicalDevice vk.PhysicalDevice
	Properties     vk.PhysicalDeviceProperties
	Memory         vk.PhysicalDeviceMemoryProperties

	Device        vk.Device
	Families      QueueFamilies
	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue

	// Allocator is the host allocation override. vulkan-go exposes no
	// allocation callbacks, so it is always nil.
	Allocator *vk.AllocationCallbacks
}

// NewDeviceContext picks a physical device for surface, resolves queue
// families and creates the logical device. It takes ownership of instance and
// surface: on failure they are destroyed.
func NewDeviceContext(driver Driver, instance *Instance, surface vk.Surface, cfg DeviceConfig) (*DeviceContext, error) {
	ctx := &DeviceContext{
		Driver:   driver,
		Instance: instance,
		Surface:  surface,
	}
	if err := ctx.init(cfg); err != nil {
		ctx.Destroy()
		return nil, err
	}
	return ctx, nil
}

func (c *DeviceContext) init(cfg DeviceConfig) error {
	if cfg.Scorer == nil {
		cfg.Scorer = DefaultScorer
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Required(SwapchainExtension)
	}

	info, err := SelectPhysicalDevice(c.Driver, c.Instance.Handle, c.Surface, cfg.Scorer)
	if err != nil {
		return err
	}
	if !info.HasQueues {
		return errors.Wrap(ErrNoQueueFamily, info.Name())
	}
	c.PhysicalDevice = info.Handle
	c.Properties = info.Properties
	c.Families = info.Families
	c.Memory = c.Driver.MemoryProperties(info.Handle)

	extensions, err := Negotiate("device extension", cfg.Extensions, info.Extensions)
	if err != nil {
		return err
	}
	device, err := CreateLogicalDevice(c.Driver, info.Handle, info.Families, extensions, c.Instance.Layers)
	if err != nil {
		return err
	}
	c.Device = device
	c.GraphicsQueue = c.Driver.DeviceQueue(device, info.Families.Graphics)
	c.PresentQueue = c.GraphicsQueue
	if !info.Families.Shared() {
		c.PresentQueue = c.Driver.DeviceQueue(device, info.Families.Present)
	}

	Logger().Info("vulkan: device ready",
		"gpu", info.Name(),
		"score", info.Score,
		"graphics", info.Families.Graphics,
		"present", info.Families.Present,
		"extensions", len(extensions))
	return nil
}

func (c *DeviceContext) WaitIdle() error {
	if c.Device == nil {
		return nil
	}
	return c.Driver.DeviceWaitIdle(c.Device)
}

// Destroy waits for the device and releases device, surface and instance in that order.
func (c *DeviceContext) Destroy() {
	if c == nil {
		return
	}
	if c.Device != nil {
		if err := c.Driver.DeviceWaitIdle(c.Device); err != nil {
			Logger().Warn("vulkan: wait idle before destroy", "err", err)
		}
		c.Driver.DestroyDevice(c.Device)
		c.Device = nil
	}
	if c.Surface != vk.NullSurface && c.Instance != nil {
		c.Driver.DestroySurface(c.Instance.Handle, c.Surface)
		c.Surface = vk.NullSurface
	}
	c.Instance.Destroy()
	c.Instance = nil
}
