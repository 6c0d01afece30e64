package flightvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// Window is what the renderer needs from the windowing layer.
type Window interface {
	RequiredExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	// Size is the framebuffer size in pixels, zero while minimized.
	Size() (width, height int)
}

// openSurface creates the instance for window and a surface on it. On failure
// nothing is left alive.
func openSurface(driver Driver, window Window, appName string, debug bool) (*Instance, vk.Surface, error) {
	inst, err := CreateInstance(driver, NewInstanceConfig(appName, window.RequiredExtensions(), debug))
	if err != nil {
		return nil, vk.NullSurface, err
	}
	surface, err := window.CreateSurface(inst.Handle)
	if err != nil {
		inst.Destroy()
		return nil, vk.NullSurface, err
	}
	return inst, surface, nil
}

// ProbeDevices lists every physical device with its score against the
// window's surface, without creating a logical device.
func ProbeDevices(driver Driver, window Window, appName string) ([]DeviceInfo, error) {
	inst, surface, err := openSurface(driver, window, appName, false)
	if err != nil {
		return nil, err
	}
	defer inst.Destroy()
	defer driver.DestroySurface(inst.Handle, surface)
	return DescribeDevices(driver, inst.Handle, surface, DefaultScorer)
}
