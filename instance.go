package flightvk

import (
	vk "github.com/vulkan-go/vulkan"
)

const (
	ValidationLayer      = "VK_LAYER_KHRONOS_validation"
	DebugReportExtension = "VK_EXT_debug_report"
)

// InstanceConfig lists what to request when creating the instance.
// A nil Debug disables callback registration.
type InstanceConfig struct {
	AppName    string
	AppVersion uint32
	APIVersion uint32
	Layers     []Capability
	Extensions []Capability
	Debug      DebugCallback
}

// NewInstanceConfig requires the window-system extensions and, when debug is
// set, asks for the validation layer and debug report extension as optional.
func NewInstanceConfig(appName string, surfaceExtensions []string, debug bool) InstanceConfig {
	cfg := InstanceConfig{
		AppName:    appName,
		AppVersion: vk.MakeVersion(1, 0, 0),
		APIVersion: vk.MakeVersion(1, 0, 0),
		Extensions: Required(surfaceExtensions...),
	}
	if debug {
		cfg.Layers = Wanted(ValidationLayer)
		cfg.Extensions = append(cfg.Extensions, Wanted(DebugReportExtension)...)
		cfg.Debug = LogDebugMessage
	}
	return cfg
}

// LogDebugMessage forwards validation messages to the package logger.
func LogDebugMessage(msg string, sev Severity, category string) {
	switch sev {
	case SeverityError:
		Logger().Error(msg, "layer", category)
	case SeverityWarning, SeverityPerformance:
		Logger().Warn(msg, "layer", category, "performance", sev == SeverityPerformance)
	case SeverityInfo:
		Logger().Info(msg, "layer", category)
	default:
		Logger().Debug(msg, "layer", category)
	}
}

// Instance owns a vk.Instance and its optional debug callback.
type Instance struct {
	Handle     vk.Instance
	Layers     []string
	Extensions []string

	driver Driver
	debug  vk.DebugReportCallback
}

func CreateInstance(driver Driver, cfg InstanceConfig) (*Instance, error) {
	availableLayers, err := driver.InstanceLayers()
	if err != nil {
		return nil, err
	}
	layers, err := Negotiate("layer", cfg.Layers, availableLayers)
	if err != nil {
		return nil, err
	}
	availableExtensions, err := driver.InstanceExtensions()
	if err != nil {
		return nil, err
	}
	extensions, err := Negotiate("instance extension", cfg.Extensions, availableExtensions)
	if err != nil {
		return nil, err
	}

	handle, err := driver.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         cfg.APIVersion,
			ApplicationVersion: cfg.AppVersion,
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        safeString("flightvk"),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	})
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		Handle:     handle,
		Layers:     layers,
		Extensions: extensions,
		driver:     driver,
		debug:      vk.NullDebugReportCallback,
	}

	if cfg.Debug != nil && inst.HasExtension(DebugReportExtension) {
		cb, err := driver.CreateDebugCallback(handle, cfg.Debug)
		if err != nil {
			driver.DestroyInstance(handle)
			return nil, err
		}
		inst.debug = cb
		Logger().Info("vulkan: debug report callback enabled")
	}
	return inst, nil
}

func (i *Instance) HasExtension(name string) bool {
	for _, ext := range i.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

func (i *Instance) Destroy() {
	if i == nil || i.Handle == nil {
		return
	}
	if i.debug != vk.NullDebugReportCallback {
		i.driver.DestroyDebugCallback(i.Handle, i.debug)
		i.debug = vk.NullDebugReportCallback
	}
	i.driver.DestroyInstance(i.Handle)
	i.Handle = nil
}
