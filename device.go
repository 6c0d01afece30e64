package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainExtension is the device extension every viable device must offer.
const SwapchainExtension = "VK_KHR_swapchain"

// NotViable is the score that excludes a device from selection.
const NotViable = -1.0

// DeviceInfo is everything a DeviceScorer may look at for one physical device.
type DeviceInfo struct {
	Handle     vk.PhysicalDevice
	Properties vk.PhysicalDeviceProperties
	Queues     []vk.QueueFamilyProperties
	Present    []bool
	Extensions []string
	Families   QueueFamilies
	HasQueues  bool
	Score      float64
}

func (d DeviceInfo) Name() string {
	return vk.ToString(d.Properties.DeviceName[:])
}

func (d DeviceInfo) HasExtension(name string) bool {
	for _, ext := range d.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// DeviceScorer ranks physical devices. Negative scores exclude a device.
type DeviceScorer interface {
	Score(info DeviceInfo) float64
}

// ScoreFunc adapts a function to DeviceScorer.
type ScoreFunc func(info DeviceInfo) float64

func (f ScoreFunc) Score(info DeviceInfo) float64 { return f(info) }

// DefaultScorer prefers discrete GPUs, then larger image and framebuffer limits.
// Devices missing graphics/present queues or the swapchain extension are not viable.
var DefaultScorer = ScoreFunc(func(info DeviceInfo) float64 {
	if !info.HasQueues || !info.HasExtension(SwapchainExtension) {
		return NotViable
	}
	var score float64
	if info.Properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		score += 1000
	}
	limits := info.Properties.Limits
	score += float64(limits.MaxImageDimension2D)
	score += 0.01 * float64(limits.MaxFramebufferWidth) * float64(limits.MaxFramebufferHeight)
	return score
})

// QueueFamilies holds the resolved graphics and present family indices. They may alias.
type QueueFamilies struct {
	Graphics uint32
	Present  uint32
}

func (q QueueFamilies) Shared() bool {
	return q.Graphics == q.Present
}

// Indices returns the distinct family indices, graphics first.
func (q QueueFamilies) Indices() []uint32 {
	if q.Shared() {
		return []uint32{q.Graphics}
	}
	return []uint32{q.Graphics, q.Present}
}

// resolveFamilies scans once, preferring a family that does both graphics and
// present, else the first of each.
func resolveFamilies(queues []vk.QueueFamilyProperties, present []bool) (QueueFamilies, error) {
	var fam QueueFamilies
	var graphicsFound, presentFound bool
	for i, q := range queues {
		graphics := q.QueueCount > 0 && q.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		if graphics && present[i] {
			return QueueFamilies{Graphics: uint32(i), Present: uint32(i)}, nil
		}
		if graphics && !graphicsFound {
			fam.Graphics = uint32(i)
			graphicsFound = true
		}
		if present[i] && !presentFound {
			fam.Present = uint32(i)
			presentFound = true
		}
	}
	if !graphicsFound || !presentFound {
		return QueueFamilies{}, ErrNoQueueFamily
	}
	return fam, nil
}

func queryPresent(driver Driver, gpu vk.PhysicalDevice, surface vk.Surface, n int) ([]bool, error) {
	present := make([]bool, n)
	for i := range present {
		ok, err := driver.SurfaceSupport(gpu, uint32(i), surface)
		if err != nil {
			return nil, err
		}
		present[i] = ok
	}
	return present, nil
}

// ResolveQueueFamilies finds graphics and present families for gpu against surface.
func ResolveQueueFamilies(driver Driver, gpu vk.PhysicalDevice, surface vk.Surface) (QueueFamilies, error) {
	queues := driver.QueueFamilies(gpu)
	present, err := queryPresent(driver, gpu, surface, len(queues))
	if err != nil {
		return QueueFamilies{}, err
	}
	return resolveFamilies(queues, present)
}

// DescribeDevices gathers and scores every physical device visible to instance.
func DescribeDevices(driver Driver, instance vk.Instance, surface vk.Surface, scorer DeviceScorer) ([]DeviceInfo, error) {
	gpus, err := driver.PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}
	infos := make([]DeviceInfo, 0, len(gpus))
	for _, gpu := range gpus {
		info := DeviceInfo{
			Handle:     gpu,
			Properties: driver.DeviceProperties(gpu),
			Queues:     driver.QueueFamilies(gpu),
		}
		if info.Present, err = queryPresent(driver, gpu, surface, len(info.Queues)); err != nil {
			return nil, err
		}
		if info.Extensions, err = driver.DeviceExtensions(gpu); err != nil {
			return nil, err
		}
		fam, ferr := resolveFamilies(info.Queues, info.Present)
		info.Families, info.HasQueues = fam, ferr == nil
		info.Score = scorer.Score(info)
		infos = append(infos, info)
	}
	return infos, nil
}

// SelectPhysicalDevice returns the device with the strictly highest score.
// Ties keep the earlier device.
func SelectPhysicalDevice(driver Driver, instance vk.Instance, surface vk.Surface, scorer DeviceScorer) (DeviceInfo, error) {
	infos, err := DescribeDevices(driver, instance, surface, scorer)
	if err != nil {
		return DeviceInfo{}, err
	}
	best := -1
	for i, info := range infos {
		Logger().Debug("vulkan: physical device", "name", info.Name(), "score", info.Score)
		if info.Score < 0 {
			continue
		}
		if best < 0 || info.Score > infos[best].Score {
			best = i
		}
	}
	if best < 0 {
		return DeviceInfo{}, errors.Wrapf(ErrNoSuitableDevice, "%d devices considered", len(infos))
	}
	return infos[best], nil
}

// CreateLogicalDevice creates a device with one queue per distinct family.
func CreateLogicalDevice(driver Driver, gpu vk.PhysicalDevice, families QueueFamilies, extensions, layers []string) (vk.Device, error) {
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range families.Indices() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return driver.CreateDevice(gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	})
}
