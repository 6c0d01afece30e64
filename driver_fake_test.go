package flightvk

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var errFake = errors.New("fake driver failure")

type fenceState int

const (
	fenceUnsignaled fenceState = iota
	fencePending
	fenceSignaled
)

type fakeGPU struct {
	props      vk.PhysicalDeviceProperties
	queues     []vk.QueueFamilyProperties
	present    []bool
	extensions []string
}

func newFakeGPU(name string, kind vk.PhysicalDeviceType, maxDim uint32) *fakeGPU {
	g := &fakeGPU{
		queues: []vk.QueueFamilyProperties{{
			QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit),
			QueueCount: 1,
		}},
		present:    []bool{true},
		extensions: []string{SwapchainExtension},
	}
	g.props.DeviceType = kind
	g.props.Limits.MaxImageDimension2D = maxDim
	g.props.Limits.MaxFramebufferWidth = maxDim
	g.props.Limits.MaxFramebufferHeight = maxDim
	copy(g.props.DeviceName[:], name)
	return g
}

// fakeDriver is an in-memory Driver. Every handle is a distinct heap pointer,
// every call is counted and fences follow the GPU's state rules: submitting
// needs an unsignaled fence, waiting completes a pending submit, and waiting
// on a fence nothing will signal is reported as a deadlock.
type fakeDriver struct {
	calls map[string]int
	// fail makes the nth call (1-based) of the named method fail.
	fail map[string]int

	keep  []unsafe.Pointer
	live  map[unsafe.Pointer]string

	gpus       []*fakeGPU
	gpuOf      map[unsafe.Pointer]*fakeGPU
	memory     vk.PhysicalDeviceMemoryProperties
	typeBits   uint32
	caps       vk.SurfaceCapabilities
	formats    []vk.SurfaceFormat
	modes      []vk.PresentMode
	layers     []string
	instExts   []string
	allocSizes map[unsafe.Pointer][]byte
	sizes      map[unsafe.Pointer]vk.DeviceSize

	fences       map[unsafe.Pointer]fenceState
	cmdFence     map[unsafe.Pointer]unsafe.Pointer
	swapImages   map[unsafe.Pointer][]vk.Image
	lastSwapInfo vk.SwapchainCreateInfo
	lastPassInfo vk.RenderPassCreateInfo
	nextImage    uint32
	acquire      []SwapchainStatus
	present      []SwapchainStatus

	lastIndexOffset vk.DeviceSize
	lastIndexCount  uint32
	deviceInfo      *vk.DeviceCreateInfo
	instanceInfo    *vk.InstanceCreateInfo
}

func newFakeDriver() *fakeDriver {
	f := &fakeDriver{
		calls:      make(map[string]int),
		fail:       make(map[string]int),
		live:       make(map[unsafe.Pointer]string),
		gpuOf:      make(map[unsafe.Pointer]*fakeGPU),
		allocSizes: make(map[unsafe.Pointer][]byte),
		sizes:      make(map[unsafe.Pointer]vk.DeviceSize),
		fences:     make(map[unsafe.Pointer]fenceState),
		cmdFence:   make(map[unsafe.Pointer]unsafe.Pointer),
		swapImages: make(map[unsafe.Pointer][]vk.Image),
		typeBits:   0x3,
		gpus:       []*fakeGPU{newFakeGPU("fake gpu", vk.PhysicalDeviceTypeDiscreteGpu, 4096)},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		modes:    []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		layers:   []string{ValidationLayer},
		instExts: []string{"VK_KHR_surface", DebugReportExtension},
	}
	f.memory.MemoryTypeCount = 2
	f.memory.MemoryTypes[0].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	f.memory.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	f.caps = vk.SurfaceCapabilities{
		MinImageCount:           2,
		MaxImageCount:           8,
		CurrentExtent:           vk.Extent2D{Width: 800, Height: 600},
		MinImageExtent:          vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:          vk.Extent2D{Width: 4096, Height: 4096},
		MaxImageArrayLayers:     1,
		SupportedTransforms:     vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit),
		CurrentTransform:        vk.SurfaceTransformIdentityBit,
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit),
	}
	return f
}

func (f *fakeDriver) call(name string) error {
	f.calls[name]++
	if n, ok := f.fail[name]; ok && n == f.calls[name] {
		return errors.Wrap(errFake, name)
	}
	return nil
}

func (f *fakeDriver) count(name string) int { return f.calls[name] }

func (f *fakeDriver) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeDriver) resetCalls() {
	f.calls = make(map[string]int)
}

func (f *fakeDriver) handle(kind string) unsafe.Pointer {
	p := unsafe.Pointer(new(uint64))
	f.keep = append(f.keep, p)
	f.live[p] = kind
	return p
}

func (f *fakeDriver) release(p unsafe.Pointer, kind string) {
	if p == nil {
		return
	}
	if got, ok := f.live[p]; !ok || got != kind {
		panic(fmt.Sprintf("fake: destroy of unknown %s (live as %q)", kind, got))
	}
	delete(f.live, p)
}

func (f *fakeDriver) liveCount(kind string) int {
	n := 0
	for _, k := range f.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (f *fakeDriver) isLive(p unsafe.Pointer) bool {
	_, ok := f.live[p]
	return ok
}

//Instance level

func (f *fakeDriver) InstanceExtensions() ([]string, error) {
	return f.instExts, f.call("InstanceExtensions")
}

func (f *fakeDriver) InstanceLayers() ([]string, error) {
	return f.layers, f.call("InstanceLayers")
}

func (f *fakeDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	if err := f.call("CreateInstance"); err != nil {
		return nil, err
	}
	f.instanceInfo = info
	return vk.Instance(f.handle("instance")), nil
}

func (f *fakeDriver) DestroyInstance(instance vk.Instance) {
	f.call("DestroyInstance")
	f.release(unsafe.Pointer(instance), "instance")
}

func (f *fakeDriver) CreateDebugCallback(instance vk.Instance, fn DebugCallback) (vk.DebugReportCallback, error) {
	if err := f.call("CreateDebugCallback"); err != nil {
		return vk.NullDebugReportCallback, err
	}
	return vk.DebugReportCallback(f.handle("debug")), nil
}

func (f *fakeDriver) DestroyDebugCallback(instance vk.Instance, cb vk.DebugReportCallback) {
	f.call("DestroyDebugCallback")
	f.release(unsafe.Pointer(cb), "debug")
}

// newSurface stands in for the window system.
func (f *fakeDriver) newSurface() vk.Surface {
	return vk.Surface(f.handle("surface"))
}

func (f *fakeDriver) DestroySurface(instance vk.Instance, surface vk.Surface) {
	f.call("DestroySurface")
	f.release(unsafe.Pointer(surface), "surface")
}

//Physical devices

func (f *fakeDriver) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	if err := f.call("PhysicalDevices"); err != nil {
		return nil, err
	}
	out := make([]vk.PhysicalDevice, len(f.gpus))
	for i, g := range f.gpus {
		p := unsafe.Pointer(new(uint64))
		f.keep = append(f.keep, p)
		f.gpuOf[p] = g
		out[i] = vk.PhysicalDevice(p)
	}
	return out, nil
}

func (f *fakeDriver) gpu(gpu vk.PhysicalDevice) *fakeGPU {
	return f.gpuOf[unsafe.Pointer(gpu)]
}

func (f *fakeDriver) DeviceProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	f.call("DeviceProperties")
	return f.gpu(gpu).props
}

func (f *fakeDriver) MemoryProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	f.call("MemoryProperties")
	return f.memory
}

func (f *fakeDriver) QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	f.call("QueueFamilies")
	return f.gpu(gpu).queues
}

func (f *fakeDriver) SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	if err := f.call("SurfaceSupport"); err != nil {
		return false, err
	}
	return f.gpu(gpu).present[family], nil
}

func (f *fakeDriver) DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	return f.gpu(gpu).extensions, f.call("DeviceExtensions")
}

func (f *fakeDriver) SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	return f.caps, f.call("SurfaceCapabilities")
}

func (f *fakeDriver) SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	return f.formats, f.call("SurfaceFormats")
}

func (f *fakeDriver) PresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	return f.modes, f.call("PresentModes")
}

//Logical device

func (f *fakeDriver) CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	if err := f.call("CreateDevice"); err != nil {
		return nil, err
	}
	f.deviceInfo = info
	return vk.Device(f.handle("device")), nil
}

func (f *fakeDriver) DestroyDevice(device vk.Device) {
	f.call("DestroyDevice")
	f.release(unsafe.Pointer(device), "device")
}

func (f *fakeDriver) DeviceQueue(device vk.Device, family uint32) vk.Queue {
	f.call("DeviceQueue")
	p := unsafe.Pointer(new(uint64))
	f.keep = append(f.keep, p)
	return vk.Queue(p)
}

func (f *fakeDriver) DeviceWaitIdle(device vk.Device) error {
	if err := f.call("DeviceWaitIdle"); err != nil {
		return err
	}
	f.drain()
	return nil
}

func (f *fakeDriver) QueueWaitIdle(queue vk.Queue) error {
	if err := f.call("QueueWaitIdle"); err != nil {
		return err
	}
	f.drain()
	return nil
}

// drain completes every pending submission.
func (f *fakeDriver) drain() {
	for p, s := range f.fences {
		if s == fencePending {
			f.fences[p] = fenceSignaled
		}
	}
}

//Memory and resources

func (f *fakeDriver) AllocateMemory(device vk.Device, size vk.DeviceSize, typeIndex uint32) (vk.DeviceMemory, error) {
	if err := f.call("AllocateMemory"); err != nil {
		return vk.NullDeviceMemory, err
	}
	p := f.handle("memory")
	f.allocSizes[p] = make([]byte, size)
	return vk.DeviceMemory(p), nil
}

func (f *fakeDriver) FreeMemory(device vk.Device, mem vk.DeviceMemory) {
	f.call("FreeMemory")
	delete(f.allocSizes, unsafe.Pointer(mem))
	f.release(unsafe.Pointer(mem), "memory")
}

func (f *fakeDriver) MapMemory(device vk.Device, mem vk.DeviceMemory, offset, size vk.DeviceSize) (unsafe.Pointer, error) {
	if err := f.call("MapMemory"); err != nil {
		return nil, err
	}
	backing := f.allocSizes[unsafe.Pointer(mem)]
	if len(backing) == 0 {
		return nil, errors.New("fake: map of empty allocation")
	}
	return unsafe.Pointer(&backing[offset]), nil
}

func (f *fakeDriver) UnmapMemory(device vk.Device, mem vk.DeviceMemory) {
	f.call("UnmapMemory")
}

func (f *fakeDriver) mapped(mem vk.DeviceMemory) []byte {
	return f.allocSizes[unsafe.Pointer(mem)]
}

func (f *fakeDriver) CreateBuffer(device vk.Device, info *vk.BufferCreateInfo) (vk.Buffer, error) {
	if err := f.call("CreateBuffer"); err != nil {
		return vk.NullBuffer, err
	}
	p := f.handle("buffer")
	f.sizes[p] = info.Size
	return vk.Buffer(p), nil
}

func (f *fakeDriver) DestroyBuffer(device vk.Device, buf vk.Buffer) {
	f.call("DestroyBuffer")
	f.release(unsafe.Pointer(buf), "buffer")
}

func (f *fakeDriver) BufferMemoryRequirements(device vk.Device, buf vk.Buffer) vk.MemoryRequirements {
	f.call("BufferMemoryRequirements")
	return vk.MemoryRequirements{Size: f.sizes[unsafe.Pointer(buf)], Alignment: 4, MemoryTypeBits: f.typeBits}
}

func (f *fakeDriver) BindBufferMemory(device vk.Device, buf vk.Buffer, mem vk.DeviceMemory) error {
	return f.call("BindBufferMemory")
}

func (f *fakeDriver) CreateImage(device vk.Device, info *vk.ImageCreateInfo) (vk.Image, error) {
	if err := f.call("CreateImage"); err != nil {
		return vk.NullImage, err
	}
	p := f.handle("image")
	f.sizes[p] = vk.DeviceSize(info.Extent.Width) * vk.DeviceSize(info.Extent.Height) * 4
	return vk.Image(p), nil
}

func (f *fakeDriver) DestroyImage(device vk.Device, img vk.Image) {
	f.call("DestroyImage")
	f.release(unsafe.Pointer(img), "image")
}

func (f *fakeDriver) ImageMemoryRequirements(device vk.Device, img vk.Image) vk.MemoryRequirements {
	f.call("ImageMemoryRequirements")
	return vk.MemoryRequirements{Size: f.sizes[unsafe.Pointer(img)], Alignment: 4, MemoryTypeBits: f.typeBits}
}

func (f *fakeDriver) BindImageMemory(device vk.Device, img vk.Image, mem vk.DeviceMemory) error {
	return f.call("BindImageMemory")
}

func (f *fakeDriver) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	if err := f.call("CreateImageView"); err != nil {
		return vk.NullImageView, err
	}
	return vk.ImageView(f.handle("view")), nil
}

func (f *fakeDriver) DestroyImageView(device vk.Device, view vk.ImageView) {
	f.call("DestroyImageView")
	f.release(unsafe.Pointer(view), "view")
}

func (f *fakeDriver) CreateSampler(device vk.Device, info *vk.SamplerCreateInfo) (vk.Sampler, error) {
	if err := f.call("CreateSampler"); err != nil {
		return vk.Sampler(vk.NullHandle), err
	}
	return vk.Sampler(f.handle("sampler")), nil
}

func (f *fakeDriver) DestroySampler(device vk.Device, sampler vk.Sampler) {
	f.call("DestroySampler")
	f.release(unsafe.Pointer(sampler), "sampler")
}

//Swapchain

func (f *fakeDriver) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	if err := f.call("CreateSwapchain"); err != nil {
		return vk.NullSwapchain, err
	}
	f.lastSwapInfo = *info
	p := f.handle("swapchain")
	images := make([]vk.Image, info.MinImageCount)
	for i := range images {
		q := unsafe.Pointer(new(uint64))
		f.keep = append(f.keep, q)
		images[i] = vk.Image(q)
	}
	f.swapImages[p] = images
	f.nextImage = 0
	return vk.Swapchain(p), nil
}

func (f *fakeDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	f.call("DestroySwapchain")
	delete(f.swapImages, unsafe.Pointer(swapchain))
	f.release(unsafe.Pointer(swapchain), "swapchain")
}

func (f *fakeDriver) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	return f.swapImages[unsafe.Pointer(swapchain)], f.call("SwapchainImages")
}

func (f *fakeDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, SwapchainStatus, error) {
	if err := f.call("AcquireNextImage"); err != nil {
		return 0, SwapchainOK, err
	}
	status := SwapchainOK
	if len(f.acquire) > 0 {
		status, f.acquire = f.acquire[0], f.acquire[1:]
	}
	images := f.swapImages[unsafe.Pointer(swapchain)]
	index := f.nextImage % uint32(len(images))
	f.nextImage++
	return index, status, nil
}

func (f *fakeDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) (SwapchainStatus, error) {
	if err := f.call("QueuePresent"); err != nil {
		return SwapchainOK, err
	}
	status := SwapchainOK
	if len(f.present) > 0 {
		status, f.present = f.present[0], f.present[1:]
	}
	return status, nil
}

//Render pass, pipeline and descriptors

func (f *fakeDriver) CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	if err := f.call("CreateRenderPass"); err != nil {
		return vk.NullRenderPass, err
	}
	f.lastPassInfo = *info
	return vk.RenderPass(f.handle("renderpass")), nil
}

func (f *fakeDriver) DestroyRenderPass(device vk.Device, pass vk.RenderPass) {
	f.call("DestroyRenderPass")
	f.release(unsafe.Pointer(pass), "renderpass")
}

func (f *fakeDriver) CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	if err := f.call("CreateFramebuffer"); err != nil {
		return vk.NullFramebuffer, err
	}
	return vk.Framebuffer(f.handle("framebuffer")), nil
}

func (f *fakeDriver) DestroyFramebuffer(device vk.Device, fb vk.Framebuffer) {
	f.call("DestroyFramebuffer")
	f.release(unsafe.Pointer(fb), "framebuffer")
}

func (f *fakeDriver) CreateShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	if err := f.call("CreateShaderModule"); err != nil {
		return vk.NullShaderModule, err
	}
	return vk.ShaderModule(f.handle("shader")), nil
}

func (f *fakeDriver) DestroyShaderModule(device vk.Device, module vk.ShaderModule) {
	f.call("DestroyShaderModule")
	f.release(unsafe.Pointer(module), "shader")
}

func (f *fakeDriver) CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error) {
	if err := f.call("CreatePipelineLayout"); err != nil {
		return vk.NullPipelineLayout, err
	}
	return vk.PipelineLayout(f.handle("pipelinelayout")), nil
}

func (f *fakeDriver) DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout) {
	f.call("DestroyPipelineLayout")
	f.release(unsafe.Pointer(layout), "pipelinelayout")
}

func (f *fakeDriver) CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error) {
	if err := f.call("CreateGraphicsPipeline"); err != nil {
		return vk.NullPipeline, err
	}
	return vk.Pipeline(f.handle("pipeline")), nil
}

func (f *fakeDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline) {
	f.call("DestroyPipeline")
	f.release(unsafe.Pointer(pipeline), "pipeline")
}

func (f *fakeDriver) CreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error) {
	if err := f.call("CreateDescriptorSetLayout"); err != nil {
		return vk.NullDescriptorSetLayout, err
	}
	return vk.DescriptorSetLayout(f.handle("setlayout")), nil
}

func (f *fakeDriver) DestroyDescriptorSetLayout(device vk.Device, layout vk.DescriptorSetLayout) {
	f.call("DestroyDescriptorSetLayout")
	f.release(unsafe.Pointer(layout), "setlayout")
}

func (f *fakeDriver) CreateDescriptorPool(device vk.Device, info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error) {
	if err := f.call("CreateDescriptorPool"); err != nil {
		return vk.NullDescriptorPool, err
	}
	return vk.DescriptorPool(f.handle("descriptorpool")), nil
}

func (f *fakeDriver) DestroyDescriptorPool(device vk.Device, pool vk.DescriptorPool) {
	f.call("DestroyDescriptorPool")
	f.release(unsafe.Pointer(pool), "descriptorpool")
}

func (f *fakeDriver) AllocateDescriptorSets(device vk.Device, pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, error) {
	if err := f.call("AllocateDescriptorSets"); err != nil {
		return nil, err
	}
	sets := make([]vk.DescriptorSet, len(layouts))
	for i := range sets {
		p := unsafe.Pointer(new(uint64))
		f.keep = append(f.keep, p)
		sets[i] = vk.DescriptorSet(p)
	}
	return sets, nil
}

func (f *fakeDriver) UpdateDescriptorSets(device vk.Device, writes []vk.WriteDescriptorSet) {
	f.calls["UpdateDescriptorSets"]++
	f.calls["DescriptorWrites"] += len(writes)
}

//Synchronization

func (f *fakeDriver) CreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	if err := f.call("CreateSemaphore"); err != nil {
		return vk.NullSemaphore, err
	}
	return vk.Semaphore(f.handle("semaphore")), nil
}

func (f *fakeDriver) DestroySemaphore(device vk.Device, sem vk.Semaphore) {
	f.call("DestroySemaphore")
	f.release(unsafe.Pointer(sem), "semaphore")
}

func (f *fakeDriver) CreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	if err := f.call("CreateFence"); err != nil {
		return vk.NullFence, err
	}
	p := f.handle("fence")
	f.fences[p] = fenceUnsignaled
	if signaled {
		f.fences[p] = fenceSignaled
	}
	return vk.Fence(p), nil
}

func (f *fakeDriver) DestroyFence(device vk.Device, fence vk.Fence) {
	f.call("DestroyFence")
	if f.fences[unsafe.Pointer(fence)] == fencePending {
		panic("fake: fence destroyed while in use")
	}
	delete(f.fences, unsafe.Pointer(fence))
	f.release(unsafe.Pointer(fence), "fence")
}

func (f *fakeDriver) WaitForFence(device vk.Device, fence vk.Fence) error {
	if err := f.call("WaitForFence"); err != nil {
		return err
	}
	p := unsafe.Pointer(fence)
	switch f.fences[p] {
	case fenceUnsignaled:
		return errors.New("fake: wait on a fence nothing will signal")
	case fencePending:
		f.fences[p] = fenceSignaled
	}
	return nil
}

func (f *fakeDriver) ResetFence(device vk.Device, fence vk.Fence) error {
	if err := f.call("ResetFence"); err != nil {
		return err
	}
	p := unsafe.Pointer(fence)
	if f.fences[p] != fenceSignaled {
		return errors.New("fake: reset of a fence that has not signaled")
	}
	f.fences[p] = fenceUnsignaled
	return nil
}

//Command pools and buffers

func (f *fakeDriver) CreateCommandPool(device vk.Device, family uint32) (vk.CommandPool, error) {
	if err := f.call("CreateCommandPool"); err != nil {
		return vk.NullCommandPool, err
	}
	return vk.CommandPool(f.handle("commandpool")), nil
}

func (f *fakeDriver) DestroyCommandPool(device vk.Device, pool vk.CommandPool) {
	f.call("DestroyCommandPool")
	f.release(unsafe.Pointer(pool), "commandpool")
}

func (f *fakeDriver) AllocateCommandBuffers(device vk.Device, pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	if err := f.call("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	bufs := make([]vk.CommandBuffer, count)
	for i := range bufs {
		bufs[i] = vk.CommandBuffer(f.handle("commandbuffer"))
	}
	return bufs, nil
}

func (f *fakeDriver) FreeCommandBuffers(device vk.Device, pool vk.CommandPool, bufs []vk.CommandBuffer) {
	f.call("FreeCommandBuffers")
	for _, b := range bufs {
		f.checkIdle(b)
		f.release(unsafe.Pointer(b), "commandbuffer")
	}
}

// checkIdle panics when cmd is reused while its last submission is in flight.
func (f *fakeDriver) checkIdle(cmd vk.CommandBuffer) {
	if fence, ok := f.cmdFence[unsafe.Pointer(cmd)]; ok && f.fences[fence] == fencePending {
		panic("fake: command buffer reused while in flight")
	}
}

func (f *fakeDriver) BeginCommandBuffer(cmd vk.CommandBuffer, oneShot bool) error {
	f.checkIdle(cmd)
	return f.call("BeginCommandBuffer")
}

func (f *fakeDriver) EndCommandBuffer(cmd vk.CommandBuffer) error {
	return f.call("EndCommandBuffer")
}

func (f *fakeDriver) ResetCommandBuffer(cmd vk.CommandBuffer) error {
	f.checkIdle(cmd)
	return f.call("ResetCommandBuffer")
}

func (f *fakeDriver) QueueSubmit(queue vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) error {
	if err := f.call("QueueSubmit"); err != nil {
		return err
	}
	if fence == vk.NullFence {
		return nil
	}
	p := unsafe.Pointer(fence)
	if f.fences[p] != fenceUnsignaled {
		return errors.New("fake: submit with a fence that is not reset")
	}
	f.fences[p] = fencePending
	for _, s := range submits {
		for _, cmd := range s.PCommandBuffers {
			f.cmdFence[unsafe.Pointer(cmd)] = p
		}
	}
	return nil
}

//Recording

func (f *fakeDriver) CmdPipelineBarrier(cmd vk.CommandBuffer, src, dst vk.PipelineStageFlags, barriers []vk.ImageMemoryBarrier) {
	f.call("CmdPipelineBarrier")
}

func (f *fakeDriver) CmdCopyBuffer(cmd vk.CommandBuffer, src, dst vk.Buffer, size vk.DeviceSize) {
	f.call("CmdCopyBuffer")
}

func (f *fakeDriver) CmdCopyBufferToImage(cmd vk.CommandBuffer, src vk.Buffer, dst vk.Image, extent vk.Extent2D) {
	f.call("CmdCopyBufferToImage")
}

func (f *fakeDriver) CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo) {
	f.call("CmdBeginRenderPass")
}

func (f *fakeDriver) CmdEndRenderPass(cmd vk.CommandBuffer) {
	f.call("CmdEndRenderPass")
}

func (f *fakeDriver) CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline) {
	f.call("CmdBindPipeline")
}

func (f *fakeDriver) CmdBindVertexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize) {
	f.call("CmdBindVertexBuffer")
}

func (f *fakeDriver) CmdBindIndexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize) {
	f.call("CmdBindIndexBuffer")
	f.lastIndexOffset = offset
}

func (f *fakeDriver) CmdBindDescriptorSet(cmd vk.CommandBuffer, layout vk.PipelineLayout, set vk.DescriptorSet) {
	f.call("CmdBindDescriptorSet")
}

func (f *fakeDriver) CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport) {
	f.call("CmdSetViewport")
}

func (f *fakeDriver) CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D) {
	f.call("CmdSetScissor")
}

func (f *fakeDriver) CmdDrawIndexed(cmd vk.CommandBuffer, indexCount uint32) {
	f.call("CmdDrawIndexed")
	f.lastIndexCount = indexCount
}

var _ Driver = (*fakeDriver)(nil)
