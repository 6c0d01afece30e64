package flightvk

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

type vulkanDriver struct{}

// NewVulkanDriver returns the Driver backed by the loaded Vulkan library.
// vk.Init (or vk.SetGetInstanceProcAddr followed by vk.Init) must have run first.
func NewVulkanDriver() Driver {
	return vulkanDriver{}
}

func (d vulkanDriver) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := newError(vk.EnumerateInstanceExtensionProperties("", &count, nil), "vkEnumerateInstanceExtensionProperties"); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err := newError(vk.EnumerateInstanceExtensionProperties("", &count, list), "vkEnumerateInstanceExtensionProperties"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func (d vulkanDriver) InstanceLayers() ([]string, error) {
	var count uint32
	if err := newError(vk.EnumerateInstanceLayerProperties(&count, nil), "vkEnumerateInstanceLayerProperties"); err != nil {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	if err := newError(vk.EnumerateInstanceLayerProperties(&count, list), "vkEnumerateInstanceLayerProperties"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range list[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func (d vulkanDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	var instance vk.Instance
	if err := newError(vk.CreateInstance(info, nil, &instance), "vkCreateInstance"); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	return instance, nil
}

func (d vulkanDriver) DestroyInstance(instance vk.Instance) {
	vk.DestroyInstance(instance, nil)
}

func (d vulkanDriver) CreateDebugCallback(instance vk.Instance, fn DebugCallback) (vk.DebugReportCallback, error) {
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
			object uint64, location uint, messageCode int32, pLayerPrefix string,
			pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			fn(pMessage, severityOf(flags), pLayerPrefix)
			return vk.Bool32(vk.False)
		},
	}, nil, &cb)
	if err := newError(ret, "vkCreateDebugReportCallbackEXT"); err != nil {
		return vk.NullDebugReportCallback, err
	}
	return cb, nil
}

func severityOf(flags vk.DebugReportFlags) Severity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return SeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return SeverityPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return SeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		return SeverityDebug
	}
	return SeverityInfo
}

func (d vulkanDriver) DestroyDebugCallback(instance vk.Instance, cb vk.DebugReportCallback) {
	vk.DestroyDebugReportCallback(instance, cb, nil)
}

func (d vulkanDriver) DestroySurface(instance vk.Instance, surface vk.Surface) {
	vk.DestroySurface(instance, surface, nil)
}

func (d vulkanDriver) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := newError(vk.EnumeratePhysicalDevices(instance, &count, nil), "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	gpus := make([]vk.PhysicalDevice, count)
	if err := newError(vk.EnumeratePhysicalDevices(instance, &count, gpus), "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	return gpus[:count], nil
}

func (d vulkanDriver) DeviceProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	props.Limits.Deref()
	return props
}

func (d vulkanDriver) MemoryProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &props)
	props.Deref()
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		props.MemoryTypes[i].Deref()
	}
	for i := uint32(0); i < props.MemoryHeapCount; i++ {
		props.MemoryHeaps[i].Deref()
	}
	return props
}

func (d vulkanDriver) QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families[:count]
}

func (d vulkanDriver) SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if err := newError(vk.GetPhysicalDeviceSurfaceSupport(gpu, family, surface, &supported), "vkGetPhysicalDeviceSurfaceSupportKHR"); err != nil {
		return false, err
	}
	return supported.B(), nil
}

func (d vulkanDriver) DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := newError(vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil), "vkEnumerateDeviceExtensionProperties"); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err := newError(vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list), "vkEnumerateDeviceExtensionProperties"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func (d vulkanDriver) SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := newError(vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps), "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"); err != nil {
		return caps, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

func (d vulkanDriver) SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	if err := newError(vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil), "vkGetPhysicalDeviceSurfaceFormatsKHR"); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := newError(vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats), "vkGetPhysicalDeviceSurfaceFormatsKHR"); err != nil {
		return nil, err
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats[:count], nil
}

func (d vulkanDriver) PresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	var count uint32
	if err := newError(vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, nil), "vkGetPhysicalDeviceSurfacePresentModesKHR"); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, count)
	if err := newError(vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, modes), "vkGetPhysicalDeviceSurfacePresentModesKHR"); err != nil {
		return nil, err
	}
	return modes[:count], nil
}

func (d vulkanDriver) CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	var device vk.Device
	if err := newError(vk.CreateDevice(gpu, info, nil, &device), "vkCreateDevice"); err != nil {
		return nil, err
	}
	return device, nil
}

func (d vulkanDriver) DestroyDevice(device vk.Device) {
	vk.DestroyDevice(device, nil)
}

func (d vulkanDriver) DeviceQueue(device vk.Device, family uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)
	return queue
}

func (d vulkanDriver) DeviceWaitIdle(device vk.Device) error {
	return newError(vk.DeviceWaitIdle(device), "vkDeviceWaitIdle")
}

func (d vulkanDriver) QueueWaitIdle(queue vk.Queue) error {
	return newError(vk.QueueWaitIdle(queue), "vkQueueWaitIdle")
}

func (d vulkanDriver) AllocateMemory(device vk.Device, size vk.DeviceSize, typeIndex uint32) (vk.DeviceMemory, error) {
	var mem vk.DeviceMemory
	ret := vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  size,
		MemoryTypeIndex: typeIndex,
	}, nil, &mem)
	if err := newError(ret, "vkAllocateMemory"); err != nil {
		return vk.NullDeviceMemory, err
	}
	return mem, nil
}

func (d vulkanDriver) FreeMemory(device vk.Device, mem vk.DeviceMemory) {
	vk.FreeMemory(device, mem, nil)
}

func (d vulkanDriver) MapMemory(device vk.Device, mem vk.DeviceMemory, offset, size vk.DeviceSize) (unsafe.Pointer, error) {
	var data unsafe.Pointer
	if err := newError(vk.MapMemory(device, mem, offset, size, 0, &data), "vkMapMemory"); err != nil {
		return nil, err
	}
	return data, nil
}

func (d vulkanDriver) UnmapMemory(device vk.Device, mem vk.DeviceMemory) {
	vk.UnmapMemory(device, mem)
}

func (d vulkanDriver) CreateBuffer(device vk.Device, info *vk.BufferCreateInfo) (vk.Buffer, error) {
	var buf vk.Buffer
	if err := newError(vk.CreateBuffer(device, info, nil, &buf), "vkCreateBuffer"); err != nil {
		return vk.NullBuffer, err
	}
	return buf, nil
}

func (d vulkanDriver) DestroyBuffer(device vk.Device, buf vk.Buffer) {
	vk.DestroyBuffer(device, buf, nil)
}

func (d vulkanDriver) BufferMemoryRequirements(device vk.Device, buf vk.Buffer) vk.MemoryRequirements {
	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buf, &reqs)
	reqs.Deref()
	return reqs
}

func (d vulkanDriver) BindBufferMemory(device vk.Device, buf vk.Buffer, mem vk.DeviceMemory) error {
	return newError(vk.BindBufferMemory(device, buf, mem, 0), "vkBindBufferMemory")
}

func (d vulkanDriver) CreateImage(device vk.Device, info *vk.ImageCreateInfo) (vk.Image, error) {
	var img vk.Image
	if err := newError(vk.CreateImage(device, info, nil, &img), "vkCreateImage"); err != nil {
		return vk.NullImage, err
	}
	return img, nil
}

func (d vulkanDriver) DestroyImage(device vk.Device, img vk.Image) {
	vk.DestroyImage(device, img, nil)
}

func (d vulkanDriver) ImageMemoryRequirements(device vk.Device, img vk.Image) vk.MemoryRequirements {
	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, img, &reqs)
	reqs.Deref()
	return reqs
}

func (d vulkanDriver) BindImageMemory(device vk.Device, img vk.Image, mem vk.DeviceMemory) error {
	return newError(vk.BindImageMemory(device, img, mem, 0), "vkBindImageMemory")
}

func (d vulkanDriver) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var view vk.ImageView
	if err := newError(vk.CreateImageView(device, info, nil, &view), "vkCreateImageView"); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

func (d vulkanDriver) DestroyImageView(device vk.Device, view vk.ImageView) {
	vk.DestroyImageView(device, view, nil)
}

func (d vulkanDriver) CreateSampler(device vk.Device, info *vk.SamplerCreateInfo) (vk.Sampler, error) {
	var sampler vk.Sampler
	if err := newError(vk.CreateSampler(device, info, nil, &sampler), "vkCreateSampler"); err != nil {
		return sampler, err
	}
	return sampler, nil
}

func (d vulkanDriver) DestroySampler(device vk.Device, sampler vk.Sampler) {
	vk.DestroySampler(device, sampler, nil)
}

func (d vulkanDriver) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	var sc vk.Swapchain
	if err := newError(vk.CreateSwapchain(device, info, nil, &sc), "vkCreateSwapchainKHR"); err != nil {
		return vk.NullSwapchain, err
	}
	return sc, nil
}

func (d vulkanDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	vk.DestroySwapchain(device, swapchain, nil)
}

func (d vulkanDriver) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	var count uint32
	if err := newError(vk.GetSwapchainImages(device, swapchain, &count, nil), "vkGetSwapchainImagesKHR"); err != nil {
		return nil, err
	}
	images := make([]vk.Image, count)
	if err := newError(vk.GetSwapchainImages(device, swapchain, &count, images), "vkGetSwapchainImagesKHR"); err != nil {
		return nil, err
	}
	return images[:count], nil
}

func swapchainResult(ret vk.Result, op string) (SwapchainStatus, error) {
	switch ret {
	case vk.Suboptimal:
		return SwapchainSuboptimal, nil
	case vk.ErrorOutOfDate:
		return SwapchainOutOfDate, nil
	}
	return SwapchainOK, newError(ret, op)
}

func (d vulkanDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, SwapchainStatus, error) {
	var index uint32
	ret := vk.AcquireNextImage(device, swapchain, vk.MaxUint64, signal, vk.NullFence, &index)
	status, err := swapchainResult(ret, "vkAcquireNextImageKHR")
	return index, status, err
}

func (d vulkanDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) (SwapchainStatus, error) {
	return swapchainResult(vk.QueuePresent(queue, info), "vkQueuePresentKHR")
}

func (d vulkanDriver) CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	var pass vk.RenderPass
	if err := newError(vk.CreateRenderPass(device, info, nil, &pass), "vkCreateRenderPass"); err != nil {
		return vk.NullRenderPass, err
	}
	return pass, nil
}

func (d vulkanDriver) DestroyRenderPass(device vk.Device, pass vk.RenderPass) {
	vk.DestroyRenderPass(device, pass, nil)
}

func (d vulkanDriver) CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	var fb vk.Framebuffer
	if err := newError(vk.CreateFramebuffer(device, info, nil, &fb), "vkCreateFramebuffer"); err != nil {
		return vk.NullFramebuffer, err
	}
	return fb, nil
}

func (d vulkanDriver) DestroyFramebuffer(device vk.Device, fb vk.Framebuffer) {
	vk.DestroyFramebuffer(device, fb, nil)
}

func (d vulkanDriver) CreateShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if err := newError(ret, "vkCreateShaderModule"); err != nil {
		return vk.NullShaderModule, err
	}
	return module, nil
}

func (d vulkanDriver) DestroyShaderModule(device vk.Device, module vk.ShaderModule) {
	vk.DestroyShaderModule(device, module, nil)
}

func (d vulkanDriver) CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error) {
	var layout vk.PipelineLayout
	if err := newError(vk.CreatePipelineLayout(device, info, nil, &layout), "vkCreatePipelineLayout"); err != nil {
		return vk.NullPipelineLayout, err
	}
	return layout, nil
}

func (d vulkanDriver) DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout) {
	vk.DestroyPipelineLayout(device, layout, nil)
}

func (d vulkanDriver) CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error) {
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1, []vk.GraphicsPipelineCreateInfo{*info}, nil, pipelines)
	if err := newError(ret, "vkCreateGraphicsPipelines"); err != nil {
		return vk.NullPipeline, err
	}
	return pipelines[0], nil
}

func (d vulkanDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline) {
	vk.DestroyPipeline(device, pipeline, nil)
}

func (d vulkanDriver) CreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error) {
	var layout vk.DescriptorSetLayout
	if err := newError(vk.CreateDescriptorSetLayout(device, info, nil, &layout), "vkCreateDescriptorSetLayout"); err != nil {
		return vk.NullDescriptorSetLayout, err
	}
	return layout, nil
}

func (d vulkanDriver) DestroyDescriptorSetLayout(device vk.Device, layout vk.DescriptorSetLayout) {
	vk.DestroyDescriptorSetLayout(device, layout, nil)
}

func (d vulkanDriver) CreateDescriptorPool(device vk.Device, info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error) {
	var pool vk.DescriptorPool
	if err := newError(vk.CreateDescriptorPool(device, info, nil, &pool), "vkCreateDescriptorPool"); err != nil {
		return vk.NullDescriptorPool, err
	}
	return pool, nil
}

func (d vulkanDriver) DestroyDescriptorPool(device vk.Device, pool vk.DescriptorPool) {
	vk.DestroyDescriptorPool(device, pool, nil)
}

func (d vulkanDriver) AllocateDescriptorSets(device vk.Device, pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, error) {
	if len(layouts) == 0 {
		return nil, nil
	}
	sets := make([]vk.DescriptorSet, len(layouts))
	ret := vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: uint32(len(layouts)),
		PSetLayouts:        layouts,
	}, &sets[0])
	if err := newError(ret, "vkAllocateDescriptorSets"); err != nil {
		return nil, err
	}
	return sets, nil
}

func (d vulkanDriver) UpdateDescriptorSets(device vk.Device, writes []vk.WriteDescriptorSet) {
	vk.UpdateDescriptorSets(device, uint32(len(writes)), writes, 0, nil)
}

func (d vulkanDriver) CreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := newError(ret, "vkCreateSemaphore"); err != nil {
		return vk.NullSemaphore, err
	}
	return sem, nil
}

func (d vulkanDriver) DestroySemaphore(device vk.Device, sem vk.Semaphore) {
	vk.DestroySemaphore(device, sem, nil)
}

func (d vulkanDriver) CreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	ret := vk.CreateFence(device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &fence)
	if err := newError(ret, "vkCreateFence"); err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (d vulkanDriver) DestroyFence(device vk.Device, fence vk.Fence) {
	vk.DestroyFence(device, fence, nil)
}

func (d vulkanDriver) WaitForFence(device vk.Device, fence vk.Fence) error {
	return newError(vk.WaitForFences(device, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64), "vkWaitForFences")
}

func (d vulkanDriver) ResetFence(device vk.Device, fence vk.Fence) error {
	return newError(vk.ResetFences(device, 1, []vk.Fence{fence}), "vkResetFences")
}

func (d vulkanDriver) CreateCommandPool(device vk.Device, family uint32) (vk.CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if err := newError(ret, "vkCreateCommandPool"); err != nil {
		return vk.NullCommandPool, err
	}
	return pool, nil
}

func (d vulkanDriver) DestroyCommandPool(device vk.Device, pool vk.CommandPool) {
	vk.DestroyCommandPool(device, pool, nil)
}

func (d vulkanDriver) AllocateCommandBuffers(device vk.Device, pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	bufs := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}, bufs)
	if err := newError(ret, "vkAllocateCommandBuffers"); err != nil {
		return nil, err
	}
	return bufs, nil
}

func (d vulkanDriver) FreeCommandBuffers(device vk.Device, pool vk.CommandPool, bufs []vk.CommandBuffer) {
	if len(bufs) == 0 {
		return
	}
	vk.FreeCommandBuffers(device, pool, uint32(len(bufs)), bufs)
}

func (d vulkanDriver) BeginCommandBuffer(cmd vk.CommandBuffer, oneShot bool) error {
	var flags vk.CommandBufferUsageFlags
	if oneShot {
		flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	return newError(vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}), "vkBeginCommandBuffer")
}

func (d vulkanDriver) EndCommandBuffer(cmd vk.CommandBuffer) error {
	return newError(vk.EndCommandBuffer(cmd), "vkEndCommandBuffer")
}

func (d vulkanDriver) ResetCommandBuffer(cmd vk.CommandBuffer) error {
	return newError(vk.ResetCommandBuffer(cmd, 0), "vkResetCommandBuffer")
}

func (d vulkanDriver) QueueSubmit(queue vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) error {
	return newError(vk.QueueSubmit(queue, uint32(len(submits)), submits, fence), "vkQueueSubmit")
}

func (d vulkanDriver) CmdPipelineBarrier(cmd vk.CommandBuffer, src, dst vk.PipelineStageFlags, barriers []vk.ImageMemoryBarrier) {
	vk.CmdPipelineBarrier(cmd, src, dst, 0, 0, nil, 0, nil, uint32(len(barriers)), barriers)
}

func (d vulkanDriver) CmdCopyBuffer(cmd vk.CommandBuffer, src, dst vk.Buffer, size vk.DeviceSize) {
	vk.CmdCopyBuffer(cmd, src, dst, 1, []vk.BufferCopy{{Size: size}})
}

func (d vulkanDriver) CmdCopyBufferToImage(cmd vk.CommandBuffer, src vk.Buffer, dst vk.Image, extent vk.Extent2D) {
	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
	}
	vk.CmdCopyBufferToImage(cmd, src, dst, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
}

func (d vulkanDriver) CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo) {
	vk.CmdBeginRenderPass(cmd, info, vk.SubpassContentsInline)
}

func (d vulkanDriver) CmdEndRenderPass(cmd vk.CommandBuffer) {
	vk.CmdEndRenderPass(cmd)
}

func (d vulkanDriver) CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline) {
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, pipeline)
}

func (d vulkanDriver) CmdBindVertexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize) {
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{buf}, []vk.DeviceSize{offset})
}

func (d vulkanDriver) CmdBindIndexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize) {
	vk.CmdBindIndexBuffer(cmd, buf, offset, vk.IndexTypeUint32)
}

func (d vulkanDriver) CmdBindDescriptorSet(cmd vk.CommandBuffer, layout vk.PipelineLayout, set vk.DescriptorSet) {
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, layout, 0, 1, []vk.DescriptorSet{set}, 0, nil)
}

func (d vulkanDriver) CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport) {
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{viewport})
}

func (d vulkanDriver) CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D) {
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{scissor})
}

func (d vulkanDriver) CmdDrawIndexed(cmd vk.CommandBuffer, indexCount uint32) {
	vk.CmdDrawIndexed(cmd, indexCount, 1, 0, 0, 0)
}
