package flightvk

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// SwapchainStatus is the non-error outcome of acquire and present.
type SwapchainStatus int

const (
	SwapchainOK SwapchainStatus = iota
	SwapchainSuboptimal
	SwapchainOutOfDate
)

func (s SwapchainStatus) String() string {
	switch s {
	case SwapchainOK:
		return "ok"
	case SwapchainSuboptimal:
		return "suboptimal"
	case SwapchainOutOfDate:
		return "out-of-date"
	}
	return "unknown"
}

// Severity of a validation message.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityPerformance
	SeverityError
)

// DebugCallback receives validation layer messages. The category is the layer prefix.
type DebugCallback func(msg string, sev Severity, category string)

// Driver is the set of GPU entry points the renderer uses. Every call that can
// fail returns an error built with newError; acquire and present additionally
// report the swapchain status. NewVulkanDriver returns the production binding.
type Driver interface {
	//Instance level
	InstanceExtensions() ([]string, error)
	InstanceLayers() ([]string, error)
	CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error)
	DestroyInstance(instance vk.Instance)
	CreateDebugCallback(instance vk.Instance, fn DebugCallback) (vk.DebugReportCallback, error)
	DestroyDebugCallback(instance vk.Instance, cb vk.DebugReportCallback)
	DestroySurface(instance vk.Instance, surface vk.Surface)

	//Physical devices and surface queries
	PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error)
	DeviceProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceProperties
	MemoryProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties
	QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties
	SurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error)
	DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error)
	SurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error)
	SurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error)
	PresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error)

	//Logical device and queues
	CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error)
	DestroyDevice(device vk.Device)
	DeviceQueue(device vk.Device, family uint32) vk.Queue
	DeviceWaitIdle(device vk.Device) error
	QueueWaitIdle(queue vk.Queue) error

	//Memory and resources
	AllocateMemory(device vk.Device, size vk.DeviceSize, typeIndex uint32) (vk.DeviceMemory, error)
	FreeMemory(device vk.Device, mem vk.DeviceMemory)
	MapMemory(device vk.Device, mem vk.DeviceMemory, offset, size vk.DeviceSize) (unsafe.Pointer, error)
	UnmapMemory(device vk.Device, mem vk.DeviceMemory)
	CreateBuffer(device vk.Device, info *vk.BufferCreateInfo) (vk.Buffer, error)
	DestroyBuffer(device vk.Device, buf vk.Buffer)
	BufferMemoryRequirements(device vk.Device, buf vk.Buffer) vk.MemoryRequirements
	BindBufferMemory(device vk.Device, buf vk.Buffer, mem vk.DeviceMemory) error
	CreateImage(device vk.Device, info *vk.ImageCreateInfo) (vk.Image, error)
	DestroyImage(device vk.Device, img vk.Image)
	ImageMemoryRequirements(device vk.Device, img vk.Image) vk.MemoryRequirements
	BindImageMemory(device vk.Device, img vk.Image, mem vk.DeviceMemory) error
	CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(device vk.Device, view vk.ImageView)
	CreateSampler(device vk.Device, info *vk.SamplerCreateInfo) (vk.Sampler, error)
	DestroySampler(device vk.Device, sampler vk.Sampler)

	//Swapchain
	CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error)
	DestroySwapchain(device vk.Device, swapchain vk.Swapchain)
	SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error)
	AcquireNextImage(device vk.Device, swapchain vk.Swapchain, signal vk.Semaphore) (uint32, SwapchainStatus, error)
	QueuePresent(queue vk.Queue, info *vk.PresentInfo) (SwapchainStatus, error)

	//Render pass, pipeline and descriptors
	CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, error)
	DestroyRenderPass(device vk.Device, pass vk.RenderPass)
	CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, error)
	DestroyFramebuffer(device vk.Device, fb vk.Framebuffer)
	CreateShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error)
	DestroyShaderModule(device vk.Device, module vk.ShaderModule)
	CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, error)
	DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout)
	CreateGraphicsPipeline(device vk.Device, info *vk.GraphicsPipelineCreateInfo) (vk.Pipeline, error)
	DestroyPipeline(device vk.Device, pipeline vk.Pipeline)
	CreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error)
	DestroyDescriptorSetLayout(device vk.Device, layout vk.DescriptorSetLayout)
	CreateDescriptorPool(device vk.Device, info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error)
	DestroyDescriptorPool(device vk.Device, pool vk.DescriptorPool)
	AllocateDescriptorSets(device vk.Device, pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, error)
	UpdateDescriptorSets(device vk.Device, writes []vk.WriteDescriptorSet)

	//Synchronization
	CreateSemaphore(device vk.Device) (vk.Semaphore, error)
	DestroySemaphore(device vk.Device, sem vk.Semaphore)
	CreateFence(device vk.Device, signaled bool) (vk.Fence, error)
	DestroyFence(device vk.Device, fence vk.Fence)
	WaitForFence(device vk.Device, fence vk.Fence) error
	ResetFence(device vk.Device, fence vk.Fence) error

	//Command pools and buffers
	CreateCommandPool(device vk.Device, family uint32) (vk.CommandPool, error)
	DestroyCommandPool(device vk.Device, pool vk.CommandPool)
	AllocateCommandBuffers(device vk.Device, pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error)
	FreeCommandBuffers(device vk.Device, pool vk.CommandPool, bufs []vk.CommandBuffer)
	BeginCommandBuffer(cmd vk.CommandBuffer, oneShot bool) error
	EndCommandBuffer(cmd vk.CommandBuffer) error
	ResetCommandBuffer(cmd vk.CommandBuffer) error
	QueueSubmit(queue vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) error

	//Recording
	CmdPipelineBarrier(cmd vk.CommandBuffer, src, dst vk.PipelineStageFlags, barriers []vk.ImageMemoryBarrier)
	CmdCopyBuffer(cmd vk.CommandBuffer, src, dst vk.Buffer, size vk.DeviceSize)
	CmdCopyBufferToImage(cmd vk.CommandBuffer, src vk.Buffer, dst vk.Image, extent vk.Extent2D)
	CmdBeginRenderPass(cmd vk.CommandBuffer, info *vk.RenderPassBeginInfo)
	CmdEndRenderPass(cmd vk.CommandBuffer)
	CmdBindPipeline(cmd vk.CommandBuffer, pipeline vk.Pipeline)
	CmdBindVertexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize)
	CmdBindIndexBuffer(cmd vk.CommandBuffer, buf vk.Buffer, offset vk.DeviceSize)
	CmdBindDescriptorSet(cmd vk.CommandBuffer, layout vk.PipelineLayout, set vk.DescriptorSet)
	CmdSetViewport(cmd vk.CommandBuffer, viewport vk.Viewport)
	CmdSetScissor(cmd vk.CommandBuffer, scissor vk.Rect2D)
	CmdDrawIndexed(cmd vk.CommandBuffer, indexCount uint32)
}
