package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainState tracks the lifecycle Uninitialized -> Ready <-> Stale -> Destroyed.
type SwapchainState int

const (
	SwapchainUninitialized SwapchainState = iota
	SwapchainReady
	SwapchainStale
	SwapchainDestroyed
)

func (s SwapchainState) String() string {
	switch s {
	case SwapchainUninitialized:
		return "uninitialized"
	case SwapchainReady:
		return "ready"
	case SwapchainStale:
		return "stale"
	case SwapchainDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// DepthFormat is the format of the swapchain depth attachment.
const DepthFormat = vk.FormatD32Sfloat

// DesiredImageCount is the swapchain length asked for before clamping.
const DesiredImageCount = 2

type FormatSelector interface {
	SelectFormat(available []vk.SurfaceFormat) vk.SurfaceFormat
}

type FormatFunc func(available []vk.SurfaceFormat) vk.SurfaceFormat

func (f FormatFunc) SelectFormat(available []vk.SurfaceFormat) vk.SurfaceFormat { return f(available) }

type PresentModeSelector interface {
	SelectPresentMode(available []vk.PresentMode) vk.PresentMode
}

type PresentModeFunc func(available []vk.PresentMode) vk.PresentMode

func (f PresentModeFunc) SelectPresentMode(available []vk.PresentMode) vk.PresentMode {
	return f(available)
}

type ExtentSelector interface {
	SelectExtent(caps vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D
}

type ExtentFunc func(caps vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D

func (f ExtentFunc) SelectExtent(caps vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D {
	return f(caps, window)
}

type ImageCountSelector interface {
	SelectImageCount(caps vk.SurfaceCapabilities) uint32
}

type ImageCountFunc func(caps vk.SurfaceCapabilities) uint32

func (f ImageCountFunc) SelectImageCount(caps vk.SurfaceCapabilities) uint32 { return f(caps) }

// Selectors are the swapchain creation policies. Nil fields use the defaults.
type Selectors struct {
	Format      FormatSelector
	PresentMode PresentModeSelector
	Extent      ExtentSelector
	ImageCount  ImageCountSelector
}

// PreferSRGB picks B8G8R8A8 sRGB with the sRGB non-linear color space, else the first format.
var PreferSRGB = FormatFunc(func(available []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range available {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	f := available[0]
	if f.Format == vk.FormatUndefined {
		f.Format = vk.FormatB8g8r8a8Srgb
	}
	return f
})

// PreferMailbox picks mailbox when offered, else FIFO, which is always supported.
var PreferMailbox = PresentModeFunc(func(available []vk.PresentMode) vk.PresentMode {
	for _, m := range available {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	return vk.PresentModeFifo
})

// SurfaceExtent uses the surface's current extent. When the surface leaves the
// extent to the application it clamps the window extent into the allowed range.
var SurfaceExtent = ExtentFunc(func(caps vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(window.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(window.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
})

// ClampedImageCount asks for DesiredImageCount images within the surface limits.
var ClampedImageCount = ImageCountFunc(func(caps vk.SurfaceCapabilities) uint32 {
	return ClampImageCount(DesiredImageCount, caps.MinImageCount, caps.MaxImageCount)
})

// ClampImageCount clamps target into [lo, hi]. A hi of 0 means unbounded.
func ClampImageCount(target, lo, hi uint32) uint32 {
	if target < lo {
		target = lo
	}
	if hi > 0 && target > hi {
		target = hi
	}
	return target
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s Selectors) withDefaults() Selectors {
	if s.Format == nil {
		s.Format = PreferSRGB
	}
	if s.PresentMode == nil {
		s.PresentMode = PreferMailbox
	}
	if s.Extent == nil {
		s.Extent = SurfaceExtent
	}
	if s.ImageCount == nil {
		s.ImageCount = ClampedImageCount
	}
	return s
}

// Swapchain owns the presentation images' views, framebuffers and the depth
// buffer. The images themselves belong to the swapchain handle. Recreation
// happens in place and keeps the render pass.
type Swapchain struct {
	Handle       vk.Swapchain
	Capabilities vk.SurfaceCapabilities
	Format       vk.SurfaceFormat
	PresentMode  vk.PresentMode
	Extent       vk.Extent2D
	ImageCount   uint32
	Images       []vk.Image
	Views        []vk.ImageView
	Framebuffers []vk.Framebuffer
	Depth        *Image

	ctx        *DeviceContext
	factory    *Factory
	selectors  Selectors
	withDepth  bool
	state      SwapchainState
	window     vk.Extent2D
	renderPass vk.RenderPass
}

func NewSwapchain(ctx *DeviceContext, factory *Factory, window vk.Extent2D, withDepth bool, selectors Selectors) *Swapchain {
	return &Swapchain{
		ctx:        ctx,
		factory:    factory,
		selectors:  selectors.withDefaults(),
		withDepth:  withDepth,
		window:     window,
		renderPass: vk.NullRenderPass,
		Handle:     vk.NullSwapchain,
	}
}

func (s *Swapchain) State() SwapchainState { return s.state }

// DepthEnabled reports whether framebuffers carry a depth attachment.
func (s *Swapchain) DepthEnabled() bool { return s.withDepth }

// SetWindowExtent caches the window size reported by the windowing layer.
func (s *Swapchain) SetWindowExtent(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.window = vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}

func (s *Swapchain) WindowExtent() vk.Extent2D { return s.window }

// Create builds the swapchain for the first time. A zero window extent leaves it Stale.
func (s *Swapchain) Create() error {
	if s.state != SwapchainUninitialized {
		return errors.Errorf("swapchain create in state %s", s.state)
	}
	if zeroExtent(s.window) {
		s.state = SwapchainStale
		return nil
	}
	if err := s.build(); err != nil {
		return err
	}
	s.state = SwapchainReady
	return nil
}

// AttachRenderPass records the render pass framebuffers are built against and
// builds them if the swapchain is Ready.
func (s *Swapchain) AttachRenderPass(pass vk.RenderPass) error {
	s.renderPass = pass
	if s.state != SwapchainReady {
		return nil
	}
	s.destroyFramebuffers()
	return s.createFramebuffers()
}

// ColorFormat is the format the swapchain images have, or will have once it
// can be built. The render pass is created against it.
func (s *Swapchain) ColorFormat() (vk.Format, error) {
	if s.state == SwapchainReady {
		return s.Format.Format, nil
	}
	formats, err := s.ctx.Driver.SurfaceFormats(s.ctx.PhysicalDevice, s.ctx.Surface)
	if err != nil {
		return vk.FormatUndefined, err
	}
	if len(formats) == 0 {
		return vk.FormatUndefined, ErrNoSurfaceFormat
	}
	return s.selectors.Format.SelectFormat(formats).Format, nil
}

// MarkStale flags the swapchain for recreation.
func (s *Swapchain) MarkStale() {
	if s.state == SwapchainReady {
		s.state = SwapchainStale
	}
}

// Recreate rebuilds a Stale swapchain after waiting for the device to go idle.
// With a zero window extent it performs no GPU calls and stays Stale.
func (s *Swapchain) Recreate() error {
	switch s.state {
	case SwapchainStale:
	case SwapchainReady:
		return nil
	default:
		return errors.Errorf("swapchain recreate in state %s", s.state)
	}
	if zeroExtent(s.window) {
		return nil
	}
	if err := s.ctx.WaitIdle(); err != nil {
		return err
	}
	caps, err := s.ctx.Driver.SurfaceCapabilities(s.ctx.PhysicalDevice, s.ctx.Surface)
	if err != nil {
		return err
	}
	if zeroExtent(s.selectors.Extent.SelectExtent(caps, s.window)) {
		return nil
	}

	s.releaseViews()
	if err := s.build(); err != nil {
		return err
	}
	s.state = SwapchainReady
	Logger().Debug("vulkan: swapchain recreated", "width", s.Extent.Width, "height", s.Extent.Height, "images", len(s.Images))
	return nil
}

// Destroy releases everything the swapchain owns. It is safe to call twice.
func (s *Swapchain) Destroy() {
	if s.state == SwapchainDestroyed {
		return
	}
	s.releaseViews()
	if s.Handle != vk.NullSwapchain {
		s.ctx.Driver.DestroySwapchain(s.ctx.Device, s.Handle)
		s.Handle = vk.NullSwapchain
	}
	s.state = SwapchainDestroyed
}

func zeroExtent(e vk.Extent2D) bool {
	return e.Width == 0 || e.Height == 0
}

func (s *Swapchain) build() error {
	driver, gpu, surface := s.ctx.Driver, s.ctx.PhysicalDevice, s.ctx.Surface

	caps, err := driver.SurfaceCapabilities(gpu, surface)
	if err != nil {
		return err
	}
	formats, err := driver.SurfaceFormats(gpu, surface)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		return ErrNoSurfaceFormat
	}
	modes, err := driver.PresentModes(gpu, surface)
	if err != nil {
		return err
	}
	if len(modes) == 0 {
		return ErrNoPresentMode
	}

	s.Capabilities = caps
	s.Format = s.selectors.Format.SelectFormat(formats)
	s.PresentMode = s.selectors.PresentMode.SelectPresentMode(modes)
	s.Extent = s.selectors.Extent.SelectExtent(caps, s.window)
	s.ImageCount = s.selectors.ImageCount.SelectImageCount(caps)

	// Figure out a suitable surface transform.
	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	// Find a supported composite alpha mode - one of these is guaranteed to be set
	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, flag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(flag) != 0 {
			compositeAlpha = flag
			break
		}
	}

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    s.ImageCount,
		ImageFormat:      s.Format.Format,
		ImageColorSpace:  s.Format.ColorSpace,
		ImageExtent:      s.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      s.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     s.Handle,
	}
	if !s.ctx.Families.Shared() {
		indices := s.ctx.Families.Indices()
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = uint32(len(indices))
		info.PQueueFamilyIndices = indices
	}

	handle, err := driver.CreateSwapchain(s.ctx.Device, &info)
	if err != nil {
		return err
	}
	if s.Handle != vk.NullSwapchain {
		driver.DestroySwapchain(s.ctx.Device, s.Handle)
	}
	s.Handle = handle

	if s.Images, err = driver.SwapchainImages(s.ctx.Device, handle); err != nil {
		return err
	}
	s.Views = make([]vk.ImageView, 0, len(s.Images))
	for _, img := range s.Images {
		view, err := createImageView(driver, s.ctx.Device, img, s.Format.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return err
		}
		s.Views = append(s.Views, view)
	}

	if s.withDepth {
		if err := s.createDepth(); err != nil {
			return err
		}
	}
	if s.renderPass != vk.NullRenderPass {
		return s.createFramebuffers()
	}
	return nil
}

func (s *Swapchain) createDepth() error {
	depth, err := s.factory.CreateImage(ImageSpec{
		Extent: s.Extent,
		Type:   vk.ImageType2d,
		Format: DepthFormat,
		Tiling: vk.ImageTilingOptimal,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		Aspect: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
	}, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return errors.Wrap(err, "depth buffer")
	}
	s.Depth = depth
	if err := depth.CreateView(); err != nil {
		return err
	}
	return s.factory.TransitionLayout(depth.Handle, vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal)
}

func (s *Swapchain) createFramebuffers() error {
	s.Framebuffers = make([]vk.Framebuffer, 0, len(s.Views))
	for _, view := range s.Views {
		attachments := []vk.ImageView{view}
		if s.Depth != nil {
			attachments = append(attachments, s.Depth.View)
		}
		fb, err := s.ctx.Driver.CreateFramebuffer(s.ctx.Device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      s.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           s.Extent.Width,
			Height:          s.Extent.Height,
			Layers:          1,
		})
		if err != nil {
			return err
		}
		s.Framebuffers = append(s.Framebuffers, fb)
	}
	return nil
}

func (s *Swapchain) destroyFramebuffers() {
	for _, fb := range s.Framebuffers {
		s.ctx.Driver.DestroyFramebuffer(s.ctx.Device, fb)
	}
	s.Framebuffers = nil
}

// releaseViews drops framebuffers, views and the depth buffer but keeps the
// swapchain handle so it can be passed as the old swapchain.
func (s *Swapchain) releaseViews() {
	s.destroyFramebuffers()
	for _, view := range s.Views {
		s.ctx.Driver.DestroyImageView(s.ctx.Device, view)
	}
	s.Views = nil
	s.Images = nil
	s.Depth.Destroy()
	s.Depth = nil
}

// Viewport covers the whole extent with the standard depth range.
func (s *Swapchain) Viewport() vk.Viewport {
	return vk.Viewport{
		Width:    float32(s.Extent.Width),
		Height:   float32(s.Extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
}

func (s *Swapchain) Scissor() vk.Rect2D {
	return vk.Rect2D{Offset: vk.Offset2D{}, Extent: s.Extent}
}
