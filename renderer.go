package flightvk

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

// Renderer owns every GPU object of the harness. The windowing layer holds it
// and forwards resize and key events; there is no package-level state.
type Renderer struct {
	ctx         *DeviceContext
	pool        *CommandPool
	factory     *Factory
	swapchain   *Swapchain
	pass        *RenderPass
	texture     *Texture
	mesh        *MeshBuffer
	descriptors *Descriptors
	pipeline    *Pipeline
	ring        *Ring
	executor    *Executor
}

// NewRenderer brings up the device for window and uploads bundle. On failure
// everything created so far is released.
func NewRenderer(driver Driver, window Window, cfg Config, bundle *asset.Bundle) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	inst, surface, err := openSurface(driver, window, cfg.AppName, cfg.Debug)
	if err != nil {
		return nil, err
	}
	ctx, err := NewDeviceContext(driver, inst, surface, DeviceConfig{})
	if err != nil {
		return nil, err
	}
	r := &Renderer{ctx: ctx}
	if err := r.init(window, cfg, bundle); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init(window Window, cfg Config, bundle *asset.Bundle) error {
	ctx := r.ctx
	var err error
	if r.pool, err = NewCommandPool(ctx.Driver, ctx.Device, ctx.Families.Graphics); err != nil {
		return err
	}
	r.factory = NewFactory(ctx.Driver, ctx.Device, ctx.Memory, r.pool.Handle, ctx.GraphicsQueue)

	width, height := window.Size()
	r.swapchain = NewSwapchain(ctx, r.factory, vk.Extent2D{}, cfg.Depth, Selectors{})
	r.swapchain.SetWindowExtent(width, height)
	if err := r.swapchain.Create(); err != nil {
		return err
	}
	colorFormat, err := r.swapchain.ColorFormat()
	if err != nil {
		return err
	}
	depthFormat := vk.FormatUndefined
	if cfg.Depth {
		depthFormat = DepthFormat
	}
	if r.pass, err = NewRenderPass(ctx.Driver, ctx.Device, colorFormat, depthFormat); err != nil {
		return err
	}
	if err := r.swapchain.AttachRenderPass(r.pass.Handle); err != nil {
		return err
	}

	if r.texture, err = r.factory.CreateTexture(bundle.Texture); err != nil {
		return err
	}
	if r.mesh, err = r.factory.CreateMesh(bundle.Vertices, bundle.Indices); err != nil {
		return err
	}
	if r.descriptors, err = NewDescriptors(ctx.Driver, ctx.Device, r.texture); err != nil {
		return err
	}
	r.pipeline, err = NewPipeline(ctx.Driver, ctx.Device, PipelineConfig{
		VertexShader:   bundle.VertexShader,
		FragmentShader: bundle.FragmentShader,
		RenderPass:     r.pass,
		SetLayout:      r.descriptors.Layout,
	})
	if err != nil {
		return err
	}

	if r.ring, err = NewRing(ctx.Driver, ctx.Device, r.pool, cfg.FramesInFlight, r.factory, UniformSize); err != nil {
		return err
	}
	if err := r.descriptors.Rebuild(r.ring); err != nil {
		return err
	}
	r.ring.OnResize(func(int) error {
		return r.descriptors.Rebuild(r.ring)
	})

	r.executor = NewExecutor(ctx, r.swapchain, r.ring, r.pass, r.pipeline, r.mesh, r.descriptors)
	Logger().Info("vulkan: renderer ready",
		"frames_in_flight", r.ring.Len(),
		"indices", r.mesh.IndexCount,
		"texture", [2]int{bundle.Texture.Width, bundle.Texture.Height},
		"swapchain", r.swapchain.State())
	return nil
}

// DrawFrame draws one frame.
func (r *Renderer) DrawFrame() error {
	return r.executor.DrawFrame()
}

// Resize records the new framebuffer size; the swapchain is rebuilt on the
// next frame.
func (r *Renderer) Resize(width, height int) {
	r.swapchain.SetWindowExtent(width, height)
	r.swapchain.MarkStale()
}

// SetFramesInFlight resizes the ring, clamped to [1, MaxFramesInFlight].
func (r *Renderer) SetFramesInFlight(n int) error {
	if n < 1 {
		n = 1
	}
	if n > MaxFramesInFlight {
		n = MaxFramesInFlight
	}
	return r.ring.Resize(n)
}

func (r *Renderer) FramesInFlight() int { return r.ring.Len() }

// Minimized reports whether there is nothing to draw into.
func (r *Renderer) Minimized() bool {
	return zeroExtent(r.swapchain.WindowExtent())
}

func (r *Renderer) Stats() FrameStats { return r.executor.Stats() }

func (r *Renderer) Device() *DeviceContext { return r.ctx }

// Destroy waits for the device and releases everything in reverse creation order.
func (r *Renderer) Destroy() {
	if r == nil || r.ctx == nil {
		return
	}
	if err := r.ctx.WaitIdle(); err != nil {
		Logger().Warn("vulkan: wait idle before teardown", "err", err)
	}
	r.ring.Destroy()
	r.pipeline.Destroy()
	r.descriptors.Destroy()
	r.mesh.Destroy()
	r.texture.Destroy()
	if r.swapchain != nil {
		r.swapchain.Destroy()
	}
	r.pass.Destroy()
	r.pool.Destroy()
	r.ctx.Destroy()
	r.ctx = nil
}
