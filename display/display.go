// Package display is the GLFW window the renderer presents to.
package display

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Init starts GLFW and loads the Vulkan entry points through it. It must run
// on the main, locked OS thread.
func Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errors.New("glfw: vulkan not supported")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return errors.Wrap(err, "vulkan init")
	}
	return nil
}

func Terminate() {
	glfw.Terminate()
}

// Window wraps a GLFW window created without a client API.
type Window struct {
	win *glfw.Window
}

func NewWindow(title string, width, height int) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	return &Window{win: win}, nil
}

// RequiredExtensions lists the instance extensions presentation needs.
func (w *Window) RequiredExtensions() []string {
	return w.win.GetRequiredInstanceExtensions()
}

func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.win.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

// Size is the framebuffer size in pixels. It is zero while minimized.
func (w *Window) Size() (int, int) {
	return w.win.GetFramebufferSize()
}

// OnResize calls fn with the new framebuffer size.
func (w *Window) OnResize(fn func(width, height int)) {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

// OnKey calls fn for key presses and repeats.
func (w *Window) OnKey(fn func(key glfw.Key)) {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			fn(key)
		}
	})
}

func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

func (w *Window) Poll() {
	glfw.PollEvents()
}

// Wait blocks until an event arrives, used while the window is minimized.
func (w *Window) Wait() {
	glfw.WaitEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) Close() {
	w.win.SetShouldClose(true)
}

func (w *Window) Destroy() {
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
}
