package flightvk

import (
	"image/color"
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

type fakeWindow struct {
	driver        *fakeDriver
	width, height int
}

func (w *fakeWindow) RequiredExtensions() []string { return []string{"VK_KHR_surface"} }

func (w *fakeWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	return w.driver.newSurface(), nil
}

func (w *fakeWindow) Size() (int, int) { return w.width, w.height }

func newTestContext(t *testing.T, f *fakeDriver) *DeviceContext {
	t.Helper()
	window := &fakeWindow{driver: f, width: 800, height: 600}
	inst, surface, err := openSurface(f, window, "test", false)
	if err != nil {
		t.Fatalf("open surface: %v", err)
	}
	ctx, err := NewDeviceContext(f, inst, surface, DeviceConfig{})
	if err != nil {
		t.Fatalf("device context: %v", err)
	}
	return ctx
}

// newTestFactory returns a factory on a bare fake device.
func newTestFactory(t *testing.T, f *fakeDriver) (*Factory, *CommandPool) {
	t.Helper()
	device, err := f.CreateDevice(nil, &vk.DeviceCreateInfo{})
	if err != nil {
		t.Fatal(err)
	}
	pool, err := NewCommandPool(f, device, 0)
	if err != nil {
		t.Fatal(err)
	}
	return NewFactory(f, device, f.memory, pool.Handle, f.DeviceQueue(device, 0)), pool
}

func testBundle(texSize int) *asset.Bundle {
	vertices, indices := asset.Quad()
	return &asset.Bundle{
		Vertices:       vertices,
		Indices:        indices,
		Texture:        asset.Solid(texSize, texSize, color.RGBA{200, 100, 50, 255}),
		VertexShader:   []byte{0x03, 0x02, 0x23, 0x07},
		FragmentShader: []byte{0x03, 0x02, 0x23, 0x07},
	}
}

func testConfig(frames int) Config {
	cfg := DefaultConfig()
	cfg.FramesInFlight = frames
	cfg.Assets.VertexShader = "vert.spv"
	cfg.Assets.FragmentShader = "frag.spv"
	return cfg
}

func newTestRenderer(t *testing.T, f *fakeDriver, frames int) *Renderer {
	t.Helper()
	window := &fakeWindow{driver: f, width: 800, height: 600}
	r, err := NewRenderer(f, window, testConfig(frames), testBundle(64))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertNoLeaks(t *testing.T, f *fakeDriver) {
	t.Helper()
	if len(f.live) != 0 {
		kinds := make(map[string]int)
		for _, k := range f.live {
			kinds[k]++
		}
		t.Errorf("objects still alive after teardown: %v", kinds)
	}
}
