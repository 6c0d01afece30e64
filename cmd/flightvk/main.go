// Command flightvk opens a window and draws a textured mesh with a
// configurable number of frames in flight.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/loov/hrtime"
	"github.com/xlab/closer"

	"github.com/andewx/flightvk"
	"github.com/andewx/flightvk/asset"
	"github.com/andewx/flightvk/display"
)

func init() {
	// GLFW and the presentation engine want the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg := flightvk.DefaultConfig()
	flag.StringVar(&cfg.AppName, "name", cfg.AppName, "application and window name")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	flag.IntVar(&cfg.FramesInFlight, "frames", cfg.FramesInFlight, "frames in flight")
	flag.IntVar(&cfg.TargetFPS, "fps", cfg.TargetFPS, "target frame rate, 0 for unlimited")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable validation and debug logging")
	flag.BoolVar(&cfg.Depth, "depth", cfg.Depth, "attach a depth buffer")
	flag.StringVar(&cfg.Assets.Mesh, "mesh", "", "kobj mesh, empty for a quad")
	flag.StringVar(&cfg.Assets.Texture, "texture", "", "bmp, ppm or png texture, empty for white")
	flag.StringVar(&cfg.Assets.VertexShader, "vert", "shaders/vert.spv", "vertex shader SPIR-V")
	flag.StringVar(&cfg.Assets.FragmentShader, "frag", "shaders/frag.spv", "fragment shader SPIR-V")
	listDevices := flag.Bool("devices", false, "list physical devices and exit")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	flightvk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	defer closer.Close()
	if err := display.Init(); err != nil {
		flightvk.Fatal(err)
	}
	closer.Bind(display.Terminate)

	window, err := display.NewWindow(cfg.AppName, cfg.Width, cfg.Height)
	if err != nil {
		flightvk.Fatal(err, display.Terminate)
	}
	closer.Bind(window.Destroy)

	driver := flightvk.NewVulkanDriver()
	if *listDevices {
		devices, err := flightvk.ProbeDevices(driver, window, cfg.AppName)
		if err != nil {
			flightvk.Fatal(err, window.Destroy, display.Terminate)
		}
		printDevices(devices)
		return
	}

	if err := cfg.Validate(); err != nil {
		flightvk.Fatal(err, window.Destroy, display.Terminate)
	}
	bundle, err := asset.LoadBundle(context.Background(), cfg.Assets)
	if err != nil {
		flightvk.Fatal(err, window.Destroy, display.Terminate)
	}
	renderer, err := flightvk.NewRenderer(driver, window, cfg, bundle)
	if err != nil {
		flightvk.Fatal(err, window.Destroy, display.Terminate)
	}
	closer.Bind(renderer.Destroy)

	window.OnResize(renderer.Resize)
	window.OnKey(func(key glfw.Key) {
		switch key {
		case glfw.KeyEscape:
			window.Close()
		case glfw.KeyEqual, glfw.KeyKPAdd:
			changeFrames(window, renderer, renderer.FramesInFlight()+1)
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			changeFrames(window, renderer, renderer.FramesInFlight()-1)
		}
	})

	run(window, renderer, cfg)
}

// changeFrames resizes the ring. A failed resize leaves the renderer unable to
// draw, so it ends the program like any other frame error.
func changeFrames(window *display.Window, renderer *flightvk.Renderer, n int) {
	if err := renderer.SetFramesInFlight(n); err != nil {
		flightvk.Fatal(err, renderer.Destroy, window.Destroy, display.Terminate)
	}
	flightvk.Logger().Info("frames in flight", "n", renderer.FramesInFlight())
}

// run is the main loop: poll, draw, then sleep off the rest of the frame
// budget when a target rate is set.
func run(window *display.Window, renderer *flightvk.Renderer, cfg flightvk.Config) {
	var budget time.Duration
	if cfg.TargetFPS > 0 {
		budget = time.Second / time.Duration(cfg.TargetFPS)
	}
	lastReport := hrtime.Now()

	for !window.ShouldClose() {
		start := hrtime.Now()
		if renderer.Minimized() {
			window.Wait()
			continue
		}
		window.Poll()
		if err := renderer.DrawFrame(); err != nil {
			flightvk.Fatal(err, renderer.Destroy, window.Destroy, display.Terminate)
		}

		if now := hrtime.Now(); now-lastReport >= time.Second {
			stats := renderer.Stats()
			window.SetTitle(fmt.Sprintf("%s | %.1f fps | %v | %d in flight",
				cfg.AppName, stats.LastFPS(), stats.LastFrame.Round(time.Microsecond),
				renderer.FramesInFlight()))
			lastReport = now
		}
		if budget > 0 {
			if elapsed := hrtime.Since(start); elapsed < budget {
				time.Sleep(budget - elapsed)
			}
		}
	}
	stats := renderer.Stats()
	flightvk.Logger().Info("done",
		"frames", stats.Frames,
		"skipped", stats.Skipped,
		"recreated", stats.Recreated,
		"avg_fps", fmt.Sprintf("%.1f", stats.AverageFPS()))
}
