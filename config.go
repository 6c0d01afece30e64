package flightvk

import (
	"github.com/pkg/errors"

	"github.com/andewx/flightvk/asset"
)

const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultFramesInFlight = 2
	DefaultTargetFPS      = 60

	// MaxFramesInFlight bounds the ring; more slots only add latency.
	MaxFramesInFlight = 8
)

// Config is everything the harness is configured with.
type Config struct {
	AppName        string
	Width          int
	Height         int
	FramesInFlight int
	// TargetFPS caps the loop rate; zero disables the limiter.
	TargetFPS int
	Debug     bool
	Depth     bool
	Assets    asset.Paths
}

func DefaultConfig() Config {
	return Config{
		AppName:        "flightvk",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FramesInFlight: DefaultFramesInFlight,
		TargetFPS:      DefaultTargetFPS,
		Depth:          true,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.AppName == "":
		return errors.New("config: empty app name")
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("config: window %dx%d", c.Width, c.Height)
	case c.FramesInFlight < 1 || c.FramesInFlight > MaxFramesInFlight:
		return errors.Errorf("config: frames in flight %d not in [1, %d]", c.FramesInFlight, MaxFramesInFlight)
	case c.TargetFPS < 0:
		return errors.Errorf("config: target fps %d", c.TargetFPS)
	case c.Assets.VertexShader == "" || c.Assets.FragmentShader == "":
		return errors.New("config: vertex and fragment shaders are required")
	}
	return nil
}
