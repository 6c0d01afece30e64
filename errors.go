package flightvk

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	ErrNoCompatibleMemoryType      = errors.New("no compatible memory type")
	ErrNoSuitableDevice            = errors.New("no suitable physical device")
	ErrNoQueueFamily               = errors.New("no queue family with graphics and present support")
	ErrNoSurfaceFormat             = errors.New("surface reports no formats")
	ErrNoPresentMode               = errors.New("surface reports no present modes")
	ErrUnsupportedLayoutTransition = errors.New("unsupported layout transition")
	ErrMissingCapability           = errors.New("required capability not available")
	ErrGPUCall                     = errors.New("gpu call failed")
	ErrStaleDescriptors            = errors.New("descriptor sets do not cover every frame slot")
)

// ResultError is returned when a driver entry point reports a failing vk.Result.
type ResultError struct {
	Result vk.Result
	Op     string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("vulkan error: %s (%d) on %s", vk.Error(e.Result).Error(), e.Result, e.Op)
}

func (e *ResultError) Unwrap() error { return ErrGPUCall }

// newError converts ret into an error. vk.Incomplete is logged and treated as success.
func newError(ret vk.Result, op string) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.Incomplete:
		Logger().Warn("vulkan: incomplete result", "op", op)
		return nil
	}
	return errors.WithStack(&ResultError{Result: ret, Op: op})
}

// IsResult reports whether err carries the given vk.Result.
func IsResult(err error, ret vk.Result) bool {
	var re *ResultError
	if stderrors.As(err, &re) {
		return re.Result == ret
	}
	return false
}

// FatalLogPath is the file Fatal appends the failing error and its stack to.
var FatalLogPath = "fatal_log.txt"

// Fatal runs the finalizers, reports err and exits.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	logFatal(err)
	os.Exit(1)
}

// logFatal reports err on the package logger and appends it, with its stack,
// to FatalLogPath.
func logFatal(err error) {
	Logger().Error("fatal", "err", err)
	file, ferr := os.OpenFile(FatalLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if ferr != nil {
		Logger().Error("open fatal log", "path", FatalLogPath, "err", ferr)
		return
	}
	defer file.Close()
	slog.New(slog.NewTextHandler(file, nil)).Error("fatal", "err", fmt.Sprintf("%+v", err))
}
