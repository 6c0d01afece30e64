package flightvk

import (
	"fmt"
	"time"

	"github.com/loov/hrtime"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FrameStage names the step of DrawFrame an error came from.
type FrameStage int

const (
	StageWaitFence FrameStage = iota
	StageAcquireImage
	StageRecordCommands
	StageSubmit
	StagePresent
	StageAdvance
)

func (s FrameStage) String() string {
	switch s {
	case StageWaitFence:
		return "wait-fence"
	case StageAcquireImage:
		return "acquire-image"
	case StageRecordCommands:
		return "record-commands"
	case StageSubmit:
		return "submit"
	case StagePresent:
		return "present"
	case StageAdvance:
		return "advance"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// FrameError tags a failure with the stage it happened in.
type FrameError struct {
	Stage FrameStage
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %s: %v", e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

func stageError(stage FrameStage, err error) error {
	if err == nil {
		return nil
	}
	return &FrameError{Stage: stage, Err: err}
}

// FrameStats counts drawn and skipped frames and times the last one.
type FrameStats struct {
	Frames     uint64
	Skipped    uint64
	Recreated  uint64
	LastFrame  time.Duration
	TotalFrame time.Duration
}

// LastFPS is the rate implied by the most recent drawn frame, or 0 before
// any frame was drawn.
func (s FrameStats) LastFPS() float64 {
	if s.LastFrame <= 0 {
		return 0
	}
	return 1 / s.LastFrame.Seconds()
}

// AverageFPS is the mean rate over all drawn frames.
func (s FrameStats) AverageFPS() float64 {
	if s.Frames == 0 || s.TotalFrame <= 0 {
		return 0
	}
	return float64(s.Frames) / s.TotalFrame.Seconds()
}

// Executor draws one frame per DrawFrame call using the current ring slot.
type Executor struct {
	// Clear is the color the pass clears to.
	Clear  [4]float32
	Camera Camera

	ctx         *DeviceContext
	swapchain   *Swapchain
	ring        *Ring
	pass        *RenderPass
	pipeline    *Pipeline
	mesh        *MeshBuffer
	descriptors *Descriptors

	start time.Duration
	stats FrameStats
}

// NewExecutor wires the frame loop. descriptors may be nil, in which case no
// set is bound and uniforms are not written.
func NewExecutor(ctx *DeviceContext, swapchain *Swapchain, ring *Ring, pass *RenderPass, pipeline *Pipeline, mesh *MeshBuffer, descriptors *Descriptors) *Executor {
	return &Executor{
		Clear:       [4]float32{0.1, 0.1, 0.1, 1.0},
		Camera:      DefaultCamera(),
		ctx:         ctx,
		swapchain:   swapchain,
		ring:        ring,
		pass:        pass,
		pipeline:    pipeline,
		mesh:        mesh,
		descriptors: descriptors,
		start:       hrtime.Now(),
	}
}

func (e *Executor) Stats() FrameStats { return e.stats }

// DrawFrame runs wait, acquire, record, submit, present and advance. A frame
// is skipped without error when the swapchain cannot be drawn to, either
// because the window is minimized or because acquire reported it out of date.
func (e *Executor) DrawFrame() error {
	if e.descriptors != nil && e.descriptors.Len() != e.ring.Len() {
		return stageError(StageRecordCommands, errors.Wrapf(ErrStaleDescriptors,
			"%d sets for %d slots", e.descriptors.Len(), e.ring.Len()))
	}
	begin := hrtime.Now()
	sc := e.swapchain
	if sc.State() != SwapchainReady {
		if err := e.recreate(); err != nil {
			return stageError(StageAcquireImage, err)
		}
		if sc.State() != SwapchainReady {
			e.stats.Skipped++
			return nil
		}
	}

	driver, device := e.ctx.Driver, e.ctx.Device
	slot := e.ring.Current()
	if err := driver.WaitForFence(device, slot.Fence); err != nil {
		return stageError(StageWaitFence, err)
	}

	index, acquired, err := driver.AcquireNextImage(device, sc.Handle, slot.ImageAvailable)
	if err != nil {
		return stageError(StageAcquireImage, err)
	}
	if acquired == SwapchainOutOfDate {
		// The fence stays signaled so the next wait on this slot returns.
		sc.MarkStale()
		e.stats.Skipped++
		return stageError(StageAcquireImage, e.recreate())
	}
	if err := driver.ResetFence(device, slot.Fence); err != nil {
		return stageError(StageWaitFence, err)
	}

	if err := e.record(slot, index); err != nil {
		return stageError(StageRecordCommands, err)
	}

	waitStages := []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{slot.ImageAvailable},
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.Command},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.RenderFinished},
	}
	if err := driver.QueueSubmit(e.ctx.GraphicsQueue, []vk.SubmitInfo{submit}, slot.Fence); err != nil {
		return stageError(StageSubmit, err)
	}

	presented, err := driver.QueuePresent(e.ctx.PresentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.RenderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.Handle},
		PImageIndices:      []uint32{index},
	})
	if err != nil {
		return stageError(StagePresent, err)
	}
	if acquired != SwapchainOK || presented != SwapchainOK {
		sc.MarkStale()
		if err := e.recreate(); err != nil {
			return stageError(StagePresent, err)
		}
	}

	e.ring.Advance()
	e.stats.Frames++
	e.stats.LastFrame = hrtime.Since(begin)
	e.stats.TotalFrame += e.stats.LastFrame
	return nil
}

func (e *Executor) recreate() error {
	if err := e.swapchain.Recreate(); err != nil {
		return err
	}
	if e.swapchain.State() == SwapchainReady {
		e.stats.Recreated++
	}
	return nil
}

// record fills the slot's command buffer for the given swapchain image.
func (e *Executor) record(slot *FrameSlot, index uint32) error {
	driver, sc := e.ctx.Driver, e.swapchain
	cmd := slot.Command

	if e.descriptors != nil && slot.Uniform != nil {
		u := e.Camera.Uniforms(hrtime.Since(e.start).Seconds(), sc.Extent)
		if err := slot.Uniform.Write(u.Bytes()); err != nil {
			return err
		}
	}

	if err := driver.ResetCommandBuffer(cmd); err != nil {
		return err
	}
	if err := driver.BeginCommandBuffer(cmd, false); err != nil {
		return err
	}

	t, err := LookupTransition(vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal)
	if err != nil {
		return err
	}
	driver.CmdPipelineBarrier(cmd, t.SrcStage, t.DstStage, []vk.ImageMemoryBarrier{
		t.barrier(sc.Images[index], vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal),
	})

	clear := e.pass.ClearValues(e.Clear[0], e.Clear[1], e.Clear[2], e.Clear[3])
	driver.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      e.pass.Handle,
		Framebuffer:     sc.Framebuffers[index],
		RenderArea:      sc.Scissor(),
		ClearValueCount: uint32(len(clear)),
		PClearValues:    clear,
	})
	driver.CmdBindPipeline(cmd, e.pipeline.Handle)
	e.mesh.Bind(driver, cmd)
	if e.descriptors != nil {
		driver.CmdBindDescriptorSet(cmd, e.pipeline.Layout, e.descriptors.Set(e.ring.Cursor()))
	}
	driver.CmdSetViewport(cmd, sc.Viewport())
	driver.CmdSetScissor(cmd, sc.Scissor())
	driver.CmdDrawIndexed(cmd, e.mesh.IndexCount)
	driver.CmdEndRenderPass(cmd)

	return driver.EndCommandBuffer(cmd)
}
