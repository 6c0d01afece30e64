package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Transition is the barrier setup for one supported layout pair.
type Transition struct {
	SrcAccess vk.AccessFlags
	DstAccess vk.AccessFlags
	SrcStage  vk.PipelineStageFlags
	DstStage  vk.PipelineStageFlags
	Aspect    vk.ImageAspectFlags
}

type layoutPair struct {
	from, to vk.ImageLayout
}

var transitions = map[layoutPair]Transition{
	{vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal}: {
		DstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		Aspect:    vk.ImageAspectFlags(vk.ImageAspectColorBit),
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal}: {
		SrcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		DstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		Aspect:    vk.ImageAspectFlags(vk.ImageAspectColorBit),
	},
	{vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal}: {
		DstAccess: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		Aspect:    vk.ImageAspectFlags(vk.ImageAspectColorBit),
	},
	{vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal}: {
		DstAccess: vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit),
		Aspect:    vk.ImageAspectFlags(vk.ImageAspectDepthBit),
	},
}

// LookupTransition returns the barrier setup for the pair, or
// ErrUnsupportedLayoutTransition for any pair outside the table.
func LookupTransition(from, to vk.ImageLayout) (Transition, error) {
	t, ok := transitions[layoutPair{from, to}]
	if !ok {
		return Transition{}, errors.Wrapf(ErrUnsupportedLayoutTransition, "%d -> %d", from, to)
	}
	return t, nil
}

func (t Transition) barrier(image vk.Image, from, to vk.ImageLayout) vk.ImageMemoryBarrier {
	return vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       t.SrcAccess,
		DstAccessMask:       t.DstAccess,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: t.Aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}
}

// TransitionLayout moves image between layouts with a one-shot barrier. An
// unsupported pair fails before any command buffer is allocated.
func (f *Factory) TransitionLayout(image vk.Image, from, to vk.ImageLayout) error {
	t, err := LookupTransition(from, to)
	if err != nil {
		return err
	}
	return f.submitOnce(func(cmd vk.CommandBuffer) {
		f.driver.CmdPipelineBarrier(cmd, t.SrcStage, t.DstStage,
			[]vk.ImageMemoryBarrier{t.barrier(image, from, to)})
	})
}

// CopyBufferToImage copies a tightly packed staging buffer into an image in the
// transfer-dst layout.
func (f *Factory) CopyBufferToImage(src *Buffer, dst *Image) error {
	return f.submitOnce(func(cmd vk.CommandBuffer) {
		f.driver.CmdCopyBufferToImage(cmd, src.Handle, dst.Handle, dst.Spec.Extent)
	})
}
