package flightvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// RenderPass is the single-subpass pass the frame draws into: one color
// attachment presented afterwards and an optional depth attachment.
type RenderPass struct {
	Handle      vk.RenderPass
	ColorFormat vk.Format
	DepthFormat vk.Format

	driver Driver
	device vk.Device
}

// NewRenderPass creates the pass. A depth format of vk.FormatUndefined drops
// the depth attachment.
func NewRenderPass(driver Driver, device vk.Device, colorFormat, depthFormat vk.Format) (*RenderPass, error) {
	attachments := []vk.AttachmentDescription{{
		Format:         colorFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	//Setup Subpass Attachment References
	colorReferences := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorReferences,
	}

	srcStage := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	dstStage := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	var srcAccess vk.AccessFlags
	dstAccess := vk.AccessFlags(vk.AccessColorAttachmentWriteBit)

	if depthFormat != vk.FormatUndefined {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
		// Every slot renders into the one depth image, so the clear of the next
		// frame must wait for the depth writes of the previous one.
		srcStage |= vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
		srcAccess |= vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
		dstStage |= vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
		dstAccess |= vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
	}

	dependencies := []vk.SubpassDependency{{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  srcStage,
		DstStageMask:  dstStage,
		SrcAccessMask: srcAccess,
		DstAccessMask: dstAccess,
	}}

	handle, err := driver.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	})
	if err != nil {
		return nil, err
	}
	return &RenderPass{
		Handle:      handle,
		ColorFormat: colorFormat,
		DepthFormat: depthFormat,
		driver:      driver,
		device:      device,
	}, nil
}

// HasDepth reports whether the pass carries a depth attachment.
func (p *RenderPass) HasDepth() bool {
	return p.DepthFormat != vk.FormatUndefined
}

// ClearValues returns the clear color and, with depth, a depth of 1.0.
func (p *RenderPass) ClearValues(r, g, b, a float32) []vk.ClearValue {
	values := []vk.ClearValue{vk.NewClearValue([]float32{r, g, b, a})}
	if p.HasDepth() {
		values = append(values, vk.NewClearDepthStencil(1.0, 0))
	}
	return values
}

func (p *RenderPass) Destroy() {
	if p == nil || p.Handle == vk.NullRenderPass {
		return
	}
	p.driver.DestroyRenderPass(p.device, p.Handle)
	p.Handle = vk.NullRenderPass
}
