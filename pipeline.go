package flightvk

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

// PipelineConfig is what the graphics pipeline is built from.
type PipelineConfig struct {
	VertexShader   []byte
	FragmentShader []byte
	RenderPass     *RenderPass
	SetLayout      vk.DescriptorSetLayout
}

// Pipeline owns the graphics pipeline and its layout. Viewport and scissor
// are dynamic so the pipeline survives swapchain recreation.
type Pipeline struct {
	Handle vk.Pipeline
	Layout vk.PipelineLayout

	driver Driver
	device vk.Device
}

// vertexInput describes asset.Vertex: position, normal and uv, interleaved.
func vertexInput() ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	var v asset.Vertex
	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(v)),
		InputRate: vk.VertexInputRateVertex,
	}}
	attributes := []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(v.Position))},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(v.Normal))},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(v.UV))},
	}
	return bindings, attributes
}

func NewPipeline(driver Driver, device vk.Device, cfg PipelineConfig) (*Pipeline, error) {
	vertStage, vertModule, err := shaderStage(driver, device, cfg.VertexShader, vk.ShaderStageVertexBit)
	if err != nil {
		return nil, err
	}
	defer driver.DestroyShaderModule(device, vertModule)
	fragStage, fragModule, err := shaderStage(driver, device, cfg.FragmentShader, vk.ShaderStageFragmentBit)
	if err != nil {
		return nil, err
	}
	defer driver.DestroyShaderModule(device, fragModule)

	var setLayouts []vk.DescriptorSetLayout
	if cfg.SetLayout != vk.NullDescriptorSetLayout {
		setLayouts = append(setLayouts, cfg.SetLayout)
	}
	layout, err := driver.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	})
	if err != nil {
		return nil, err
	}

	bindings, attributes := vertexInput()
	vertexInputState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}
	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeNone),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
		LineWidth:               1.0,
	}
	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		SampleShadingEnable:  vk.False,
		MinSampleShading:     1.0,
	}
	//No blending, but we do write to the color attachment
	blendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
			vk.ColorComponentBBit | vk.ColorComponentABit),
		BlendEnable: vk.False,
	}
	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{blendAttachment},
	}
	depthTest := vk.False
	if cfg.RenderPass.HasDepth() {
		depthTest = vk.True
	}
	depthState := vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  vk.Bool32(depthTest),
		DepthWriteEnable: vk.Bool32(depthTest),
		DepthCompareOp:   vk.CompareOpLess,
	}
	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	stages := []vk.PipelineShaderStageCreateInfo{vertStage, fragStage}
	handle, err := driver.CreateGraphicsPipeline(device, &vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  &depthState,
		PColorBlendState:    &blendState,
		PDynamicState:       &dynamicState,
		Layout:              layout,
		RenderPass:          cfg.RenderPass.Handle,
		Subpass:             0,
	})
	if err != nil {
		driver.DestroyPipelineLayout(device, layout)
		return nil, err
	}
	return &Pipeline{Handle: handle, Layout: layout, driver: driver, device: device}, nil
}

func (p *Pipeline) Destroy() {
	if p == nil || p.Handle == vk.NullPipeline {
		return
	}
	p.driver.DestroyPipeline(p.device, p.Handle)
	p.driver.DestroyPipelineLayout(p.device, p.Layout)
	p.Handle = vk.NullPipeline
	p.Layout = vk.NullPipelineLayout
}
