package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

// shaderStage wraps SPIR-V code in a module for one pipeline stage. The
// returned module must be destroyed once the pipeline has been created.
func shaderStage(driver Driver, device vk.Device, code []byte, stage vk.ShaderStageFlagBits) (vk.PipelineShaderStageCreateInfo, vk.ShaderModule, error) {
	if err := asset.ValidateSPIRV(code); err != nil {
		return vk.PipelineShaderStageCreateInfo{}, vk.NullShaderModule, err
	}
	module, err := driver.CreateShaderModule(device, code)
	if err != nil {
		return vk.PipelineShaderStageCreateInfo{}, vk.NullShaderModule, errors.Wrap(err, "shader module")
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: module,
		PName:  safeString("main"),
	}, module, nil
}
