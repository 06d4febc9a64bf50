package vkdraw

import (
	"github.com/inkyblackness/imgui-go/v4"
	vk "github.com/vulkan-go/vulkan"
)

// vertexInput describes imgui's interleaved vertex: position, UV and an
// RGBA8 color normalized to floats.
func vertexInput() (vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	size, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	binding := vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    uint32(size),
		InputRate: vk.VertexInputRateVertex,
	}
	attributes := []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(posOffset)},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(uvOffset)},
		{Location: 2, Binding: 0, Format: vk.FormatR8g8b8a8Unorm, Offset: uint32(colOffset)},
	}
	return binding, attributes
}

// blendAttachment is straight alpha blending over the cleared image.
func blendAttachment() vk.PipelineColorBlendAttachmentState {
	return vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.True,
		SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
		DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
			vk.ColorComponentBBit | vk.ColorComponentABit),
	}
}

// pipelineBuilder collects the fixed state of the UI pipeline. Viewport
// and scissor are dynamic.
type pipelineBuilder struct {
	stages        []vk.PipelineShaderStageCreateInfo
	binding       vk.VertexInputBindingDescription
	attributes    []vk.VertexInputAttributeDescription
	inputAssembly vk.PipelineInputAssemblyStateCreateInfo
	rasterizer    vk.PipelineRasterizationStateCreateInfo
	multisampling vk.PipelineMultisampleStateCreateInfo
	blend         vk.PipelineColorBlendAttachmentState
	dynamic       []vk.DynamicState
}

func newPipelineBuilder(module vk.ShaderModule) *pipelineBuilder {
	pb := &pipelineBuilder{
		stages: []vk.PipelineShaderStageCreateInfo{{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: module,
			PName:  vertexEntry,
		}, {
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: module,
			PName:  fragmentEntry,
		}},
		inputAssembly: vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		rasterizer: vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1,
		},
		multisampling: vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			MinSampleShading:     1,
		},
		blend:   blendAttachment(),
		dynamic: []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor},
	}
	pb.binding, pb.attributes = vertexInput()
	return pb
}

func (pb *pipelineBuilder) build(device vk.Device, pass vk.RenderPass, layout vk.PipelineLayout) (vk.Pipeline, vk.Result) {
	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(pb.stages)),
		PStages:    pb.stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   1,
			PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{pb.binding},
			VertexAttributeDescriptionCount: uint32(len(pb.attributes)),
			PVertexAttributeDescriptions:    pb.attributes,
		},
		PInputAssemblyState: &pb.inputAssembly,
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &pb.rasterizer,
		PMultisampleState:   &pb.multisampling,
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType: vk.StructureTypePipelineDepthStencilStateCreateInfo,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{pb.blend},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(pb.dynamic)),
			PDynamicStates:    pb.dynamic,
		},
		Layout:            layout,
		RenderPass:        pass,
		BasePipelineIndex: -1,
	}
	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(device, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	return pipelines[0], ret
}
