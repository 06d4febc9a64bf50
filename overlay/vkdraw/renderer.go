// Package vkdraw records overlay batches with vulkan-go.
package vkdraw

import (
	"image"
	"unsafe"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/driver"
	"github.com/andewx/framevk/driver/vulkan"
	"github.com/andewx/framevk/overlay"
)

// fontTexture is the texture id of the font atlas. Commands naming any
// other texture are skipped.
const fontTexture imgui.TextureID = 1

// minBufferSize is the smallest vertex or index buffer allocated.
const minBufferSize = 64 << 10

// commandBuffer is implemented by the command buffers of driver/vulkan.
type commandBuffer interface {
	Handle() vk.CommandBuffer
}

// Renderer implements overlay.Renderer with one alpha-blended pipeline,
// the font atlas bound as a sampled image and per-image vertex and index
// buffers.
type Renderer struct {
	dev       *vulkan.Device
	setLayout vk.DescriptorSetLayout
	layout    vk.PipelineLayout
	pipeline  vk.Pipeline
	pool      vk.DescriptorPool
	set       vk.DescriptorSet
	font      *vulkan.Texture
	frames    []frameBuffers
	next      int
}

var _ overlay.Renderer = (*Renderer)(nil)

// New builds the UI pipeline for pass. imageCount is the swapchain length;
// a buffer pair is kept per image.
func New(dev *vulkan.Device, pass vk.RenderPass, imageCount int) (_ *Renderer, err error) {
	r := &Renderer{dev: dev, frames: make([]frameBuffers, ringSize(imageCount))}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()
	device := dev.Handle()

	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 2,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeSampledImage,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}, {
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}},
	}, nil, &r.setLayout)
	if err := vk.Error(ret); err != nil {
		return nil, errors.Wrap(err, "vkdraw: create descriptor set layout")
	}

	ret = vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{r.setLayout},
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Size:       projectionSize,
		}},
	}, nil, &r.layout)
	if err := vk.Error(ret); err != nil {
		return nil, errors.Wrap(err, "vkdraw: create pipeline layout")
	}

	words, err := vulkan.CompileWGSL(uiShader)
	if err != nil {
		return nil, err
	}
	module, err := dev.NewShaderModule(words)
	if err != nil {
		return nil, err
	}
	defer vk.DestroyShaderModule(device, module, nil)

	r.pipeline, ret = newPipelineBuilder(module).build(device, pass, r.layout)
	if err := vk.Error(ret); err != nil {
		r.pipeline = vk.NullPipeline
		return nil, errors.Wrap(err, "vkdraw: create pipeline")
	}

	ret = vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: 2,
		PPoolSizes: []vk.DescriptorPoolSize{
			{Type: vk.DescriptorTypeSampledImage, DescriptorCount: 1},
			{Type: vk.DescriptorTypeSampler, DescriptorCount: 1},
		},
	}, nil, &r.pool)
	if err := vk.Error(ret); err != nil {
		return nil, errors.Wrap(err, "vkdraw: create descriptor pool")
	}
	ret = vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     r.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{r.setLayout},
	}, &r.set)
	if err := vk.Error(ret); err != nil {
		return nil, errors.Wrap(err, "vkdraw: allocate descriptor set")
	}
	return r, nil
}

// ringSize keeps a buffer pair from being rewritten while a frame that
// still reads it can be in flight.
func ringSize(imageCount int) int {
	if imageCount < framevk.FramesInFlight {
		return framevk.FramesInFlight
	}
	return imageCount
}

// SetFont uploads atlas and binds it to the descriptor set.
func (r *Renderer) SetFont(atlas *imgui.RGBA32Image) (imgui.TextureID, error) {
	if atlas == nil || atlas.Pixels == nil {
		return 0, errors.New("vkdraw: empty font atlas")
	}
	pixels := unsafe.Slice((*byte)(atlas.Pixels), atlas.Width*atlas.Height*4)
	tex, err := r.dev.NewTexture(atlas.Width, atlas.Height, pixels)
	if err != nil {
		return 0, err
	}
	if r.font != nil {
		r.font.Destroy()
	}
	r.font = tex

	vk.UpdateDescriptorSets(r.dev.Handle(), 2, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          r.set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeSampledImage,
		PImageInfo: []vk.DescriptorImageInfo{{
			ImageView:   tex.View(),
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}, {
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          r.set,
		DstBinding:      1,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeSampler,
		PImageInfo:      []vk.DescriptorImageInfo{{Sampler: tex.Sampler()}},
	}}, 0, nil)
	return fontTexture, nil
}

// Draw uploads b into the next buffer pair and records one indexed draw
// per command. It panics when the buffers cannot grow.
func (r *Renderer) Draw(cb driver.CmdBuffer, b *overlay.Batch) {
	h, ok := cb.(commandBuffer)
	if !ok || r.font == nil || len(b.Commands) == 0 || len(b.Vertices) == 0 {
		return
	}
	f := &r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)
	orPanic(f.upload(r.dev, b))

	c := h.Handle()
	vk.CmdBindPipeline(c, vk.PipelineBindPointGraphics, r.pipeline)
	vk.CmdBindDescriptorSets(c, vk.PipelineBindPointGraphics, r.layout, 0, 1, []vk.DescriptorSet{r.set}, 0, nil)
	vk.CmdBindVertexBuffers(c, 0, 1, []vk.Buffer{f.vertices.Handle()}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(c, f.indices.Handle(), 0, indexType(b.IndexSize))
	vk.CmdSetViewport(c, 0, 1, []vk.Viewport{{
		Width:    float32(b.Framebuffer.X),
		Height:   float32(b.Framebuffer.Y),
		MaxDepth: 1,
	}})
	proj := b.Projection
	vk.CmdPushConstants(c, r.layout, vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, projectionSize, unsafe.Pointer(&proj[0]))
	for _, cmd := range b.Commands {
		if cmd.Texture != fontTexture {
			continue
		}
		vk.CmdSetScissor(c, 0, 1, []vk.Rect2D{rect2D(cmd.Scissor)})
		vk.CmdDrawIndexed(c, cmd.Count, 1, cmd.FirstIndex, cmd.VertexOffset, 0)
	}
}

func indexType(size int) vk.IndexType {
	if size == 2 {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

func rect2D(r image.Rectangle) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: int32(r.Min.X), Y: int32(r.Min.Y)},
		Extent: vk.Extent2D{Width: uint32(r.Dx()), Height: uint32(r.Dy())},
	}
}

// Destroy releases every Vulkan object of the renderer. The device must be
// idle.
func (r *Renderer) Destroy() {
	device := r.dev.Handle()
	for i := range r.frames {
		r.frames[i].destroy()
	}
	if r.font != nil {
		r.font.Destroy()
		r.font = nil
	}
	if r.pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(device, r.pool, nil)
		r.pool = vk.NullDescriptorPool
	}
	if r.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(device, r.pipeline, nil)
		r.pipeline = vk.NullPipeline
	}
	if r.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, r.layout, nil)
		r.layout = vk.NullPipelineLayout
	}
	if r.setLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(device, r.setLayout, nil)
		r.setLayout = vk.NullDescriptorSetLayout
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
