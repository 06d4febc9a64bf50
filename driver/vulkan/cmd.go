package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

// cmdPool owns the command buffers allocated from it.
type cmdPool struct {
	d       *Device
	pool    vk.CommandPool
	buffers []vk.CommandBuffer
}

// NewCmdPool creates a transient command pool whose buffers can be reset
// individually.
func (d *Device) NewCmdPool() (driver.CmdPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		Flags: vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit |
			vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create command pool")
	}
	return &cmdPool{d: d, pool: pool}, nil
}

// NewCmdBuffer allocates a primary command buffer.
func (p *cmdPool) NewCmdBuffer() (driver.CmdBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(p.d.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: allocate command buffer")
	}
	p.buffers = append(p.buffers, buffers[0])
	return &cmdBuffer{handle: buffers[0]}, nil
}

func (p *cmdPool) Destroy() {
	if len(p.buffers) > 0 {
		vk.FreeCommandBuffers(p.d.device, p.pool, uint32(len(p.buffers)), p.buffers)
		p.buffers = nil
	}
	if p.pool != vk.NullCommandPool {
		vk.DestroyCommandPool(p.d.device, p.pool, nil)
		p.pool = vk.NullCommandPool
	}
}

// cmdBuffer implements driver.CmdBuffer.
type cmdBuffer struct {
	handle vk.CommandBuffer
}

// Handle returns the Vulkan command buffer, for callers that record their
// own draws inside the frame's render pass.
func (c *cmdBuffer) Handle() vk.CommandBuffer { return c.handle }

func (c *cmdBuffer) Begin() error {
	ret := vk.ResetCommandBuffer(c.handle, vk.CommandBufferResetFlags(0))
	if isError(ret) {
		return wrapError(ret, "vulkan: reset command buffer")
	}
	ret = vk.BeginCommandBuffer(c.handle, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	return wrapError(ret, "vulkan: begin command buffer")
}

// barrierMasks maps a layout transition to its access masks and stages.
func barrierMasks(from, to driver.Layout) (srcAccess, dstAccess vk.AccessFlags, srcStage, dstStage vk.PipelineStageFlags) {
	switch {
	case to == driver.LayoutColorAttachment:
		return 0, vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	case from == driver.LayoutColorAttachment && to == driver.LayoutPresent:
		return vk.AccessFlags(vk.AccessColorAttachmentWriteBit), 0,
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	default:
		return 0, 0,
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	}
}

func layout(l driver.Layout) vk.ImageLayout {
	switch l {
	case driver.LayoutColorAttachment:
		return vk.ImageLayoutColorAttachmentOptimal
	case driver.LayoutPresent:
		return vk.ImageLayoutPresentSrc
	default:
		return vk.ImageLayoutUndefined
	}
}

func (c *cmdBuffer) Barrier(b driver.ImageBarrier) {
	srcAccess, dstAccess, srcStage, dstStage := barrierMasks(b.From, b.To)
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           layout(b.From),
		NewLayout:           layout(b.To),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               b.Image.(vk.Image),
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	vk.CmdPipelineBarrier(c.handle, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

func (c *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuffer, area driver.Extent, clear [4]float32) {
	clearValues := []vk.ClearValue{
		vk.NewClearValue(clear[:]),
	}
	vk.CmdBeginRenderPass(c.handle, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  pass.(*renderPass).handle,
		Framebuffer: fb.(*framebuffer).handle,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: area.Width, Height: area.Height},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)
}

func (c *cmdBuffer) EndPass() {
	vk.CmdEndRenderPass(c.handle)
}

func (c *cmdBuffer) End() error {
	return wrapError(vk.EndCommandBuffer(c.handle), "vulkan: end command buffer")
}
