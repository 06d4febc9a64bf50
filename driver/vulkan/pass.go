package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

type renderPass struct {
	d      *Device
	handle vk.RenderPass
}

// Handle returns the Vulkan render pass.
func (r *renderPass) Handle() vk.RenderPass { return r.handle }

// NewRenderPass creates a render pass with a single color attachment that
// stays in the color attachment layout; the frame records the transitions
// to and from it explicitly.
func (d *Device) NewRenderPass(format driver.Format) (driver.RenderPass, error) {
	attachments := []vk.AttachmentDescription{{
		Format:         vk.Format(format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutColorAttachmentOptimal,
		FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
	}}
	colorRefs := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	subpasses := []vk.SubpassDescription{{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorRefs,
	}}
	dependencies := []vk.SubpassDependency{{
		SrcSubpass:    vk.MaxUint32,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}}
	var pass vk.RenderPass
	ret := vk.CreateRenderPass(d.device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &pass)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create render pass")
	}
	return &renderPass{d: d, handle: pass}, nil
}

func (r *renderPass) Destroy() {
	if r.handle != vk.NullRenderPass {
		vk.DestroyRenderPass(r.d.device, r.handle, nil)
		r.handle = vk.NullRenderPass
	}
}

type framebuffer struct {
	d      *Device
	handle vk.Framebuffer
}

// NewFramebuffer creates a framebuffer with view as its only attachment.
func (d *Device) NewFramebuffer(pass driver.RenderPass, view driver.ImageView, extent driver.Extent) (driver.Framebuffer, error) {
	views := []vk.ImageView{view.(*imageView).handle}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(d.device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      pass.(*renderPass).handle,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}, nil, &fb)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create framebuffer")
	}
	return &framebuffer{d: d, handle: fb}, nil
}

func (f *framebuffer) Destroy() {
	if f.handle != vk.NullFramebuffer {
		vk.DestroyFramebuffer(f.d.device, f.handle, nil)
		f.handle = vk.NullFramebuffer
	}
}
