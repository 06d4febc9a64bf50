package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Texture is a sampled RGBA8 image with a linear, edge-clamped sampler.
type Texture struct {
	d       *Device
	image   vk.Image
	memory  vk.DeviceMemory
	view    vk.ImageView
	sampler vk.Sampler
}

// NewTexture uploads width*height RGBA8 pixels through a staging buffer
// and leaves the image ready for fragment shader reads.
func (d *Device) NewTexture(width, height int, pixels []byte) (_ *Texture, err error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, errors.Errorf("vulkan: texture %dx%d with %d bytes", width, height, len(pixels))
	}
	staging, err := d.NewBuffer(len(pixels), vk.BufferUsageTransferSrcBit)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()
	if err := staging.Write(pixels); err != nil {
		return nil, err
	}

	t := &Texture{d: d}
	defer func() {
		if err != nil {
			t.Destroy()
		}
	}()
	ret := vk.CreateImage(d.device, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        vk.FormatR8g8b8a8Unorm,
		Extent:        vk.Extent3D{Width: uint32(width), Height: uint32(height), Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &t.image)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create image")
	}
	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, t.image, &reqs)
	reqs.Deref()
	if t.memory, err = d.allocate(reqs, vk.MemoryPropertyDeviceLocalBit); err != nil {
		return nil, err
	}
	if ret := vk.BindImageMemory(d.device, t.image, t.memory, 0); isError(ret) {
		return nil, wrapError(ret, "vulkan: bind image memory")
	}

	err = d.oneShot(func(cb vk.CommandBuffer) {
		imageBarrier(cb, t.image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
		vk.CmdCopyBufferToImage(cb, staging.handle, t.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: 1,
			},
			ImageExtent: vk.Extent3D{Width: uint32(width), Height: uint32(height), Depth: 1},
		}})
		imageBarrier(cb, t.image, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	})
	if err != nil {
		return nil, errors.Wrap(err, "vulkan: upload texture")
	}

	ret = vk.CreateImageView(d.device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    t.image,
		ViewType: vk.ImageViewType2d,
		Format:   vk.FormatR8g8b8a8Unorm,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &t.view)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create image view")
	}
	ret = vk.CreateSampler(d.device, &vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.FilterLinear,
		MinFilter:    vk.FilterLinear,
		MipmapMode:   vk.SamplerMipmapModeLinear,
		AddressModeU: vk.SamplerAddressModeClampToEdge,
		AddressModeV: vk.SamplerAddressModeClampToEdge,
		AddressModeW: vk.SamplerAddressModeClampToEdge,
		MaxLod:       1,
		BorderColor:  vk.BorderColorFloatTransparentBlack,
	}, nil, &t.sampler)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create sampler")
	}
	return t, nil
}

// uploadMasks maps the two transitions of a texture upload to their access
// masks and stages.
func uploadMasks(from, to vk.ImageLayout) (srcAccess, dstAccess vk.AccessFlags, srcStage, dstStage vk.PipelineStageFlags) {
	if from == vk.ImageLayoutUndefined {
		return 0, vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	}
	return vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessShaderReadBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)
}

func imageBarrier(cb vk.CommandBuffer, image vk.Image, from, to vk.ImageLayout) {
	srcAccess, dstAccess, srcStage, dstStage := uploadMasks(from, to)
	vk.CmdPipelineBarrier(cb, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}})
}

// View returns the image view for descriptor writes.
func (t *Texture) View() vk.ImageView { return t.view }

// Sampler returns the texture's sampler.
func (t *Texture) Sampler() vk.Sampler { return t.sampler }

func (t *Texture) Destroy() {
	if t.sampler != vk.NullSampler {
		vk.DestroySampler(t.d.device, t.sampler, nil)
		t.sampler = vk.NullSampler
	}
	if t.view != vk.NullImageView {
		vk.DestroyImageView(t.d.device, t.view, nil)
		t.view = vk.NullImageView
	}
	if t.image != vk.NullImage {
		vk.DestroyImage(t.d.device, t.image, nil)
		t.image = vk.NullImage
	}
	if t.memory != vk.NullDeviceMemory {
		vk.FreeMemory(t.d.device, t.memory, nil)
		t.memory = vk.NullDeviceMemory
	}
}
