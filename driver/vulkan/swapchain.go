package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

// swapchain implements driver.Swapchain.
type swapchain struct {
	d      *Device
	handle vk.Swapchain
}

// NewSwapchain creates a swapchain for the device surface.
func (d *Device) NewSwapchain(info driver.SwapchainInfo, old driver.Swapchain) (driver.Swapchain, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(d.gpu, d.surface.handle, &caps)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: surface capabilities")
	}
	caps.Deref()

	// Figure out a suitable surface transform.
	var preTransform vk.SurfaceTransformFlagBits
	requiredTransform := vk.SurfaceTransformIdentityBit
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&requiredTransform != 0 {
		preTransform = requiredTransform
	} else {
		preTransform = caps.CurrentTransform
	}

	// Find a supported composite alpha mode - one of these is guaranteed to be set
	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for i := 0; i < len(compositeAlphaFlags); i++ {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(compositeAlphaFlags[i]) != 0 {
			compositeAlpha = compositeAlphaFlags[i]
			break
		}
	}

	oldHandle := vk.NullSwapchain
	if old != nil {
		oldHandle = old.(*swapchain).handle
	}
	var handle vk.Swapchain
	ret = vk.CreateSwapchain(d.device, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               d.surface.handle,
		MinImageCount:         info.ImageCount,
		ImageFormat:           vk.Format(info.Format.Format),
		ImageColorSpace:       vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:           vk.Extent2D{Width: info.Extent.Width, Height: info.Extent.Height},
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:          preTransform,
		CompositeAlpha:        compositeAlpha,
		ImageArrayLayers:      1,
		ImageSharingMode:      vk.SharingModeExclusive,
		QueueFamilyIndexCount: 1,
		PQueueFamilyIndices:   []uint32{info.QueueFamily},
		PresentMode:           vk.PresentMode(info.PresentMode),
		OldSwapchain:          oldHandle,
		Clipped:               vk.True,
	}, nil, &handle)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create swapchain")
	}
	return &swapchain{d: d, handle: handle}, nil
}

// Images returns the swapchain images.
func (s *swapchain) Images() ([]driver.Image, error) {
	var count uint32
	ret := vk.GetSwapchainImages(s.d.device, s.handle, &count, nil)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: swapchain images")
	}
	images := make([]vk.Image, count)
	ret = vk.GetSwapchainImages(s.d.device, s.handle, &count, images)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: swapchain images")
	}
	out := make([]driver.Image, count)
	for i := range images {
		out[i] = images[i]
	}
	return out, nil
}

// NewView creates a 2D color view of img.
func (s *swapchain) NewView(img driver.Image, format driver.Format) (driver.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(s.d.device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img.(vk.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create image view")
	}
	return &imageView{d: s.d, handle: view}, nil
}

// Next acquires the next image index, waiting indefinitely.
func (s *swapchain) Next(signal driver.Semaphore) (uint32, error) {
	var index uint32
	sem := vk.NullSemaphore
	if signal != nil {
		sem = signal.(*semaphore).handle
	}
	ret := vk.AcquireNextImage(s.d.device, s.handle, vk.MaxUint64, sem, vk.NullFence, &index)
	return index, newError(ret)
}

func (s *swapchain) Destroy() {
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.d.device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}

type imageView struct {
	d      *Device
	handle vk.ImageView
}

// Handle returns the Vulkan image view.
func (v *imageView) Handle() vk.ImageView { return v.handle }

func (v *imageView) Destroy() {
	if v.handle != vk.NullImageView {
		vk.DestroyImageView(v.d.device, v.handle, nil)
		v.handle = vk.NullImageView
	}
}
