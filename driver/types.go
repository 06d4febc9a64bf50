package driver

// Extent is a two-dimensional size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Zero reports whether either component is zero.
func (e Extent) Zero() bool { return e.Width == 0 || e.Height == 0 }

// Unbounded is the extent component value a device reports when the
// swapchain extent is decided by the client.
const Unbounded = ^uint32(0)

// Format is a pixel format. Values match the Vulkan enumeration.
type Format uint32

// Pixel formats.
const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

// ColorSpace is a presentation color space. Values match the Vulkan
// enumeration.
type ColorSpace uint32

// ColorSpaceSrgbNonlinear is the non-linear sRGB color space.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// SurfaceFormat pairs a format with the color space it is presented in.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode is a presentation mode. Values match the Vulkan enumeration.
type PresentMode uint32

// Presentation modes.
const (
	PresentImmediate PresentMode = 0
	PresentMailbox   PresentMode = 1
	PresentFIFO      PresentMode = 2
)

// Capabilities are the surface capabilities reported by the device.
// A MaxImageCount of zero means there is no upper limit.
type Capabilities struct {
	MinImageCount uint32
	MaxImageCount uint32
	CurrentExtent Extent
	MinExtent     Extent
	MaxExtent     Extent
}

// SwapchainInfo describes a swapchain to create.
type SwapchainInfo struct {
	QueueFamily uint32
	PresentMode PresentMode
	Format      SurfaceFormat
	ImageCount  uint32
	Extent      Extent
}

// Layout is an image layout.
type Layout int

// Image layouts.
const (
	LayoutUndefined Layout = iota
	LayoutColorAttachment
	LayoutPresent
)

// ImageBarrier transitions Image from one layout to another. Access masks
// and pipeline stages are derived from the layout pair.
type ImageBarrier struct {
	Image Image
	From  Layout
	To    Layout
}
