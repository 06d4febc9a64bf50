// Package driver defines the narrow set of GPU operations the frame loop
// needs: surface queries, swapchain management, synchronization primitives,
// command recording and queue submission.
//
// The interfaces follow the behavioral shape of a presentation API with
// "stale surface" signaling. Implementations live in sub-packages.
package driver

import "github.com/pkg/errors"

// ErrOutOfDate means that the surface changed in a way that makes the
// swapchain unusable. The swapchain must be recreated.
var ErrOutOfDate = errors.New("driver: swapchain out of date")

// ErrSuboptimal means that the swapchain can still be used but no longer
// matches the surface exactly. The operation that reported it succeeded.
var ErrSuboptimal = errors.New("driver: swapchain suboptimal")

// ErrNoDevice means that no suitable physical device could be found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// NeedsRefresh reports whether err signals a stale presentation surface.
func NeedsRefresh(err error) bool {
	return errors.Is(err, ErrOutOfDate) || errors.Is(err, ErrSuboptimal)
}

// Destroyer is the interface of objects that own driver resources.
type Destroyer interface {
	// Destroy releases the resources. It must not be called while
	// the GPU may still reference them.
	Destroy()
}

// Device is a logical device with a single graphics queue that can present
// to the Surface it was created with.
type Device interface {
	Destroyer

	// Name returns the physical device's descriptive name.
	Name() string

	// QueueFamily returns the index of the graphics queue family.
	QueueFamily() uint32

	// Surface returns the presentation surface bound to the window.
	Surface() Surface

	// Capabilities queries the current surface capabilities.
	Capabilities() (Capabilities, error)

	// Formats queries the surface formats supported by the device.
	Formats() ([]SurfaceFormat, error)

	// NewSwapchain creates a swapchain. The old swapchain, if not nil,
	// is passed to the driver as a hint for resource reuse; it is not
	// destroyed.
	NewSwapchain(info SwapchainInfo, old Swapchain) (Swapchain, error)

	// NewSemaphore creates a GPU-GPU synchronization primitive.
	NewSemaphore() (Semaphore, error)

	// NewFence creates a GPU-CPU synchronization primitive.
	NewFence(signaled bool) (Fence, error)

	// NewCmdPool creates a command pool whose buffers can be reset
	// individually.
	NewCmdPool() (CmdPool, error)

	// NewRenderPass creates a single-subpass render pass with one
	// color attachment that is cleared on load.
	NewRenderPass(format Format) (RenderPass, error)

	// NewFramebuffer creates a framebuffer targeting view.
	NewFramebuffer(pass RenderPass, view ImageView, extent Extent) (Framebuffer, error)

	// Submit submits cb to the graphics queue. It waits on wait at the
	// top of the pipe and signals both signal and fence on completion.
	Submit(cb CmdBuffer, wait, signal Semaphore, fence Fence) error

	// Present queues the swapchain image at index for presentation
	// once wait is signaled.
	Present(sc Swapchain, index uint32, wait Semaphore) error

	// WaitIdle blocks until the device has no pending work.
	WaitIdle() error
}

// Surface is a native presentation surface.
type Surface interface {
	Destroyer
}

// Swapchain is a set of presentable images.
type Swapchain interface {
	Destroyer

	// Images returns the swapchain images, in index order.
	Images() ([]Image, error)

	// NewView creates a 2D color view of img.
	NewView(img Image, format Format) (ImageView, error)

	// Next acquires the index of the next available image, blocking
	// without timeout. signal is signaled when the image is ready to
	// be rendered to.
	Next(signal Semaphore) (uint32, error)
}

// Image is a native image handle. Swapchain images are owned by
// their swapchain and must not be destroyed individually.
type Image interface{}

// ImageView is a view over an Image.
type ImageView interface {
	Destroyer
}

// Semaphore orders queue operations.
type Semaphore interface {
	Destroyer
}

// Fence is signaled by the GPU on completion of submitted work.
type Fence interface {
	Destroyer

	// Wait blocks until the fence is signaled. There is no timeout.
	Wait() error

	// Reset sets the fence back to the unsignaled state.
	Reset() error
}

// CmdPool allocates command buffers.
type CmdPool interface {
	Destroyer

	// NewCmdBuffer allocates a primary command buffer.
	NewCmdBuffer() (CmdBuffer, error)
}

// RenderPass describes the attachments of a framebuffer.
type RenderPass interface {
	Destroyer
}

// Framebuffer binds image views to a render pass.
type Framebuffer interface {
	Destroyer
}

// CmdBuffer records commands. A command buffer must not be recorded while
// the GPU may still be executing its previous contents.
type CmdBuffer interface {
	// Begin resets the buffer and starts a one-time-submit recording.
	Begin() error

	// Barrier records an image layout transition.
	Barrier(b ImageBarrier)

	// BeginPass begins pass on fb, clearing the color attachment.
	BeginPass(pass RenderPass, fb Framebuffer, area Extent, clear [4]float32)

	// EndPass ends the current render pass.
	EndPass()

	// End finishes recording.
	End() error
}
