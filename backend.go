package framevk

import (
	"time"

	"github.com/andewx/framevk/driver"
)

// Flags are window creation options.
type Flags uint32

const (
	// Borderless creates an undecorated window.
	Borderless Flags = 1 << iota
	// NoResize creates a window the user cannot resize.
	NoResize
	// Hidden leaves the window hidden after Build.
	Hidden
	// Maximized creates a maximized window.
	Maximized
)

// Has reports whether all of f2 are set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// WindowConfig describes the window to create.
type WindowConfig struct {
	Title  string
	Extent UVec2
	Flags  Flags
}

// Bitmap is an RGBA8 image, rows top to bottom. Pixels holds
// 4*Size.X*Size.Y bytes.
type Bitmap struct {
	Size   UVec2
	Pixels []byte
}

// Backend glues a windowing library, a graphics driver and a UI overlay.
// Build calls its methods in declaration order and unwinds with Destroy
// and Terminate on failure.
type Backend interface {
	// Init initializes the windowing library.
	Init() error
	// VulkanSupported reports whether the windowing library can create
	// presentation surfaces.
	VulkanSupported() bool
	// NewWindow creates a hidden window whose native callbacks are
	// delivered to sink.
	NewWindow(cfg WindowConfig, sink EventSink) (Window, error)
	// NewDevice bootstraps a device presenting to w.
	NewDevice(w Window, validation bool, log *Logger) (driver.Device, error)
	// NewOverlay creates the UI overlay rendering into pass.
	NewOverlay(w Window, dev driver.Device, pass driver.RenderPass, imageCount int) (Overlay, error)
	// Terminate releases the windowing library.
	Terminate()
}

// Window is a native window session.
type Window interface {
	ShouldClose() bool
	PollEvents()
	FramebufferSize() UVec2
	WindowSize() UVec2
	Show()
	// Center moves the window to the middle of the primary monitor.
	Center() error
	Clipboard() string
	SetClipboard(s string)
	// SetSizeLimits constrains the window size. A nil bound leaves that
	// side unconstrained.
	SetSizeLimits(min, max *UVec2)
	// SetAspectRatio locks the window's aspect ratio to num:den. Zero
	// values remove the constraint.
	SetAspectRatio(num, den uint32)
	SetTitle(title string)
	SetIcon(images []Bitmap)
	Destroy()
}

// FrameInput is what the overlay needs to begin a UI frame.
type FrameInput struct {
	DT      time.Duration
	Display UVec2
	Scale   FVec2
	Events  []Event
}

// Overlay is an immediate-mode UI overlay.
type Overlay interface {
	// Begin starts a UI frame.
	Begin(in FrameInput)
	// End finishes the UI frame begun by Begin.
	End()
	// Render records the draw data of the last ended UI frame into cb,
	// inside the frame's render pass.
	Render(cb driver.CmdBuffer)
	Destroy()
}
