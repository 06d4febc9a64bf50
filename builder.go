package framevk

import (
	"io"
	"os"
	"time"
)

// Builder configures and creates an Instance.
type Builder struct {
	title      string
	extent     UVec2
	flags      Flags
	clear      RGBA
	validation bool
	backend    Backend
	registry   *Registry
	logOut     io.Writer
	trace      bool
}

// NewBuilder returns a Builder for an 1280x720 window titled "Untitled".
func NewBuilder() *Builder {
	return &Builder{
		title:    "Untitled",
		extent:   UVec2{1280, 720},
		clear:    DefaultClear,
		registry: DefaultRegistry,
		logOut:   os.Stderr,
	}
}

func (b *Builder) Title(title string) *Builder { b.title = title; return b }

func (b *Builder) Extent(extent UVec2) *Builder { b.extent = extent; return b }

func (b *Builder) Flags(flags Flags) *Builder { b.flags = flags; return b }

// Clear sets the clear color reported by Instance.ClearColor.
func (b *Builder) Clear(clear RGBA) *Builder { b.clear = clear; return b }

// Validation requests the graphics driver's validation layers.
func (b *Builder) Validation(on bool) *Builder { b.validation = on; return b }

// Backend sets the windowing and graphics backend. It is required.
func (b *Builder) Backend(backend Backend) *Builder { b.backend = backend; return b }

// Registry replaces DefaultRegistry.
func (b *Builder) Registry(r *Registry) *Builder { b.registry = r; return b }

// Logger sets where diagnostics are written and whether trace output is
// enabled.
func (b *Builder) Logger(w io.Writer, trace bool) *Builder {
	b.logOut, b.trace = w, trace
	return b
}

// Build creates the Instance. On failure everything created so far is
// released and the returned *InitError matches one of the Err kinds
// through errors.Is.
func (b *Builder) Build() (_ *Instance, err error) {
	expect(b.backend != nil, "builder backend set")
	if b.registry.Active() {
		return nil, initError(ErrDuplicateInstance, nil)
	}
	if b.extent.Zero() {
		return nil, initError(ErrInvalidExtent, nil)
	}

	log := NewLogger(b.logOut)
	log.Trace = b.trace
	inst := &Instance{
		backend:  b.backend,
		registry: b.registry,
		log:      log,
		queue:    &EventQueue{},
		clear:    b.clear,
		last:     time.Now(),
	}
	if err := b.backend.Init(); err != nil {
		return nil, initError(ErrPlatformInit, err)
	}
	defer func() {
		if err != nil {
			inst.Destroy()
		}
	}()
	if !b.backend.VulkanSupported() {
		return nil, initError(ErrUnsupportedPlatform, nil)
	}

	sink := &routedSink{r: b.registry}
	inst.window, err = b.backend.NewWindow(WindowConfig{Title: b.title, Extent: b.extent, Flags: b.flags}, sink)
	if err != nil {
		return nil, initError(ErrWindowCreation, err)
	}
	sink.window = inst.window

	if inst.dev, err = b.backend.NewDevice(inst.window, b.validation, log); err != nil {
		return nil, initError(ErrGraphicsInit, err)
	}
	log.Infof("Using GPU: %s", inst.dev.Name())

	if err := inst.window.Center(); err != nil {
		log.Warnf("failed to center window: %v", err)
	}

	inst.surface = newSurface(inst.dev, log)
	if _, err := inst.surface.refresh(inst.window.FramebufferSize()); err != nil {
		return nil, initError(ErrGraphicsInit, err)
	}
	format := inst.surface.info.Format.Format
	if !inst.surface.ready() {
		// Minimized at creation; the pass format must still be known.
		info, err := configure(inst.dev, UVec2{1, 1})
		if err != nil {
			return nil, initError(ErrGraphicsInit, err)
		}
		format = info.Format.Format
	}
	if inst.pass, err = inst.dev.NewRenderPass(format); err != nil {
		return nil, initError(ErrGraphicsInit, err)
	}
	if inst.ring, err = newFrameRing(inst.dev); err != nil {
		return nil, initError(ErrGraphicsInit, err)
	}

	imageCount := len(inst.surface.images)
	if imageCount == 0 {
		imageCount = DefaultImageCount
	}
	if inst.overlay, err = b.backend.NewOverlay(inst.window, inst.dev, inst.pass, imageCount); err != nil {
		return nil, initError(ErrUIBackendInit, err)
	}

	if !b.registry.register(inst.window, inst.queue) {
		return nil, initError(ErrDuplicateInstance, nil)
	}
	if !b.flags.Has(Hidden) {
		inst.window.Show()
	}
	return inst, nil
}
