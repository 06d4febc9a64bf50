package framevk

import (
	"errors"
	"fmt"
	"io"

	"github.com/andewx/framevk/driver"
)

// Fakes for driving an Instance without a GPU or a display.

func toExtent(v UVec2) driver.Extent { return driver.Extent{Width: v.X, Height: v.Y} }

type fakeDevice struct {
	win     *fakeWindow
	caps    driver.Capabilities
	formats []driver.SurfaceFormat

	live       map[string]int
	swapchains []*fakeSwapchain
	cmds       []*fakeCmd

	nextErrs    []error
	submitErrs  []error
	presentErrs []error
	submits     int
	presents    int
	waitIdles   int
	destroyed   bool
}

func newFakeDevice(win *fakeWindow) *fakeDevice {
	return &fakeDevice{
		win: win,
		caps: driver.Capabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: driver.Extent{Width: driver.Unbounded, Height: driver.Unbounded},
			MinExtent:     driver.Extent{Width: 1, Height: 1},
			MaxExtent:     driver.Extent{Width: 4096, Height: 4096},
		},
		formats: []driver.SurfaceFormat{
			{Format: driver.FormatB8G8R8A8Srgb, ColorSpace: driver.ColorSpaceSrgbNonlinear},
			{Format: driver.FormatB8G8R8A8Unorm, ColorSpace: driver.ColorSpaceSrgbNonlinear},
		},
		live: map[string]int{},
	}
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

type fakeRes struct {
	d         *fakeDevice
	kind      string
	destroyed bool
}

func (d *fakeDevice) res(kind string) *fakeRes {
	d.live[kind]++
	return &fakeRes{d: d, kind: kind}
}

func (r *fakeRes) Destroy() {
	if r.destroyed {
		panic(fmt.Sprintf("%s destroyed twice", r.kind))
	}
	r.destroyed = true
	r.d.live[r.kind]--
}

func (d *fakeDevice) Name() string                               { return "Fake GPU" }
func (d *fakeDevice) QueueFamily() uint32                        { return 0 }
func (d *fakeDevice) Surface() driver.Surface                    { return nil }
func (d *fakeDevice) Capabilities() (driver.Capabilities, error) { return d.caps, nil }
func (d *fakeDevice) Formats() ([]driver.SurfaceFormat, error)   { return d.formats, nil }

func (d *fakeDevice) NewSwapchain(info driver.SwapchainInfo, old driver.Swapchain) (driver.Swapchain, error) {
	sc := &fakeSwapchain{fakeRes: d.res("swapchain"), info: info, old: old}
	d.swapchains = append(d.swapchains, sc)
	return sc, nil
}

func (d *fakeDevice) NewSemaphore() (driver.Semaphore, error) { return d.res("semaphore"), nil }

func (d *fakeDevice) NewFence(signaled bool) (driver.Fence, error) {
	return &fakeFence{fakeRes: d.res("fence"), signaled: signaled}, nil
}

func (d *fakeDevice) NewCmdPool() (driver.CmdPool, error) {
	return &fakeCmdPool{d.res("pool")}, nil
}

func (d *fakeDevice) NewRenderPass(format driver.Format) (driver.RenderPass, error) {
	return d.res("pass"), nil
}

func (d *fakeDevice) NewFramebuffer(pass driver.RenderPass, view driver.ImageView, extent driver.Extent) (driver.Framebuffer, error) {
	if view.(*fakeRes).destroyed {
		panic("framebuffer over a destroyed view")
	}
	return d.res("framebuffer"), nil
}

// Submit runs nothing on a failed submit. A suboptimal one still counts
// and signals fence.
func (d *fakeDevice) Submit(cb driver.CmdBuffer, wait, signal driver.Semaphore, fence driver.Fence) error {
	err := pop(&d.submitErrs)
	if err != nil && !errors.Is(err, driver.ErrSuboptimal) {
		return err
	}
	d.submits++
	fence.(*fakeFence).signaled = true
	return err
}

func (d *fakeDevice) Present(sc driver.Swapchain, index uint32, wait driver.Semaphore) error {
	if err := pop(&d.presentErrs); err != nil {
		return err
	}
	d.presents++
	return nil
}

func (d *fakeDevice) WaitIdle() error { d.waitIdles++; return nil }

func (d *fakeDevice) Destroy() { d.destroyed = true }

// total counts live resources of every kind.
func (d *fakeDevice) total() int {
	n := 0
	for _, c := range d.live {
		n += c
	}
	return n
}

type fakeSwapchain struct {
	*fakeRes
	info driver.SwapchainInfo
	old  driver.Swapchain
	next uint32
}

func (s *fakeSwapchain) Images() ([]driver.Image, error) {
	images := make([]driver.Image, s.info.ImageCount)
	for i := range images {
		images[i] = i
	}
	return images, nil
}

func (s *fakeSwapchain) NewView(img driver.Image, format driver.Format) (driver.ImageView, error) {
	return s.d.res("view"), nil
}

// Next reports the swapchain out of date once the window's framebuffer no
// longer matches it.
func (s *fakeSwapchain) Next(signal driver.Semaphore) (uint32, error) {
	if err := pop(&s.d.nextErrs); err != nil {
		return 0, err
	}
	if s.d.win != nil && toExtent(s.d.win.fb) != s.info.Extent {
		return 0, driver.ErrOutOfDate
	}
	i := s.next
	s.next = (s.next + 1) % s.info.ImageCount
	return i, nil
}

type fakeFence struct {
	*fakeRes
	signaled bool
}

func (f *fakeFence) Wait() error {
	if !f.signaled {
		panic("wait on a fence that is never signaled")
	}
	return nil
}

func (f *fakeFence) Reset() error { f.signaled = false; return nil }

type fakeCmdPool struct{ *fakeRes }

func (p *fakeCmdPool) NewCmdBuffer() (driver.CmdBuffer, error) {
	cb := &fakeCmd{}
	p.d.cmds = append(p.d.cmds, cb)
	return cb, nil
}

type fakeCmd struct {
	ops   []string
	clear [4]float32
}

func (c *fakeCmd) Begin() error { c.ops = nil; c.ops = append(c.ops, "begin"); return nil }

func (c *fakeCmd) Barrier(b driver.ImageBarrier) {
	c.ops = append(c.ops, fmt.Sprintf("barrier %d->%d", b.From, b.To))
}

func (c *fakeCmd) BeginPass(pass driver.RenderPass, fb driver.Framebuffer, area driver.Extent, clear [4]float32) {
	c.clear = clear
	c.ops = append(c.ops, fmt.Sprintf("pass %dx%d", area.Width, area.Height))
}

func (c *fakeCmd) EndPass() { c.ops = append(c.ops, "endpass") }

func (c *fakeCmd) End() error { c.ops = append(c.ops, "end"); return nil }

type fakeWindow struct {
	fb, size    UVec2
	shouldClose bool
	sink        EventSink
	pending     []Event
	drops       [][]string
	shown       bool
	destroyed   bool
	centerErr   error
	title       string
}

func (w *fakeWindow) ShouldClose() bool { return w.shouldClose }

func (w *fakeWindow) PollEvents() {
	for _, e := range w.pending {
		w.sink.Push(e)
	}
	for _, d := range w.drops {
		w.sink.PushDrop(d)
	}
	w.pending, w.drops = nil, nil
}

func (w *fakeWindow) FramebufferSize() UVec2         { return w.fb }
func (w *fakeWindow) WindowSize() UVec2              { return w.size }
func (w *fakeWindow) Show()                          { w.shown = true }
func (w *fakeWindow) Center() error                  { return w.centerErr }
func (w *fakeWindow) Clipboard() string              { return "" }
func (w *fakeWindow) SetClipboard(string)            {}
func (w *fakeWindow) SetSizeLimits(min, max *UVec2)  {}
func (w *fakeWindow) SetAspectRatio(num, den uint32) {}
func (w *fakeWindow) SetTitle(title string)          { w.title = title }
func (w *fakeWindow) SetIcon([]Bitmap)               {}
func (w *fakeWindow) Destroy()                       { w.destroyed = true }

type fakeOverlay struct {
	begins, ends, renders int
	destroyed             bool
	last                  FrameInput
}

func (o *fakeOverlay) Begin(in FrameInput)        { o.begins++; o.last = in }
func (o *fakeOverlay) End()                       { o.ends++ }
func (o *fakeOverlay) Render(cb driver.CmdBuffer) { o.renders++ }
func (o *fakeOverlay) Destroy()                   { o.destroyed = true }

type fakeBackend struct {
	initErr    error
	noVulkan   bool
	windowErr  error
	deviceErr  error
	overlayErr error
	centerErr  error

	window     *fakeWindow
	dev        *fakeDevice
	overlay    *fakeOverlay
	terminated int
}

func (b *fakeBackend) Init() error           { return b.initErr }
func (b *fakeBackend) VulkanSupported() bool { return !b.noVulkan }

func (b *fakeBackend) NewWindow(cfg WindowConfig, sink EventSink) (Window, error) {
	if b.windowErr != nil {
		return nil, b.windowErr
	}
	b.window = &fakeWindow{fb: cfg.Extent, size: cfg.Extent, sink: sink, title: cfg.Title, centerErr: b.centerErr}
	return b.window, nil
}

func (b *fakeBackend) NewDevice(w Window, validation bool, log *Logger) (driver.Device, error) {
	if b.deviceErr != nil {
		return nil, b.deviceErr
	}
	b.dev = newFakeDevice(w.(*fakeWindow))
	return b.dev, nil
}

func (b *fakeBackend) NewOverlay(w Window, dev driver.Device, pass driver.RenderPass, imageCount int) (Overlay, error) {
	if b.overlayErr != nil {
		return nil, b.overlayErr
	}
	b.overlay = &fakeOverlay{}
	return b.overlay, nil
}

func (b *fakeBackend) Terminate() { b.terminated++ }

// newTestBuilder returns a Builder on a fresh registry and fb backend,
// with diagnostics discarded.
func newTestBuilder(fb *fakeBackend) *Builder {
	return NewBuilder().Backend(fb).Registry(&Registry{}).Logger(io.Discard, true)
}
