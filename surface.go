package framevk

import (
	"github.com/pkg/errors"

	"github.com/andewx/framevk/driver"
)

// DefaultImageCount is the swapchain length requested from the device.
const DefaultImageCount = 3

// presentable is a swapchain image and the color view rendered through.
type presentable struct {
	image driver.Image
	view  driver.ImageView
}

// acquired is the image handed out by acquire, valid until it is
// presented or the frame is skipped.
type acquired struct {
	index  uint32
	image  presentable
	extent driver.Extent
}

// surface manages the swapchain of a window and recovers from staleness
// by recreating it.
type surface struct {
	dev  driver.Device
	log  *Logger
	info driver.SwapchainInfo

	swapchain  driver.Swapchain
	images     []presentable
	generation int
}

func newSurface(dev driver.Device, log *Logger) *surface {
	return &surface{dev: dev, log: log}
}

// preferredFormats are tried in order before falling back to the first
// format the device reports.
var preferredFormats = []driver.Format{
	driver.FormatR8G8B8A8Unorm,
	driver.FormatB8G8R8A8Unorm,
}

// configure derives the swapchain description for a framebuffer of size fb
// from the device's surface capabilities.
func configure(dev driver.Device, fb UVec2) (driver.SwapchainInfo, error) {
	caps, err := dev.Capabilities()
	if err != nil {
		return driver.SwapchainInfo{}, err
	}
	formats, err := dev.Formats()
	if err != nil {
		return driver.SwapchainInfo{}, err
	}
	if len(formats) == 0 {
		return driver.SwapchainInfo{}, errors.New("surface reports no formats")
	}
	return driver.SwapchainInfo{
		QueueFamily: dev.QueueFamily(),
		PresentMode: driver.PresentFIFO,
		Format:      chooseFormat(formats),
		ImageCount:  chooseImageCount(caps),
		Extent:      chooseExtent(caps, fb),
	}, nil
}

func chooseFormat(formats []driver.SurfaceFormat) driver.SurfaceFormat {
	for _, want := range preferredFormats {
		for _, f := range formats {
			if f.Format == want && f.ColorSpace == driver.ColorSpaceSrgbNonlinear {
				return f
			}
		}
	}
	f := formats[0]
	if f.Format == driver.FormatUndefined {
		// The surface has no preferred format.
		f.Format = preferredFormats[0]
	}
	return f
}

// chooseImageCount clamps DefaultImageCount to the capabilities. A maximum
// below the minimum, including zero, means there is no upper limit.
func chooseImageCount(caps driver.Capabilities) uint32 {
	n := uint32(DefaultImageCount)
	if n < caps.MinImageCount {
		n = caps.MinImageCount
	}
	if caps.MaxImageCount >= caps.MinImageCount && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

// chooseExtent returns the extent imposed by the surface, or fb clamped to
// the supported range when the surface lets the client decide.
func chooseExtent(caps driver.Capabilities, fb UVec2) driver.Extent {
	if caps.CurrentExtent.Width != driver.Unbounded {
		return caps.CurrentExtent
	}
	return driver.Extent{
		Width:  clamp(fb.X, caps.MinExtent.Width, caps.MaxExtent.Width),
		Height: clamp(fb.Y, caps.MinExtent.Height, caps.MaxExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ready reports whether a swapchain exists.
func (s *surface) ready() bool { return s.swapchain != nil }

// refresh recreates the swapchain for a framebuffer of size fb. It reports
// false without touching the swapchain when fb or the resulting extent is
// empty, as for a minimized window.
func (s *surface) refresh(fb UVec2) (bool, error) {
	if fb.Zero() {
		return false, nil
	}
	info, err := configure(s.dev, fb)
	if err != nil {
		return false, errors.Wrap(err, "configure surface")
	}
	if info.Extent.Zero() {
		return false, nil
	}
	if err := s.dev.WaitIdle(); err != nil {
		return false, errors.Wrap(err, "wait idle")
	}

	sc, err := s.dev.NewSwapchain(info, s.swapchain)
	if err != nil {
		return false, errors.Wrap(err, "create swapchain")
	}
	// The device is idle, so the retired generation can go right away.
	s.release()
	s.swapchain = sc
	s.info = info
	s.generation++

	images, err := sc.Images()
	if err != nil {
		return false, errors.Wrap(err, "swapchain images")
	}
	s.images = make([]presentable, 0, len(images))
	for i, img := range images {
		view, err := sc.NewView(img, info.Format.Format)
		if err != nil {
			return false, errors.Wrapf(err, "image view %d", i)
		}
		s.images = append(s.images, presentable{image: img, view: view})
	}
	s.log.Tracef("swapchain resized: %dx%d", info.Extent.Width, info.Extent.Height)
	return true, nil
}

// acquire returns the next image to render to, with signal signaled once
// it is available. It returns nil when there is no image this frame; the
// swapchain has then been refreshed or the framebuffer is empty. pending
// reports whether the driver may have left signal signaled anyway.
func (s *surface) acquire(signal driver.Semaphore, fb UVec2) (img *acquired, pending bool) {
	if fb.Zero() {
		return nil, false
	}
	if !s.ready() {
		_, err := s.refresh(fb)
		expectNoErr(err, "surface refresh")
		return nil, false
	}
	index, err := s.swapchain.Next(signal)
	if driver.NeedsRefresh(err) {
		_, rerr := s.refresh(fb)
		expectNoErr(rerr, "surface refresh")
		return nil, errors.Is(err, driver.ErrSuboptimal)
	}
	expectNoErr(err, "acquire next image")
	expect(int(index) < len(s.images), "acquired image index in range")
	return &acquired{index: index, image: s.images[index], extent: s.info.Extent}, false
}

// submit submits cb and reports whether its image can be presented. On a
// stale surface the swapchain is refreshed and ok is false; pending then
// reports whether the submission went through anyway, leaving the slot's
// present semaphore signaled and its fence to be signaled.
func (s *surface) submit(cb driver.CmdBuffer, slot *frameSlot, fb UVec2) (ok, pending bool) {
	err := s.dev.Submit(cb, slot.drawReady, slot.presentReady, slot.drawn)
	if driver.NeedsRefresh(err) {
		_, rerr := s.refresh(fb)
		expectNoErr(rerr, "surface refresh")
		return false, errors.Is(err, driver.ErrSuboptimal)
	}
	expectNoErr(err, "queue submit")
	return true, false
}

// present queues img for presentation once wait is signaled.
func (s *surface) present(img *acquired, wait driver.Semaphore, fb UVec2) {
	err := s.dev.Present(s.swapchain, img.index, wait)
	if driver.NeedsRefresh(err) {
		_, rerr := s.refresh(fb)
		expectNoErr(rerr, "surface refresh")
		return
	}
	expectNoErr(err, "queue present")
}

// release destroys the current views and swapchain.
func (s *surface) release() {
	for _, img := range s.images {
		img.view.Destroy()
	}
	s.images = nil
	if s.swapchain != nil {
		s.swapchain.Destroy()
		s.swapchain = nil
	}
}

// destroy releases the swapchain. The device must be idle.
func (s *surface) destroy() {
	s.release()
}
