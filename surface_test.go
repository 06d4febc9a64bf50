package framevk

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andewx/framevk/driver"
)

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"default in range", 2, 8, 3},
		{"raised to min", 4, 8, 4},
		{"lowered to max", 1, 2, 2},
		{"no upper limit", 2, 0, 3},
		{"no upper limit above default", 5, 0, 5},
		{"max below min", 4, 3, 4},
		{"exact", 3, 3, 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := chooseImageCount(driver.Capabilities{MinImageCount: test.min, MaxImageCount: test.max})
			if got != test.want {
				t.Errorf("chooseImageCount(min %d, max %d) = %d, want %d", test.min, test.max, got, test.want)
			}
		})
	}
}

func TestChooseExtent(t *testing.T) {
	caps := driver.Capabilities{
		CurrentExtent: driver.Extent{Width: driver.Unbounded, Height: driver.Unbounded},
		MinExtent:     driver.Extent{Width: 64, Height: 64},
		MaxExtent:     driver.Extent{Width: 1920, Height: 1080},
	}
	tests := []struct {
		name string
		fb   UVec2
		want driver.Extent
	}{
		{"within bounds", UVec2{1280, 720}, driver.Extent{Width: 1280, Height: 720}},
		{"clamped up", UVec2{10, 720}, driver.Extent{Width: 64, Height: 720}},
		{"clamped down", UVec2{4000, 2000}, driver.Extent{Width: 1920, Height: 1080}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, chooseExtent(caps, test.fb)); diff != "" {
				t.Errorf("chooseExtent(%v) (-want +got):\n%s", test.fb, diff)
			}
		})
	}

	fixed := caps
	fixed.CurrentExtent = driver.Extent{Width: 800, Height: 600}
	if diff := cmp.Diff(fixed.CurrentExtent, chooseExtent(fixed, UVec2{1280, 720})); diff != "" {
		t.Errorf("surface-imposed extent not used (-want +got):\n%s", diff)
	}
}

func TestChooseFormat(t *testing.T) {
	srgb := driver.ColorSpaceSrgbNonlinear
	tests := []struct {
		name    string
		formats []driver.SurfaceFormat
		want    driver.SurfaceFormat
	}{
		{
			"preferred RGBA",
			[]driver.SurfaceFormat{{Format: driver.FormatB8G8R8A8Unorm, ColorSpace: srgb}, {Format: driver.FormatR8G8B8A8Unorm, ColorSpace: srgb}},
			driver.SurfaceFormat{Format: driver.FormatR8G8B8A8Unorm, ColorSpace: srgb},
		},
		{
			"preferred BGRA",
			[]driver.SurfaceFormat{{Format: driver.FormatB8G8R8A8Srgb, ColorSpace: srgb}, {Format: driver.FormatB8G8R8A8Unorm, ColorSpace: srgb}},
			driver.SurfaceFormat{Format: driver.FormatB8G8R8A8Unorm, ColorSpace: srgb},
		},
		{
			"first as fallback",
			[]driver.SurfaceFormat{{Format: driver.FormatB8G8R8A8Srgb, ColorSpace: srgb}, {Format: driver.FormatR8G8B8A8Srgb, ColorSpace: srgb}},
			driver.SurfaceFormat{Format: driver.FormatB8G8R8A8Srgb, ColorSpace: srgb},
		},
		{
			"undefined",
			[]driver.SurfaceFormat{{Format: driver.FormatUndefined, ColorSpace: srgb}},
			driver.SurfaceFormat{Format: driver.FormatR8G8B8A8Unorm, ColorSpace: srgb},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, chooseFormat(test.formats)); diff != "" {
				t.Errorf("chooseFormat (-want +got):\n%s", diff)
			}
		})
	}
}

func newTestSurface(fb UVec2) (*surface, *fakeDevice, *fakeWindow) {
	win := &fakeWindow{fb: fb, size: fb}
	dev := newFakeDevice(win)
	return newSurface(dev, NewLogger(io.Discard)), dev, win
}

func TestSurfaceRefresh(t *testing.T) {
	s, dev, win := newTestSurface(UVec2{1280, 720})

	ok, err := s.refresh(win.fb)
	if err != nil || !ok {
		t.Fatalf("refresh() = %v, %v; want true, nil", ok, err)
	}
	want := driver.SwapchainInfo{
		PresentMode: driver.PresentFIFO,
		Format:      driver.SurfaceFormat{Format: driver.FormatB8G8R8A8Unorm, ColorSpace: driver.ColorSpaceSrgbNonlinear},
		ImageCount:  3,
		Extent:      driver.Extent{Width: 1280, Height: 720},
	}
	if diff := cmp.Diff(want, s.info); diff != "" {
		t.Errorf("swapchain info (-want +got):\n%s", diff)
	}
	if dev.live["view"] != 3 {
		t.Errorf("%d live views, want 3", dev.live["view"])
	}

	old := s.swapchain
	win.fb = UVec2{640, 480}
	if ok, err := s.refresh(win.fb); err != nil || !ok {
		t.Fatalf("refresh() = %v, %v; want true, nil", ok, err)
	}
	if got := dev.swapchains[1].old; got != old {
		t.Errorf("new swapchain hint = %v, want previous swapchain", got)
	}
	if dev.live["swapchain"] != 1 || dev.live["view"] != 3 {
		t.Errorf("live swapchains %d views %d, want 1 and 3", dev.live["swapchain"], dev.live["view"])
	}
	if dev.waitIdles != 2 {
		t.Errorf("%d idle waits, want 2", dev.waitIdles)
	}
}

func TestSurfaceRefresh_ZeroExtent(t *testing.T) {
	for _, fb := range []UVec2{{0, 720}, {1280, 0}, {0, 0}} {
		s, dev, _ := newTestSurface(fb)
		ok, err := s.refresh(fb)
		if ok || err != nil {
			t.Errorf("refresh(%v) = %v, %v; want false, nil", fb, ok, err)
		}
		if len(dev.swapchains) != 0 {
			t.Errorf("refresh(%v) created a swapchain", fb)
		}
	}
}

func TestSurfaceAcquire_MinimizeCycles(t *testing.T) {
	s, dev, win := newTestSurface(UVec2{1280, 720})
	if _, err := s.refresh(win.fb); err != nil {
		t.Fatal(err)
	}
	sem, _ := dev.NewSemaphore()

	for i := 0; i < 10; i++ {
		win.fb = UVec2{}
		if img, _ := s.acquire(sem, win.fb); img != nil {
			t.Fatalf("cycle %d: acquired an image with an empty framebuffer", i)
		}

		win.fb = UVec2{uint32(800 + i), 600}
		// The first acquire observes the stale swapchain and refreshes.
		if img, _ := s.acquire(sem, win.fb); img != nil {
			t.Fatalf("cycle %d: acquired from a stale swapchain", i)
		}
		img, _ := s.acquire(sem, win.fb)
		if img == nil {
			t.Fatalf("cycle %d: no image after refresh", i)
		}
		if diff := cmp.Diff(toExtent(win.fb), img.extent); diff != "" {
			t.Errorf("cycle %d: image extent (-want +got):\n%s", i, diff)
		}
		if dev.live["view"] != int(s.info.ImageCount) || dev.live["swapchain"] != 1 {
			t.Errorf("cycle %d: %d views and %d swapchains alive", i, dev.live["view"], dev.live["swapchain"])
		}
	}
}

func TestSurfaceAcquire_Suboptimal(t *testing.T) {
	s, dev, win := newTestSurface(UVec2{1280, 720})
	if _, err := s.refresh(win.fb); err != nil {
		t.Fatal(err)
	}
	sem, _ := dev.NewSemaphore()
	gen := s.generation

	dev.nextErrs = []error{driver.ErrSuboptimal}
	img, pending := s.acquire(sem, win.fb)
	if img != nil || !pending {
		t.Errorf("acquire() = %v, %v; want nil, true", img, pending)
	}
	if s.generation != gen+1 {
		t.Errorf("generation %d, want %d", s.generation, gen+1)
	}
}

func TestSurfaceAcquire_Traps(t *testing.T) {
	s, dev, win := newTestSurface(UVec2{1280, 720})
	if _, err := s.refresh(win.fb); err != nil {
		t.Fatal(err)
	}
	sem, _ := dev.NewSemaphore()
	dev.nextErrs = []error{driver.ErrNoDevice}
	defer func() {
		if recover() == nil {
			t.Error("acquire did not trap on an unexpected error")
		}
	}()
	s.acquire(sem, win.fb)
}

func TestSurfacePresent_Stale(t *testing.T) {
	s, dev, win := newTestSurface(UVec2{1280, 720})
	if _, err := s.refresh(win.fb); err != nil {
		t.Fatal(err)
	}
	sem, _ := dev.NewSemaphore()
	img, _ := s.acquire(sem, win.fb)
	if img == nil {
		t.Fatal("no image")
	}
	gen := s.generation
	dev.presentErrs = []error{driver.ErrOutOfDate}
	s.present(img, sem, win.fb)
	if s.generation != gen+1 {
		t.Errorf("stale present did not refresh")
	}
}
