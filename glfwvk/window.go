// Package glfwvk implements framevk windows with GLFW and devices with
// vulkan-go.
package glfwvk

import (
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/andewx/framevk"
)

// Window implements framevk.Window.
type Window struct {
	handle *glfw.Window
	title  string
}

var _ framevk.Window = (*Window)(nil)

func hint(hint glfw.Hint, on bool) {
	if on {
		glfw.WindowHint(hint, glfw.True)
	} else {
		glfw.WindowHint(hint, glfw.False)
	}
}

// NewWindow creates a hidden window without a client API and routes its
// callbacks to sink.
func NewWindow(cfg framevk.WindowConfig, sink framevk.EventSink) (*Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	hint(glfw.Decorated, !cfg.Flags.Has(framevk.Borderless))
	hint(glfw.Resizable, !cfg.Flags.Has(framevk.NoResize))
	hint(glfw.Maximized, cfg.Flags.Has(framevk.Maximized))

	handle, err := glfw.CreateWindow(int(cfg.Extent.X), int(cfg.Extent.Y), cfg.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfw: create window")
	}
	w := &Window{handle: handle, title: cfg.Title}
	w.bind(sink)
	return w, nil
}

// bind translates native callbacks into events.
func (w *Window) bind(sink framevk.EventSink) {
	h := w.handle
	h.SetCloseCallback(func(*glfw.Window) {
		sink.Push(framevk.ClosedEvent())
	})
	h.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		sink.Push(framevk.FocusEvent(focused))
	})
	h.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		sink.Push(framevk.CursorEnterEvent(entered))
	})
	h.SetMaximizeCallback(func(_ *glfw.Window, maximized bool) {
		sink.Push(framevk.MaximizeEvent(maximized))
	})
	h.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		sink.Push(framevk.IconifyEvent(iconified))
	})
	h.SetPosCallback(func(_ *glfw.Window, x, y int) {
		sink.Push(framevk.MoveEvent(x, y))
	})
	h.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		sink.Push(framevk.WindowResizeEvent(width, height))
	})
	h.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		sink.Push(framevk.FramebufferResizeEvent(width, height))
	})
	h.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		sink.Push(framevk.CursorEvent(x, y))
	})
	h.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		sink.Push(framevk.ScrollEvent(dx, dy))
	})
	h.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		sink.Push(framevk.KeyPressEvent(framevk.KeyEvent{
			Key:      int32(key),
			Scancode: int32(scancode),
			Action:   framevk.Action(action),
			Mods:     int32(mods),
		}))
	})
	h.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		sink.Push(framevk.MouseButtonEvent(framevk.ButtonEvent{
			Button: int32(button),
			Action: framevk.Action(action),
			Mods:   int32(mods),
		}))
	})
	h.SetCharCallback(func(_ *glfw.Window, r rune) {
		sink.Push(framevk.TextEvent(r))
	})
	h.SetDropCallback(func(_ *glfw.Window, names []string) {
		sink.PushDrop(names)
	})
}

// Handle returns the GLFW window.
func (w *Window) Handle() *glfw.Window { return w.handle }

func (w *Window) ShouldClose() bool { return w.handle.ShouldClose() }

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) FramebufferSize() framevk.UVec2 {
	return size(w.handle.GetFramebufferSize())
}

func (w *Window) WindowSize() framevk.UVec2 {
	return size(w.handle.GetSize())
}

func size(width, height int) framevk.UVec2 {
	if width < 0 || height < 0 {
		return framevk.UVec2{}
	}
	return framevk.UVec2{X: uint32(width), Y: uint32(height)}
}

func (w *Window) Show() { w.handle.Show() }

// Center moves the window to the middle of the primary monitor's work
// area.
func (w *Window) Center() error {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return errors.New("glfw: no primary monitor")
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return errors.New("glfw: no video mode")
	}
	mx, my := monitor.GetPos()
	width, height := w.handle.GetSize()
	w.handle.SetPos(mx+(mode.Width-width)/2, my+(mode.Height-height)/2)
	return nil
}

func (w *Window) Clipboard() string { return w.handle.GetClipboardString() }

func (w *Window) SetClipboard(s string) { w.handle.SetClipboardString(s) }

func (w *Window) SetSizeLimits(min, max *framevk.UVec2) {
	minW, minH, maxW, maxH := glfw.DontCare, glfw.DontCare, glfw.DontCare, glfw.DontCare
	if min != nil {
		minW, minH = int(min.X), int(min.Y)
	}
	if max != nil {
		maxW, maxH = int(max.X), int(max.Y)
	}
	w.handle.SetSizeLimits(minW, minH, maxW, maxH)
}

func (w *Window) SetAspectRatio(num, den uint32) {
	if num == 0 || den == 0 {
		w.handle.SetAspectRatio(glfw.DontCare, glfw.DontCare)
		return
	}
	w.handle.SetAspectRatio(int(num), int(den))
}

func (w *Window) SetTitle(title string) {
	w.title = title
	w.handle.SetTitle(title)
}

// SetIcon sets the candidate icon images. Bitmaps whose pixel data does
// not match their size are skipped.
func (w *Window) SetIcon(images []framevk.Bitmap) {
	icons := make([]image.Image, 0, len(images))
	for _, b := range images {
		img := image.NewNRGBA(image.Rect(0, 0, int(b.Size.X), int(b.Size.Y)))
		if len(b.Pixels) != len(img.Pix) {
			continue
		}
		copy(img.Pix, b.Pixels)
		icons = append(icons, img)
	}
	w.handle.SetIcon(icons)
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}
