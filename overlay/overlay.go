// Package overlay drives an imgui-go context from framevk frames.
//
// The overlay owns the UI state: it feeds window input into imgui, begins
// and ends the UI frame, and flattens the rendered draw data into a Batch
// that its Renderer records inside the frame's render pass.
package overlay

import (
	"math"
	"time"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/pkg/errors"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/driver"
)

// Renderer rasterizes UI batches. The Overlay owns it once New succeeds.
type Renderer interface {
	// SetFont uploads the font atlas and returns the texture id draw
	// commands use to refer to it.
	SetFont(atlas *imgui.RGBA32Image) (imgui.TextureID, error)
	// Draw records b into cb, inside the frame's render pass.
	Draw(cb driver.CmdBuffer, b *Batch)
	Destroy()
}

// Options configures an Overlay.
type Options struct {
	// Renderer is required.
	Renderer Renderer
	// Keys maps imgui navigation keys to the native key codes carried by
	// key events.
	Keys map[int]int
	// Modifiers are the native left/right key codes of Shift, Ctrl, Alt
	// and Super, in that order.
	Modifiers [4][2]int
}

// Overlay implements framevk.Overlay.
type Overlay struct {
	ctx  *imgui.Context
	io   imgui.IO
	opts Options

	data    imgui.DrawData
	batch   Batch
	display framevk.UVec2
	scale   framevk.FVec2
	buttons [3]bool
	inFrame bool
}

var _ framevk.Overlay = (*Overlay)(nil)

// New creates an imgui context with the dark style and hands its font
// atlas to the renderer.
func New(opts Options) (*Overlay, error) {
	if opts.Renderer == nil {
		return nil, errors.New("overlay: renderer required")
	}
	ctx := imgui.CreateContext(nil)
	o := &Overlay{ctx: ctx, io: imgui.CurrentIO(), opts: opts, scale: framevk.FVec2{X: 1, Y: 1}}
	imgui.StyleColorsDark()

	o.io.SetIniFilename("")
	for imguiKey, nativeKey := range opts.Keys {
		o.io.KeyMap(imguiKey, nativeKey)
	}

	font := o.io.Fonts().TextureDataRGBA32()
	if font == nil || font.Width == 0 || font.Height == 0 {
		ctx.Destroy()
		return nil, errors.New("overlay: build font atlas")
	}
	id, err := opts.Renderer.SetFont(font)
	if err != nil {
		ctx.Destroy()
		return nil, errors.Wrap(err, "overlay: upload font atlas")
	}
	o.io.Fonts().SetTextureID(id)
	return o, nil
}

// Begin feeds in to imgui and starts a UI frame.
func (o *Overlay) Begin(in framevk.FrameInput) {
	o.display = in.Display
	if in.Scale.X > 0 && in.Scale.Y > 0 {
		o.scale = in.Scale
	}
	o.io.SetDisplaySize(imgui.Vec2{X: float32(in.Display.X), Y: float32(in.Display.Y)})
	o.io.SetDisplayFrameBufferScale(imgui.Vec2{X: o.scale.X, Y: o.scale.Y})
	o.io.SetDeltaTime(deltaSeconds(in.DT))
	for _, e := range in.Events {
		o.feed(e)
	}
	for i, down := range o.buttons {
		o.io.SetMouseButtonDown(i, down)
	}
	imgui.NewFrame()
	o.inFrame = true
}

// deltaSeconds keeps imgui's delta time positive.
func deltaSeconds(dt time.Duration) float32 {
	if dt <= 0 {
		return 1.0 / 60
	}
	return float32(dt.Seconds())
}

func (o *Overlay) feed(e framevk.Event) {
	switch e.Type() {
	case framevk.EventCursor:
		p := e.Cursor()
		o.io.SetMousePosition(imgui.Vec2{X: float32(p.X), Y: float32(p.Y)})
	case framevk.EventCursorEnter:
		if !e.CursorEntered() {
			o.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
		}
	case framevk.EventMouseButton:
		b := e.MouseButton()
		if b.Button >= 0 && int(b.Button) < len(o.buttons) {
			o.buttons[b.Button] = b.Action != framevk.Release
		}
	case framevk.EventScroll:
		s := e.Scroll()
		o.io.AddMouseWheelDelta(float32(s.X), float32(s.Y))
	case framevk.EventText:
		o.io.AddInputCharacters(string(e.Codepoint()))
	case framevk.EventKey:
		k := e.Key()
		if k.Action == framevk.Release {
			o.io.KeyRelease(int(k.Key))
		} else {
			o.io.KeyPress(int(k.Key))
		}
		m := o.opts.Modifiers
		o.io.KeyShift(m[0][0], m[0][1])
		o.io.KeyCtrl(m[1][0], m[1][1])
		o.io.KeyAlt(m[2][0], m[2][1])
		o.io.KeySuper(m[3][0], m[3][1])
	}
}

// End finishes the UI frame and keeps its draw data for Render.
func (o *Overlay) End() {
	if !o.inFrame {
		return
	}
	imgui.Render()
	o.data = imgui.RenderedDrawData()
	o.inFrame = false
}

// Render flattens the last draw data and has the renderer record it.
// Nothing is recorded when the UI drew nothing visible.
func (o *Overlay) Render(cb driver.CmdBuffer) {
	if o.ctx == nil || !o.data.Valid() {
		return
	}
	o.batch.build(o.data, o.display, o.scale)
	if len(o.batch.Commands) == 0 {
		return
	}
	o.opts.Renderer.Draw(cb, &o.batch)
}

// Destroy releases the imgui context and the renderer.
func (o *Overlay) Destroy() {
	if o.ctx != nil {
		o.ctx.Destroy()
		o.ctx = nil
		o.opts.Renderer.Destroy()
	}
}
