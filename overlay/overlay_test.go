package overlay

import (
	"image"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/pkg/errors"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/driver"
)

// recorder is a Renderer that keeps what it was given.
type recorder struct {
	fontErr   error
	atlas     *imgui.RGBA32Image
	draws     int
	commands  []Command
	vertices  int
	indices   int
	destroyed bool
}

const recorderFont imgui.TextureID = 7

func (r *recorder) SetFont(atlas *imgui.RGBA32Image) (imgui.TextureID, error) {
	if r.fontErr != nil {
		return 0, r.fontErr
	}
	r.atlas = atlas
	return recorderFont, nil
}

func (r *recorder) Draw(_ driver.CmdBuffer, b *Batch) {
	r.draws++
	r.commands = append([]Command(nil), b.Commands...)
	r.vertices = len(b.Vertices)
	r.indices = len(b.Indices)
}

func (r *recorder) Destroy() { r.destroyed = true }

func TestProjection(t *testing.T) {
	m := Projection(framevk.UVec2{X: 800, Y: 600})
	tests := []struct {
		x, y   float32
		cx, cy float32
	}{
		{0, 0, -1, -1},
		{800, 600, 1, 1},
		{400, 300, 0, 0},
		{800, 0, 1, -1},
	}
	for _, test := range tests {
		got := m.Mul4x1(mgl32.Vec4{test.x, test.y, 0, 1})
		want := mgl32.Vec4{test.cx, test.cy, 0.5, 1}
		if !got.ApproxEqualThreshold(want, 1e-5) {
			t.Errorf("(%v, %v) maps to %v, want %v", test.x, test.y, got, want)
		}
	}
}

func TestScissor(t *testing.T) {
	fb := framevk.UVec2{X: 200, Y: 100}
	tests := []struct {
		name  string
		clip  imgui.Vec4
		pos   imgui.Vec2
		scale framevk.FVec2
		want  image.Rectangle
		ok    bool
	}{
		{"inside", imgui.Vec4{X: 10, Y: 20, Z: 50, W: 60}, imgui.Vec2{}, framevk.FVec2{X: 1, Y: 1}, image.Rect(10, 20, 50, 60), true},
		{"scaled", imgui.Vec4{X: 10, Y: 20, Z: 50, W: 40}, imgui.Vec2{}, framevk.FVec2{X: 2, Y: 2}, image.Rect(20, 40, 100, 80), true},
		{"offset", imgui.Vec4{X: 15, Y: 25, Z: 20, W: 30}, imgui.Vec2{X: 5, Y: 5}, framevk.FVec2{X: 1, Y: 1}, image.Rect(10, 20, 15, 25), true},
		{"clamped", imgui.Vec4{X: -10, Y: -10, Z: 500, W: 500}, imgui.Vec2{}, framevk.FVec2{X: 1, Y: 1}, image.Rect(0, 0, 200, 100), true},
		{"outside", imgui.Vec4{X: 300, Y: 0, Z: 400, W: 50}, imgui.Vec2{}, framevk.FVec2{X: 1, Y: 1}, image.Rectangle{}, false},
		{"inverted", imgui.Vec4{X: 50, Y: 50, Z: 10, W: 10}, imgui.Vec2{}, framevk.FVec2{X: 1, Y: 1}, image.Rectangle{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := scissor(test.clip, test.pos, test.scale, fb)
			if ok != test.ok {
				t.Fatalf("ok = %v, want %v", ok, test.ok)
			}
			if ok && got != test.want {
				t.Errorf("scissor = %v, want %v", got, test.want)
			}
		})
	}
}

func TestDeltaSeconds(t *testing.T) {
	if got := deltaSeconds(0); got <= 0 {
		t.Errorf("deltaSeconds(0) = %v", got)
	}
	if got := deltaSeconds(250 * time.Millisecond); got != 0.25 {
		t.Errorf("deltaSeconds(250ms) = %v", got)
	}
}

func TestNewRequiresRenderer(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New without a renderer succeeded")
	}
}

func TestNewFontUploadFails(t *testing.T) {
	cause := errors.New("out of device memory")
	if _, err := New(Options{Renderer: &recorder{fontErr: cause}}); errors.Cause(err) != cause {
		t.Errorf("New error = %v, want cause %v", err, cause)
	}
}

func uiFrame(o *Overlay, scale framevk.FVec2, events ...framevk.Event) {
	o.Begin(framevk.FrameInput{
		DT:      time.Second / 60,
		Display: framevk.UVec2{X: 640, Y: 480},
		Scale:   scale,
		Events:  events,
	})
	imgui.Text("hello")
	imgui.ShowDemoWindow(nil)
	o.End()
}

func TestOverlayFrame(t *testing.T) {
	r := &recorder{}
	o, err := New(Options{Renderer: r})
	if err != nil {
		t.Fatal(err)
	}
	if r.atlas == nil || r.atlas.Width == 0 || r.atlas.Height == 0 {
		t.Fatalf("font atlas %+v", r.atlas)
	}

	uiFrame(o, framevk.FVec2{X: 1, Y: 1},
		framevk.CursorEvent(10, 20),
		framevk.MouseButtonEvent(framevk.ButtonEvent{Button: 0, Action: framevk.Press}),
		framevk.TextEvent('a'),
	)
	if !o.buttons[0] {
		t.Error("left button not tracked as down")
	}
	o.End()
	o.Render(nil)

	if r.draws != 1 {
		t.Fatalf("renderer drew %d times, want 1", r.draws)
	}
	if len(r.commands) == 0 {
		t.Fatal("no draw commands recorded")
	}
	if r.vertices == 0 || r.indices == 0 {
		t.Errorf("uploaded %d vertex and %d index bytes", r.vertices, r.indices)
	}
	bounds := image.Rect(0, 0, 640, 480)
	for i, c := range r.commands {
		if c.Texture != recorderFont {
			t.Errorf("command %d texture %v, want the font atlas", i, c.Texture)
		}
		if c.Count == 0 || c.Scissor.Empty() || !c.Scissor.In(bounds) {
			t.Errorf("command %d = %+v", i, c)
		}
	}

	o.Destroy()
	if !r.destroyed {
		t.Error("renderer outlived the overlay")
	}
	o.Destroy()
}

func TestOverlayFramebufferScale(t *testing.T) {
	r := &recorder{}
	o, err := New(Options{Renderer: r})
	if err != nil {
		t.Fatal(err)
	}
	defer o.Destroy()

	uiFrame(o, framevk.FVec2{X: 2, Y: 2})
	o.Render(nil)
	if got, want := o.batch.Framebuffer, (framevk.UVec2{X: 1280, Y: 960}); got != want {
		t.Errorf("framebuffer %v, want %v", got, want)
	}
	if diff := cmp.Diff(Projection(framevk.UVec2{X: 640, Y: 480}), o.batch.Projection); diff != "" {
		t.Errorf("projection (-want +got):\n%s", diff)
	}
	var wide bool
	for _, c := range r.commands {
		wide = wide || c.Scissor.Max.X > 640
	}
	if !wide {
		t.Error("no scissor reaches past the unscaled display")
	}
}

func TestOverlayRenderWithoutFrame(t *testing.T) {
	r := &recorder{}
	o, err := New(Options{Renderer: r})
	if err != nil {
		t.Fatal(err)
	}
	defer o.Destroy()
	o.Render(nil)
	if r.draws != 0 {
		t.Errorf("drew %d times before any UI frame", r.draws)
	}
}
