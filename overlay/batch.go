package overlay

import (
	"image"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/andewx/framevk"
)

// Command is one indexed draw of a Batch.
type Command struct {
	Texture imgui.TextureID
	// Scissor is in framebuffer pixels and never empty.
	Scissor      image.Rectangle
	Count        uint32
	FirstIndex   uint32
	VertexOffset int32
}

// Batch is the draw data of a UI frame flattened into a single vertex
// stream and a single index stream.
type Batch struct {
	// Vertices use imgui's layout: position and UV as float pairs, then
	// an RGBA8 color. See imgui.VertexBufferLayout.
	Vertices []byte
	// Indices are IndexSize bytes each.
	Indices   []byte
	IndexSize int
	Commands  []Command
	// Projection maps display coordinates to Vulkan clip space.
	Projection  mgl32.Mat4
	Framebuffer framevk.UVec2
}

func (b *Batch) reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
	b.Commands = b.Commands[:0]
}

// build flattens data into b. display is in window coordinates and scale
// maps it to framebuffer pixels. User callbacks run as they are met.
func (b *Batch) build(data imgui.DrawData, display framevk.UVec2, scale framevk.FVec2) {
	b.reset()
	vertexSize, _, _, _ := imgui.VertexBufferLayout()
	b.IndexSize = imgui.IndexBufferLayout()
	b.Projection = Projection(display)
	b.Framebuffer = framevk.UVec2{
		X: uint32(float32(display.X)*scale.X + 0.5),
		Y: uint32(float32(display.Y)*scale.Y + 0.5),
	}
	if b.Framebuffer.Zero() {
		return
	}

	pos := data.DisplayPos()
	var firstIndex, firstVertex int
	for _, list := range data.CommandLists() {
		vp, vn := list.VertexBuffer()
		ip, in := list.IndexBuffer()
		b.Vertices = appendBytes(b.Vertices, vp, vn)
		b.Indices = appendBytes(b.Indices, ip, in)

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			rect, ok := scissor(cmd.ClipRect(), pos, scale, b.Framebuffer)
			if !ok || cmd.ElementCount() == 0 {
				continue
			}
			b.Commands = append(b.Commands, Command{
				Texture:      cmd.TextureID(),
				Scissor:      rect,
				Count:        uint32(cmd.ElementCount()),
				FirstIndex:   uint32(firstIndex + cmd.IndexOffset()),
				VertexOffset: int32(firstVertex + cmd.VertexOffset()),
			})
		}
		firstIndex += in / b.IndexSize
		firstVertex += vn / vertexSize
	}
}

func appendBytes(dst []byte, p unsafe.Pointer, n int) []byte {
	if p == nil || n <= 0 {
		return dst
	}
	return append(dst, unsafe.Slice((*byte)(p), n)...)
}

// scissor converts an imgui clip rectangle, (x1, y1, x2, y2) in display
// coordinates offset by pos, to framebuffer pixels clamped to fb.
func scissor(clip imgui.Vec4, pos imgui.Vec2, scale framevk.FVec2, fb framevk.UVec2) (image.Rectangle, bool) {
	r := image.Rectangle{
		Min: image.Pt(int((clip.X-pos.X)*scale.X), int((clip.Y-pos.Y)*scale.Y)),
		Max: image.Pt(int((clip.Z-pos.X)*scale.X), int((clip.W-pos.Y)*scale.Y)),
	}
	r = r.Intersect(image.Rect(0, 0, int(fb.X), int(fb.Y)))
	return r, !r.Empty()
}

// Projection returns the orthographic projection mapping display
// coordinates, origin top left, to Vulkan clip space.
func Projection(display framevk.UVec2) mgl32.Mat4 {
	ortho := mgl32.Ortho(0, float32(display.X), float32(display.Y), 0, -1, 1)
	return vulkanClip.Mul4(ortho)
}

// vulkanClip converts GL clip space to Vulkan's, where Y points down and
// depth is in [0, 1]. Column major.
var vulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}
