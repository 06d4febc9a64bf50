package vkdraw

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/inkyblackness/imgui-go/v4"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/driver/vulkan"
)

func TestUIShaderCompiles(t *testing.T) {
	words, err := vulkan.CompileWGSL(uiShader)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Errorf("no SPIR-V header in %d words", len(words))
	}
}

func TestVertexInput(t *testing.T) {
	size, pos, uv, col := imgui.VertexBufferLayout()
	binding, attributes := vertexInput()
	if binding.Stride != uint32(size) || binding.InputRate != vk.VertexInputRateVertex {
		t.Errorf("binding stride %d rate %v, want %d per vertex", binding.Stride, binding.InputRate, size)
	}

	type attr struct {
		Location uint32
		Format   vk.Format
		Offset   uint32
	}
	var got []attr
	for _, a := range attributes {
		got = append(got, attr{a.Location, a.Format, a.Offset})
	}
	want := []attr{
		{0, vk.FormatR32g32Sfloat, uint32(pos)},
		{1, vk.FormatR32g32Sfloat, uint32(uv)},
		{2, vk.FormatR8g8b8a8Unorm, uint32(col)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
}

func TestBlendAttachment(t *testing.T) {
	b := blendAttachment()
	if b.BlendEnable != vk.True {
		t.Fatal("blending disabled")
	}
	if b.SrcColorBlendFactor != vk.BlendFactorSrcAlpha || b.DstColorBlendFactor != vk.BlendFactorOneMinusSrcAlpha {
		t.Errorf("color factors %v, %v", b.SrcColorBlendFactor, b.DstColorBlendFactor)
	}
}

func TestPipelineBuilder(t *testing.T) {
	pb := newPipelineBuilder(vk.NullShaderModule)
	var entries []string
	for _, s := range pb.stages {
		entries = append(entries, s.PName)
	}
	if diff := cmp.Diff([]string{vertexEntry, fragmentEntry}, entries); diff != "" {
		t.Errorf("entry points (-want +got):\n%s", diff)
	}
	want := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	if diff := cmp.Diff(want, pb.dynamic); diff != "" {
		t.Errorf("dynamic state (-want +got):\n%s", diff)
	}
}

func TestGrow(t *testing.T) {
	tests := []struct{ need, want int }{
		{0, minBufferSize},
		{minBufferSize, minBufferSize},
		{minBufferSize + 1, 2 * minBufferSize},
		{5 * minBufferSize, 8 * minBufferSize},
	}
	for _, test := range tests {
		if got := grow(test.need); got != test.want {
			t.Errorf("grow(%d) = %d, want %d", test.need, got, test.want)
		}
	}
}

func TestRingSize(t *testing.T) {
	if got := ringSize(0); got != framevk.FramesInFlight {
		t.Errorf("ringSize(0) = %d", got)
	}
	if got := ringSize(3); got != 3 {
		t.Errorf("ringSize(3) = %d", got)
	}
}

func TestIndexType(t *testing.T) {
	if got := indexType(2); got != vk.IndexTypeUint16 {
		t.Errorf("indexType(2) = %v", got)
	}
	if got := indexType(4); got != vk.IndexTypeUint32 {
		t.Errorf("indexType(4) = %v", got)
	}
}

func TestRect2D(t *testing.T) {
	r := rect2D(image.Rect(10, 20, 110, 70))
	if r.Offset.X != 10 || r.Offset.Y != 20 || r.Extent.Width != 100 || r.Extent.Height != 50 {
		t.Errorf("rect2D = %+v", r)
	}
}
