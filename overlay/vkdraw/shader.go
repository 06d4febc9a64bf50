package vkdraw

// uiShader holds both stages. The projection is a vertex push constant;
// the font atlas is bound as set 0.
const uiShader = `
struct Immediates {
    proj: mat4x4<f32>,
}
var<immediate> im: Immediates;

@group(0) @binding(0) var atlas: texture_2d<f32>;
@group(0) @binding(1) var atlas_sampler: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
) -> VertexOutput {
    var o: VertexOutput;
    o.position = im.proj * vec4<f32>(pos, 0.0, 1.0);
    o.uv = uv;
    o.color = color;
    return o;
}

@fragment
fn fs_main(v: VertexOutput) -> @location(0) vec4<f32> {
    return v.color * textureSample(atlas, atlas_sampler, v.uv);
}
`

const (
	vertexEntry   = "vs_main\x00"
	fragmentEntry = "fs_main\x00"
)

// projectionSize is the size of the mat4x4<f32> push constant.
const projectionSize = 16 * 4
