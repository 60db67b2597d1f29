package gpu

import (
	"encoding/binary"
	"unsafe"
)

// rectShape is one batched rectangle in GPU layout: 16 f32 words,
// 64 bytes, matching the WGSL RectShape struct below.
type rectShape struct {
	RectX, RectY, RectW, RectH float32
	ClipX, ClipY, ClipW, ClipH float32
	Radius                     float32
	_pad0, _pad1, _pad2        float32
	ColorR, ColorG, ColorB     float32
	ColorA                     float32
}

// frameParams is the per-pass uniform: target size plus the shape
// index this pass composites.
type frameParams struct {
	TargetWidth  uint32
	TargetHeight uint32
	ShapeIndex   uint32
	_pad         uint32
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size)
}

// packShapes serializes a batch for upload.
func packShapes(shapes []rectShape) []byte {
	size := int(unsafe.Sizeof(rectShape{}))
	out := make([]byte, size*len(shapes))
	for i := range shapes {
		src := structToBytes(unsafe.Pointer(&shapes[i]), unsafe.Sizeof(shapes[i]))
		copy(out[i*size:], src)
	}
	return out
}

func makeFrameParams(w, h, shapeIndex uint32) []byte {
	p := frameParams{TargetWidth: w, TargetHeight: h, ShapeIndex: shapeIndex}
	return structToBytes(unsafe.Pointer(&p), unsafe.Sizeof(p))
}

// packPixels converts the surface to little-endian u32 words for the
// storage buffer; unpackPixels reverses it after readback.
func packPixels(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		s := i * 4
		packed := uint32(data[s]) | uint32(data[s+1])<<8 | uint32(data[s+2])<<16 | uint32(data[s+3])<<24
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

func unpackPixels(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		v := binary.LittleEndian.Uint32(packed[i*4:])
		d := i * 4
		dst[d+0] = uint8(v & 0xff)
		dst[d+1] = uint8((v >> 8) & 0xff)
		dst[d+2] = uint8((v >> 16) & 0xff)
		dst[d+3] = uint8((v >> 24) & 0xff)
	}
}

func colorComponent(v uint8) float32 {
	return float32(v)
}

// workgroups rounds a dimension up to 8-wide workgroups.
func workgroups(v uint32) uint32 {
	return (v + 7) / 8
}

// rectShaderSource composites one rounded rectangle per pass over a
// straight-alpha RGBA pixel buffer. The blend arithmetic mirrors the
// software rasterizer's BlendPixel exactly, including its integer
// division, so accelerated and software output stay byte-identical.
const rectShaderSource = `
struct FrameParams {
    target_width: u32,
    target_height: u32,
    shape_index: u32,
    _pad: u32,
}

struct RectShape {
    rect_x: f32, rect_y: f32, rect_w: f32, rect_h: f32,
    clip_x: f32, clip_y: f32, clip_w: f32, clip_h: f32,
    radius: f32, pad0: f32, pad1: f32, pad2: f32,
    color_r: f32, color_g: f32, color_b: f32, color_a: f32,
}

@group(0) @binding(0) var<uniform> params: FrameParams;
@group(0) @binding(1) var<storage, read> shapes: array<RectShape>;
@group(0) @binding(2) var<storage, read_write> pixels: array<u32>;

fn inside_rounded(px: f32, py: f32, s: RectShape) -> bool {
    if (px < s.rect_x || py < s.rect_y || px >= s.rect_x + s.rect_w || py >= s.rect_y + s.rect_h) {
        return false;
    }
    if (s.radius <= 0.0) {
        return true;
    }
    let cx = max(s.rect_x + s.radius, min(px, s.rect_x + s.rect_w - s.radius));
    let cy = max(s.rect_y + s.radius, min(py, s.rect_y + s.rect_h - s.radius));
    let dx = px - cx;
    let dy = py - cy;
    return dx * dx + dy * dy <= s.radius * s.radius;
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let x = gid.x;
    let y = gid.y;
    if (x >= params.target_width || y >= params.target_height) {
        return;
    }
    let s = shapes[params.shape_index];

    let fx = f32(x);
    let fy = f32(y);
    if (fx < s.clip_x || fy < s.clip_y || fx >= s.clip_x + s.clip_w || fy >= s.clip_y + s.clip_h) {
        return;
    }
    if (!inside_rounded(fx + 0.5, fy + 0.5, s)) {
        return;
    }

    let idx = y * params.target_width + x;
    let dst = pixels[idx];

    let sr = u32(s.color_r);
    let sg = u32(s.color_g);
    let sb = u32(s.color_b);
    let sa = u32(s.color_a);

    if (sa == 255u) {
        pixels[idx] = sr | (sg << 8u) | (sb << 16u) | (255u << 24u);
        return;
    }
    if (sa == 0u) {
        return;
    }

    let dr = dst & 0xffu;
    let dg = (dst >> 8u) & 0xffu;
    let db = (dst >> 16u) & 0xffu;
    let da = (dst >> 24u) & 0xffu;

    let inv = 255u - sa;
    let out_a = sa + da * inv / 255u;
    if (out_a == 0u) {
        pixels[idx] = 0u;
        return;
    }
    let out_r = (sr * sa + dr * da * inv / 255u) / out_a;
    let out_g = (sg * sa + dg * da * inv / 255u) / out_a;
    let out_b = (sb * sa + db * da * inv / 255u) / out_a;
    pixels[idx] = out_r | (out_g << 8u) | (out_b << 16u) | (out_a << 24u);
}
`
