package software

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/agiangrant/facet/backend"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/internal/fontcache"
)

// PixelRect snaps a float rectangle to whole pixels.
func PixelRect(r geom.Rect) image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.X + r.W))
	y1 := int(math.Round(r.Y + r.H))
	return image.Rect(x0, y0, x1, y1)
}

// Clear resets every pixel to transparent.
func Clear(dst *backend.Surface) {
	for i := range dst.Pix {
		dst.Pix[i] = 0
	}
}

// BlendPixel composites src over the pixel at byte offset i using
// straight-alpha source-over. Both backends use this exact function so
// their output is byte-identical.
func BlendPixel(pix []uint8, i int, c geom.Color) {
	sa := uint32(c.A)
	if sa == 0 {
		return
	}
	if sa == 255 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = 255
		return
	}
	da := uint32(pix[i+3])
	inv := 255 - sa
	outA := sa + da*inv/255
	if outA == 0 {
		pix[i+0], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
		return
	}
	blend := func(s, d uint8) uint8 {
		v := (uint32(s)*sa + uint32(d)*da*inv/255) / outA
		return uint8(v)
	}
	pix[i+0] = blend(c.R, pix[i+0])
	pix[i+1] = blend(c.G, pix[i+1])
	pix[i+2] = blend(c.B, pix[i+2])
	pix[i+3] = uint8(outA)
}

// Fill rasterizes a rectangle with optional rounded corners, clipped.
// Geometry is snapped to whole pixels before coverage testing; the
// accelerated backend snaps identically.
func Fill(dst *backend.Surface, clip image.Rectangle, r geom.Rect, c geom.Color, radius float64) {
	pr := PixelRect(r)
	area := pr.Intersect(clip).Intersect(image.Rect(0, 0, dst.W, dst.H))
	if area.Empty() || c.IsTransparent() {
		return
	}
	snapped := geom.Rect{
		X: float64(pr.Min.X), Y: float64(pr.Min.Y),
		W: float64(pr.Dx()), H: float64(pr.Dy()),
	}
	maxRadius := math.Min(snapped.W, snapped.H) / 2
	if radius > maxRadius {
		radius = maxRadius
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := y * dst.W * 4
		for x := area.Min.X; x < area.Max.X; x++ {
			if radius > 0 && !insideRounded(float64(x)+0.5, float64(y)+0.5, snapped, radius) {
				continue
			}
			BlendPixel(dst.Pix, row+x*4, c)
		}
	}
}

// insideRounded tests a pixel center against the rounded-rect shape.
func insideRounded(px, py float64, r geom.Rect, radius float64) bool {
	cx := math.Max(r.X+radius, math.Min(px, r.X+r.W-radius))
	cy := math.Max(r.Y+radius, math.Min(py, r.Y+r.H-radius))
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= radius*radius
}

// Stroke rasterizes a rectangle outline of the given width, drawn
// inward from the edge.
func Stroke(dst *backend.Surface, clip image.Rectangle, r geom.Rect, c geom.Color, width float64) {
	if width <= 0 || c.IsTransparent() {
		return
	}
	w := math.Min(width, math.Min(r.W, r.H)/2)
	top := geom.Rect{X: r.X, Y: r.Y, W: r.W, H: w}
	bottom := geom.Rect{X: r.X, Y: r.Y + r.H - w, W: r.W, H: w}
	left := geom.Rect{X: r.X, Y: r.Y + w, W: w, H: r.H - 2*w}
	right := geom.Rect{X: r.X + r.W - w, Y: r.Y + w, W: w, H: r.H - 2*w}
	for _, edge := range []geom.Rect{top, bottom, left, right} {
		Fill(dst, clip, edge, c, 0)
	}
}

// Text draws a single-line run anchored at the rect's top-left,
// clipped to both the rect and the current clip.
func Text(dst *backend.Surface, clip image.Rectangle, r geom.Rect, text string, c geom.Color, size float64, weight int) {
	if text == "" || c.IsTransparent() {
		return
	}
	area := clip.Intersect(PixelRect(r)).Intersect(image.Rect(0, 0, dst.W, dst.H))
	if area.Empty() {
		return
	}
	face := fontcache.Face(size, weight)
	d := font.Drawer{
		Dst:  &clipImage{s: dst, clip: area},
		Src:  image.NewUniform(c.NRGBA()),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(r.X),
			Y: floatToFixed(r.Y + fontcache.Ascent(size, weight)),
		},
	}
	d.DrawString(text)
}

// Image scales img into the rect and blits it with blending.
func Image(dst *backend.Surface, clip image.Rectangle, r geom.Rect, img image.Image) {
	if img == nil {
		return
	}
	target := PixelRect(r)
	area := target.Intersect(clip).Intersect(image.Rect(0, 0, dst.W, dst.H))
	if area.Empty() {
		return
	}
	scaled := imaging.Resize(img, target.Dx(), target.Dy(), imaging.Lanczos)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := y * dst.W * 4
		sy := y - target.Min.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			sx := x - target.Min.X
			px := scaled.NRGBAAt(sx, sy)
			BlendPixel(dst.Pix, row+x*4, geom.RGBA(px.R, px.G, px.B, px.A))
		}
	}
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// clipImage exposes a surface as a draw target with straight alpha,
// discarding writes outside the clip. The generic draw path blends
// through At/Set.
type clipImage struct {
	s    *backend.Surface
	clip image.Rectangle
}

func (ci *clipImage) ColorModel() color.Model { return color.NRGBAModel }
func (ci *clipImage) Bounds() image.Rectangle { return image.Rect(0, 0, ci.s.W, ci.s.H) }

func (ci *clipImage) At(x, y int) color.Color {
	if !image.Pt(x, y).In(ci.Bounds()) {
		return color.NRGBA{}
	}
	i := (y*ci.s.W + x) * 4
	return color.NRGBA{R: ci.s.Pix[i], G: ci.s.Pix[i+1], B: ci.s.Pix[i+2], A: ci.s.Pix[i+3]}
}

func (ci *clipImage) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(ci.clip) {
		return
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := (y*ci.s.W + x) * 4
	ci.s.Pix[i+0] = nc.R
	ci.s.Pix[i+1] = nc.G
	ci.s.Pix[i+2] = nc.B
	ci.s.Pix[i+3] = nc.A
}
