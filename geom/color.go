package geom

import (
	"fmt"
	"image/color"
	"math"
)

// Color is a non-premultiplied sRGB color with 8-bit channels. Paint
// commands carry it fully resolved; backends convert as needed.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// RGBA returns a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Transparent is fully clear black.
var Transparent = Color{}

// IsTransparent reports whether the color contributes no pixels.
func (c Color) IsTransparent() bool { return c.A == 0 }

// WithAlpha scales the color's alpha by f in [0,1].
func (c Color) WithAlpha(f float64) Color {
	if f >= 1 {
		return c
	}
	if f <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(math.Round(float64(c.A) * f))
	return c
}

// NRGBA converts to the stdlib image color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex returns the #rrggbb or #rrggbbaa form.
func (c Color) Hex() string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSL converts hue (degrees), saturation and lightness (0..1) to a Color.
// Design token palettes are authored in HSL.
func HSL(h, s, l float64) Color {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB(
		uint8(math.Round((r+m)*255)),
		uint8(math.Round((g+m)*255)),
		uint8(math.Round((b+m)*255)),
	)
}
