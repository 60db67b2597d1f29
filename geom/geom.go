// Package geom provides the pixel-space primitives shared by layout,
// paint and the renderer backends.
package geom

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in pixels. Negative dimensions are never
// produced by the toolkit; helpers clamp at zero.
type Size struct {
	W, H float64
}

// IsZero reports whether either dimension is zero or less.
func (s Size) IsZero() bool { return s.W <= 0 || s.H <= 0 }

// Clamp limits s to [min, max] per axis. A max of 0 on an axis means
// unconstrained on that axis.
func (s Size) Clamp(min, max Size) Size {
	out := s
	if max.W > 0 && out.W > max.W {
		out.W = max.W
	}
	if max.H > 0 && out.H > max.H {
		out.H = max.H
	}
	if out.W < min.W {
		out.W = min.W
	}
	if out.H < min.H {
		out.H = min.H
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Rect is an axis-aligned rectangle in absolute pixels.
type Rect struct {
	X, Y, W, H float64
}

// RectFrom builds a Rect from origin and size.
func RectFrom(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersect returns the overlap of r and o. The result is empty when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := r.X
	if o.X > x0 {
		x0 = o.X
	}
	y0 := r.Y
	if o.Y > y0 {
		y0 = o.Y
	}
	x1 := r.MaxX()
	if o.MaxX() < x1 {
		x1 = o.MaxX()
	}
	y1 := r.MaxY()
	if o.MaxY() < y1 {
		y1 = o.MaxY()
	}
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Inset shrinks r by the given insets, clamping at zero size.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Left - in.Right,
		H: r.H - in.Top - in.Bottom,
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Insets are per-edge distances, used for padding and margins.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns left+right.
func (in Insets) Horizontal() float64 { return in.Left + in.Right }

// Vertical returns top+bottom.
func (in Insets) Vertical() float64 { return in.Top + in.Bottom }

// UniformInsets returns equal insets on all four edges.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}
