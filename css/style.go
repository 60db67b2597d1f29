package css

import (
	"github.com/agiangrant/facet/geom"
)

// Display controls participation in layout.
type Display int

const (
	DisplayFlex Display = iota
	DisplayNone
)

// FlexDirection is the container's main axis.
type FlexDirection int

const (
	Row FlexDirection = iota
	RowReverse
	Column
	ColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == Row || d == RowReverse }

// IsReverse reports whether children flow against the axis direction.
func (d FlexDirection) IsReverse() bool { return d == RowReverse || d == ColumnReverse }

// Justify distributes children along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align places children on the cross axis.
type Align int

const (
	AlignStretch Align = iota
	AlignStart
	AlignEnd
	AlignCenter
)

// Overflow is the container's policy for children exceeding its box.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Clips reports whether the policy establishes a clip region.
func (o Overflow) Clips() bool { return o != OverflowVisible }

// Props is a partial style: nil fields are unset and do not
// participate in the cascade. Each matched rule contributes one Props;
// merging in (specificity, source order) sequence gives
// last-applied-wins per property.
type Props struct {
	Background   *geom.Color
	Color        *geom.Color
	BorderColor  *geom.Color
	BorderWidth  *float64
	BorderRadius *float64
	Opacity      *float64

	Width     *Dimension
	Height    *Dimension
	MinWidth  *Dimension
	MinHeight *Dimension
	MaxWidth  *Dimension
	MaxHeight *Dimension

	Padding *geom.Insets
	Margin  *geom.Insets

	FontSize   *float64
	FontWeight *int
	FontFamily *string

	Display   *Display
	Direction *FlexDirection
	Grow      *float64
	Shrink    *float64
	Basis     *Dimension
	Gap       *float64
	Justify   *Justify
	Align     *Align
	Overflow  *Overflow
}

// Merge overlays o onto p: every set field of o replaces p's.
func (p *Props) Merge(o *Props) {
	if o == nil {
		return
	}
	if o.Background != nil {
		p.Background = o.Background
	}
	if o.Color != nil {
		p.Color = o.Color
	}
	if o.BorderColor != nil {
		p.BorderColor = o.BorderColor
	}
	if o.BorderWidth != nil {
		p.BorderWidth = o.BorderWidth
	}
	if o.BorderRadius != nil {
		p.BorderRadius = o.BorderRadius
	}
	if o.Opacity != nil {
		p.Opacity = o.Opacity
	}
	if o.Width != nil {
		p.Width = o.Width
	}
	if o.Height != nil {
		p.Height = o.Height
	}
	if o.MinWidth != nil {
		p.MinWidth = o.MinWidth
	}
	if o.MinHeight != nil {
		p.MinHeight = o.MinHeight
	}
	if o.MaxWidth != nil {
		p.MaxWidth = o.MaxWidth
	}
	if o.MaxHeight != nil {
		p.MaxHeight = o.MaxHeight
	}
	if o.Padding != nil {
		p.Padding = o.Padding
	}
	if o.Margin != nil {
		p.Margin = o.Margin
	}
	if o.FontSize != nil {
		p.FontSize = o.FontSize
	}
	if o.FontWeight != nil {
		p.FontWeight = o.FontWeight
	}
	if o.FontFamily != nil {
		p.FontFamily = o.FontFamily
	}
	if o.Display != nil {
		p.Display = o.Display
	}
	if o.Direction != nil {
		p.Direction = o.Direction
	}
	if o.Grow != nil {
		p.Grow = o.Grow
	}
	if o.Shrink != nil {
		p.Shrink = o.Shrink
	}
	if o.Basis != nil {
		p.Basis = o.Basis
	}
	if o.Gap != nil {
		p.Gap = o.Gap
	}
	if o.Justify != nil {
		p.Justify = o.Justify
	}
	if o.Align != nil {
		p.Align = o.Align
	}
	if o.Overflow != nil {
		p.Overflow = o.Overflow
	}
}

// IsEmpty reports whether no field is set.
func (p *Props) IsEmpty() bool {
	return p == nil || *p == (Props{})
}

// ComputedStyle is the fully resolved style of one widget node. Every
// field has a concrete value; nothing is left pending after resolve.
type ComputedStyle struct {
	Background   geom.Color
	Color        geom.Color
	BorderColor  geom.Color
	BorderWidth  float64
	BorderRadius float64
	Opacity      float64

	Width     Dimension
	Height    Dimension
	MinWidth  Dimension
	MinHeight Dimension
	MaxWidth  Dimension
	MaxHeight Dimension

	Padding geom.Insets
	Margin  geom.Insets

	FontSize   float64
	FontWeight int
	FontFamily string

	Display   Display
	Direction FlexDirection
	Grow      float64
	Shrink    float64
	Basis     Dimension
	Gap       float64
	Justify   Justify
	Align     Align
	Overflow  Overflow
}

// Apply overwrites the computed style with every set field of p.
func (cs *ComputedStyle) Apply(p *Props) {
	if p == nil {
		return
	}
	if p.Background != nil {
		cs.Background = *p.Background
	}
	if p.Color != nil {
		cs.Color = *p.Color
	}
	if p.BorderColor != nil {
		cs.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		cs.BorderWidth = *p.BorderWidth
	}
	if p.BorderRadius != nil {
		cs.BorderRadius = *p.BorderRadius
	}
	if p.Opacity != nil {
		cs.Opacity = *p.Opacity
	}
	if p.Width != nil {
		cs.Width = *p.Width
	}
	if p.Height != nil {
		cs.Height = *p.Height
	}
	if p.MinWidth != nil {
		cs.MinWidth = *p.MinWidth
	}
	if p.MinHeight != nil {
		cs.MinHeight = *p.MinHeight
	}
	if p.MaxWidth != nil {
		cs.MaxWidth = *p.MaxWidth
	}
	if p.MaxHeight != nil {
		cs.MaxHeight = *p.MaxHeight
	}
	if p.Padding != nil {
		cs.Padding = *p.Padding
	}
	if p.Margin != nil {
		cs.Margin = *p.Margin
	}
	if p.FontSize != nil {
		cs.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		cs.FontWeight = *p.FontWeight
	}
	if p.FontFamily != nil {
		cs.FontFamily = *p.FontFamily
	}
	if p.Display != nil {
		cs.Display = *p.Display
	}
	if p.Direction != nil {
		cs.Direction = *p.Direction
	}
	if p.Grow != nil {
		cs.Grow = *p.Grow
	}
	if p.Shrink != nil {
		cs.Shrink = *p.Shrink
	}
	if p.Basis != nil {
		cs.Basis = *p.Basis
	}
	if p.Gap != nil {
		cs.Gap = *p.Gap
	}
	if p.Justify != nil {
		cs.Justify = *p.Justify
	}
	if p.Align != nil {
		cs.Align = *p.Align
	}
	if p.Overflow != nil {
		cs.Overflow = *p.Overflow
	}
}

// InheritFrom copies the inheritable properties from the parent's
// computed style. Everything else keeps its default.
func (cs *ComputedStyle) InheritFrom(parent *ComputedStyle) {
	if parent == nil {
		return
	}
	cs.Color = parent.Color
	cs.FontSize = parent.FontSize
	cs.FontWeight = parent.FontWeight
	cs.FontFamily = parent.FontFamily
}
