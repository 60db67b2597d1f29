// Package layout implements the constraint-based flex algorithm. It is
// strictly two passes: a bottom-up measure pass establishing intrinsic
// sizes, then a top-down arrange pass assigning final boxes. A node's
// position is never touched before its parent's box is final, and a
// parent's box is never finalized before all children are measured.
package layout

import (
	"math"

	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
)

// MeasureFunc reports the intrinsic content size of a leaf given the
// maximum width it may occupy. Text and images provide one; containers
// measure from their children.
type MeasureFunc func(maxWidth float64) geom.Size

// Node is one box in the layout tree. Style points at the node's
// resolved computed style; results land in Box (absolute pixels).
type Node struct {
	Style    *css.ComputedStyle
	Children []*Node
	Measure  MeasureFunc

	// Box is the final margin-exclusive frame, absolute in surface
	// coordinates, valid after Compute.
	Box geom.Rect

	// intrinsic is the measured content size including padding,
	// before grow/shrink. Valid between the two passes.
	intrinsic geom.Size
}

// Compute lays out the tree rooted at root into the available size.
// The origin is (0,0); callers offset via the root's margin if any.
func Compute(root *Node, avail geom.Size) {
	if root == nil {
		return
	}
	if avail.W < 0 {
		avail.W = 0
	}
	if avail.H < 0 {
		avail.H = 0
	}
	measure(root, avail)
	size := resolveNodeSize(root, avail, root.intrinsic)
	arrange(root, geom.Rect{X: root.Style.Margin.Left, Y: root.Style.Margin.Top, W: size.W, H: size.H})
}

// measure is the bottom-up pass: children first, then the node's own
// intrinsic size from content or child sums.
func measure(n *Node, avail geom.Size) {
	st := n.Style
	if st.Display == css.DisplayNone {
		n.intrinsic = geom.Size{}
		return
	}

	inner := geom.Size{
		W: math.Max(0, avail.W-st.Padding.Horizontal()),
		H: math.Max(0, avail.H-st.Padding.Vertical()),
	}

	var content geom.Size
	switch {
	case len(n.Children) > 0:
		isRow := st.Direction.IsRow()
		var main, cross float64
		visible := 0
		for _, c := range n.Children {
			measure(c, inner)
			if c.Style.Display == css.DisplayNone {
				continue
			}
			visible++
			cw := c.intrinsic.W + c.Style.Margin.Horizontal()
			ch := c.intrinsic.H + c.Style.Margin.Vertical()
			if isRow {
				main += cw
				cross = math.Max(cross, ch)
			} else {
				main += ch
				cross = math.Max(cross, cw)
			}
		}
		if visible > 1 {
			main += st.Gap * float64(visible-1)
		}
		if isRow {
			content = geom.Size{W: main, H: cross}
		} else {
			content = geom.Size{W: cross, H: main}
		}
	case n.Measure != nil:
		content = n.Measure(inner.W)
	}

	size := geom.Size{
		W: content.W + st.Padding.Horizontal(),
		H: content.H + st.Padding.Vertical(),
	}
	// Fixed dimensions override content measurement.
	if !st.Width.IsAuto() {
		size.W = st.Width.Resolve(avail.W, size.W)
	}
	if !st.Height.IsAuto() {
		size.H = st.Height.Resolve(avail.H, size.H)
	}
	n.intrinsic = clampSize(size, st, avail)
}

// arrange is the top-down pass: the node's frame is final, distribute
// the content box among children.
func arrange(n *Node, frame geom.Rect) {
	n.Box = frame
	if n.Style.Display == css.DisplayNone || len(n.Children) == 0 {
		return
	}
	content := frame.Inset(n.Style.Padding)
	flexChildren(n, content)
}

// flexChildren sizes and positions n's children inside content.
func flexChildren(n *Node, content geom.Rect) {
	st := n.Style
	isRow := st.Direction.IsRow()

	mainAvail := content.W
	crossAvail := content.H
	if !isRow {
		mainAvail, crossAvail = content.H, content.W
	}

	var items []*flexItem
	for _, c := range n.Children {
		if c.Style.Display == css.DisplayNone {
			c.Box = geom.Rect{X: content.X, Y: content.Y}
			continue
		}
		items = append(items, &flexItem{node: c})
	}
	if len(items) == 0 {
		return
	}

	gaps := st.Gap * float64(len(items)-1)

	// Resolve each item's flex basis on the main axis.
	used := gaps
	for _, it := range items {
		c := it.node
		cs := c.Style
		axisAvail := mainAvail
		it.basis = cs.Basis.Resolve(axisAvail, mainSize(c.intrinsic, isRow))
		if cs.Basis.IsAuto() {
			// Explicit main-axis size takes priority over content.
			if isRow && !cs.Width.IsAuto() {
				it.basis = cs.Width.Resolve(axisAvail, it.basis)
			} else if !isRow && !cs.Height.IsAuto() {
				it.basis = cs.Height.Resolve(axisAvail, it.basis)
			}
		}
		it.min, it.max = mainLimits(cs, mainAvail, isRow)
		it.size = clamp(it.basis, it.min, it.max)
		it.margin = mainMargin(cs, isRow)
		used += it.size + it.margin
	}

	free := mainAvail - used
	if free > 0 {
		distributeGrow(items, free)
	} else if free < 0 {
		distributeShrink(items, -free)
	}

	// Conserve the row exactly when flexible children fill it: hand
	// the rounding remainder to the last flexible item.
	if free > 0 && totalGrow(items) > 0 {
		total := gaps
		for _, it := range items {
			total += it.size + it.margin
		}
		if rem := mainAvail - total; rem != 0 {
			for i := len(items) - 1; i >= 0; i-- {
				if items[i].node.Style.Grow > 0 {
					items[i].size = clamp(items[i].size+rem, items[i].min, items[i].max)
					break
				}
			}
		}
	}

	positionItems(n, items, content, mainAvail, crossAvail, isRow)
}

type flexItem struct {
	node   *Node
	basis  float64
	size   float64 // main-axis size, margin-exclusive
	min    float64
	max    float64 // math.Inf(1) when unconstrained
	margin float64 // main-axis margins
	frozen bool
}

func totalGrow(items []*flexItem) float64 {
	var s float64
	for _, it := range items {
		s += it.node.Style.Grow
	}
	return s
}

// distributeGrow hands out free space by grow weight, freezing items
// that hit their max and redistributing the rest.
func distributeGrow(items []*flexItem, free float64) {
	for iter := 0; iter < len(items)+1; iter++ {
		var weights float64
		for _, it := range items {
			if !it.frozen {
				weights += it.node.Style.Grow
			}
		}
		if weights <= 0 || free <= 0 {
			return
		}
		unit := free / weights
		progressed := false
		for _, it := range items {
			if it.frozen || it.node.Style.Grow <= 0 {
				continue
			}
			add := unit * it.node.Style.Grow
			next := it.size + add
			if next >= it.max {
				free -= it.max - it.size
				it.size = it.max
				it.frozen = true
				progressed = true
			} else {
				it.size = next
				free -= add
			}
		}
		if !progressed {
			return
		}
	}
}

// distributeShrink removes deficit weighted by shrink*basis, clamping
// at each item's minimum. Sizes never go negative.
func distributeShrink(items []*flexItem, deficit float64) {
	for iter := 0; iter < len(items)+1; iter++ {
		var scaled float64
		for _, it := range items {
			if !it.frozen {
				scaled += it.node.Style.Shrink * it.basis
			}
		}
		if scaled <= 0 || deficit <= 0 {
			return
		}
		passDeficit := deficit
		progressed := false
		for _, it := range items {
			if it.frozen {
				continue
			}
			factor := it.node.Style.Shrink * it.basis / scaled
			take := passDeficit * factor
			next := it.size - take
			floor := math.Max(it.min, 0)
			if next <= floor {
				deficit -= it.size - floor
				it.size = floor
				it.frozen = true
				progressed = true
			} else {
				it.size = next
				deficit -= take
			}
		}
		if !progressed {
			return
		}
	}
}

// positionItems runs the main-axis justification and cross-axis
// alignment, then recurses into arrange for each child.
func positionItems(n *Node, items []*flexItem, content geom.Rect, mainAvail, crossAvail float64, isRow bool) {
	st := n.Style

	occupied := st.Gap * float64(len(items)-1)
	for _, it := range items {
		occupied += it.size + it.margin
	}
	leftover := math.Max(0, mainAvail-occupied)

	var cursor, between float64
	switch st.Justify {
	case css.JustifyEnd:
		cursor = leftover
	case css.JustifyCenter:
		cursor = leftover / 2
	case css.JustifySpaceBetween:
		if len(items) > 1 {
			between = leftover / float64(len(items)-1)
		}
	case css.JustifySpaceAround:
		between = leftover / float64(len(items))
		cursor = between / 2
	case css.JustifySpaceEvenly:
		between = leftover / float64(len(items)+1)
		cursor = between
	}

	ordered := items
	if st.Direction.IsReverse() {
		ordered = make([]*flexItem, len(items))
		for i, it := range items {
			ordered[len(items)-1-i] = it
		}
	}

	for i, it := range ordered {
		c := it.node
		cs := c.Style

		crossSize := crossOf(c.intrinsic, isRow)
		crossMargin := crossMarginOf(cs, isRow)
		align := st.Align
		if align == css.AlignStretch && crossIsAuto(cs, isRow) {
			crossSize = math.Max(0, crossAvail-crossMargin)
		}
		crossSize = clampCross(cs, crossSize, crossAvail, isRow)

		var crossPos float64
		switch align {
		case css.AlignEnd:
			crossPos = crossAvail - crossSize - crossMargin
		case css.AlignCenter:
			crossPos = (crossAvail - crossSize - crossMargin) / 2
		}
		if crossPos < 0 {
			crossPos = 0
		}

		var frame geom.Rect
		if isRow {
			frame = geom.Rect{
				X: content.X + cursor + cs.Margin.Left,
				Y: content.Y + crossPos + cs.Margin.Top,
				W: math.Max(0, it.size),
				H: math.Max(0, crossSize),
			}
		} else {
			frame = geom.Rect{
				X: content.X + crossPos + cs.Margin.Left,
				Y: content.Y + cursor + cs.Margin.Top,
				W: math.Max(0, crossSize),
				H: math.Max(0, it.size),
			}
		}
		arrange(c, frame)

		cursor += it.size + it.margin + between
		if i < len(ordered)-1 {
			cursor += st.Gap
		}
	}
}

func mainSize(s geom.Size, isRow bool) float64 {
	if isRow {
		return s.W
	}
	return s.H
}

func crossOf(s geom.Size, isRow bool) float64 {
	if isRow {
		return s.H
	}
	return s.W
}

func mainMargin(cs *css.ComputedStyle, isRow bool) float64 {
	if isRow {
		return cs.Margin.Horizontal()
	}
	return cs.Margin.Vertical()
}

func crossMarginOf(cs *css.ComputedStyle, isRow bool) float64 {
	if isRow {
		return cs.Margin.Vertical()
	}
	return cs.Margin.Horizontal()
}

func crossIsAuto(cs *css.ComputedStyle, isRow bool) bool {
	if isRow {
		return cs.Height.IsAuto()
	}
	return cs.Width.IsAuto()
}

// mainLimits resolves min/max clamps on the main axis.
func mainLimits(cs *css.ComputedStyle, avail float64, isRow bool) (float64, float64) {
	min, max := 0.0, math.Inf(1)
	minD, maxD := cs.MinHeight, cs.MaxHeight
	if isRow {
		minD, maxD = cs.MinWidth, cs.MaxWidth
	}
	if !minD.IsAuto() {
		min = math.Max(0, minD.Resolve(avail, 0))
	}
	if !maxD.IsAuto() {
		if m := maxD.Resolve(avail, 0); m > 0 {
			max = m
		}
	}
	if max < min {
		max = min
	}
	return min, max
}

func clampCross(cs *css.ComputedStyle, size, avail float64, isRow bool) float64 {
	minD, maxD := cs.MinWidth, cs.MaxWidth
	if isRow {
		minD, maxD = cs.MinHeight, cs.MaxHeight
	}
	if !maxD.IsAuto() {
		if m := maxD.Resolve(avail, 0); m > 0 && size > m {
			size = m
		}
	}
	if !minD.IsAuto() {
		if m := minD.Resolve(avail, 0); size < m {
			size = m
		}
	}
	return math.Max(0, size)
}

func clamp(v, min, max float64) float64 {
	if v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return math.Max(0, v)
}

// clampSize applies min/max dimensions to a measured size.
func clampSize(s geom.Size, st *css.ComputedStyle, avail geom.Size) geom.Size {
	minS := geom.Size{}
	maxS := geom.Size{}
	if !st.MinWidth.IsAuto() {
		minS.W = st.MinWidth.Resolve(avail.W, 0)
	}
	if !st.MinHeight.IsAuto() {
		minS.H = st.MinHeight.Resolve(avail.H, 0)
	}
	if !st.MaxWidth.IsAuto() {
		maxS.W = st.MaxWidth.Resolve(avail.W, 0)
	}
	if !st.MaxHeight.IsAuto() {
		maxS.H = st.MaxHeight.Resolve(avail.H, 0)
	}
	return s.Clamp(minS, maxS)
}

// resolveNodeSize fixes the root's own frame size from its style and
// intrinsic measurement.
func resolveNodeSize(n *Node, avail geom.Size, intrinsic geom.Size) geom.Size {
	st := n.Style
	size := intrinsic
	if !st.Width.IsAuto() {
		size.W = st.Width.Resolve(avail.W, size.W)
	} else if avail.W > 0 {
		size.W = avail.W - st.Margin.Horizontal()
	}
	if !st.Height.IsAuto() {
		size.H = st.Height.Resolve(avail.H, size.H)
	} else if avail.H > 0 {
		size.H = avail.H - st.Margin.Vertical()
	}
	return clampSize(size, st, avail)
}
