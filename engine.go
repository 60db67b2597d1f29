package facet

import (
	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/internal/fontcache"
	"github.com/agiangrant/facet/layout"
	"github.com/agiangrant/facet/paint"
	"github.com/agiangrant/facet/theme"
)

// resolveStyles recomputes computed styles for style-dirty nodes.
// Because inherited properties flow downward, a node whose style
// changed forces its children to re-resolve even when they are clean.
func resolveStyles(t *Tree, sheet *css.Stylesheet, tokens theme.Tokens) {
	if t.root < 0 {
		return
	}
	resolveNode(t, t.root, sheet, tokens, nil, false)
}

func resolveNode(t *Tree, idx int, sheet *css.Stylesheet, tokens theme.Tokens, parent *css.ComputedStyle, parentChanged bool) {
	n := &t.nodes[idx]
	changed := false
	if n.dirty.Has(DirtyStyle) || parentChanged {
		base := theme.Base(tokens)
		base.Apply(kindDefaults(tokens, n.kind))
		next := css.Resolve(matchRef{t: t, idx: idx}, sheet, base, parent, n.inline)
		changed = next != n.style
		n.style = next
		n.styleResolves++
		if changed {
			n.dirty |= (DirtyLayout | DirtyPaint)
		}
		n.dirty &^= DirtyStyle
	}
	style := t.nodes[idx].style
	for _, c := range t.nodes[idx].children {
		resolveNode(t, c, sheet, tokens, &style, changed)
	}
}

// kindDefaults maps a widget kind to its token-derived default props.
// Stacks set their axis here so `vstack`/`hstack` behave before any
// stylesheet loads.
func kindDefaults(tokens theme.Tokens, kind Kind) *css.Props {
	switch kind {
	case KindHStack:
		row := css.Row
		return &css.Props{Direction: &row}
	case KindVStack, KindSpacer:
		return nil
	case KindPanel:
		return theme.DefaultProps(tokens, "panel")
	case KindButton:
		return theme.DefaultProps(tokens, "button")
	}
	return nil
}

// layoutScopes finds the highest layout-dirty nodes: each is the root
// of one re-layout, and no scope contains another.
func layoutScopes(t *Tree) []int {
	var scopes []int
	var rec func(idx int)
	rec = func(idx int) {
		if t.nodes[idx].dirty.Has(DirtyLayout) {
			scopes = append(scopes, idx)
			return
		}
		for _, c := range t.nodes[idx].children {
			rec(c)
		}
	}
	if t.root >= 0 {
		rec(t.root)
	}
	return scopes
}

// layoutTree re-runs flex layout over every dirty scope. The root
// scope lays out against the viewport; an inner scope has a fixed-size
// box (that is why dirt stopped propagating there) and lays out
// against its own frame.
func layoutTree(t *Tree, viewport geom.Size, images *imageStore) {
	for _, scope := range layoutScopes(t) {
		ln := buildLayoutNode(t, scope, images)
		avail := viewport
		origin := geom.Point{}
		if scope != t.root {
			// Compute arranges its root at the margin offset, and the
			// retained box already includes that offset from the parent's
			// arrangement. Back it out so the scope's frame stays put.
			box := t.nodes[scope].box
			m := t.nodes[scope].style.Margin
			avail = box.Size()
			origin = geom.Point{X: box.X - m.Left, Y: box.Y - m.Top}
		}
		layout.Compute(ln, avail)
		applyBoxes(t, scope, ln, origin)
	}
}

// buildLayoutNode mirrors a subtree into the layout engine's node
// shape. Leaves get measure functions for their content.
func buildLayoutNode(t *Tree, idx int, images *imageStore) *layout.Node {
	n := &t.nodes[idx]
	ln := &layout.Node{Style: &n.style}
	switch n.kind {
	case KindText, KindButton:
		text, size, weight := n.text, n.style.FontSize, n.style.FontWeight
		if text != "" {
			ln.Measure = func(maxWidth float64) geom.Size {
				return fontcache.Measure(text, size, weight)
			}
		}
	case KindImage:
		if img := images.lookup(n.imageSource, n.img); img != nil {
			b := img.Bounds()
			w, h := float64(b.Dx()), float64(b.Dy())
			ln.Measure = func(maxWidth float64) geom.Size {
				if maxWidth > 0 && w > maxWidth {
					return geom.Size{W: maxWidth, H: h * maxWidth / w}
				}
				return geom.Size{W: w, H: h}
			}
		}
	}
	for _, c := range n.children {
		ln.Children = append(ln.Children, buildLayoutNode(t, c, images))
	}
	return ln
}

// applyBoxes writes computed frames back to the tree, offset into the
// scope's coordinate space. A moved or resized box repaints.
func applyBoxes(t *Tree, idx int, ln *layout.Node, origin geom.Point) {
	n := &t.nodes[idx]
	box := ln.Box
	box.X += origin.X
	box.Y += origin.Y
	if box != n.box {
		n.dirty |= DirtyPaint
	}
	n.box = box
	n.dirty &^= DirtyLayout
	for i, c := range n.children {
		applyBoxes(t, c, ln.Children[i], origin)
	}
}

// paintTree walks the laid-out tree back to front and emits draw
// commands. Parents paint before children; clipping containers wrap
// their children in a clip pair.
func paintTree(t *Tree, p *paint.Painter, images *imageStore) {
	if t.root >= 0 {
		paintNode(t, t.root, p, images)
	}
}

func paintNode(t *Tree, idx int, p *paint.Painter, images *imageStore) {
	n := &t.nodes[idx]
	st := &n.style
	if st.Display == css.DisplayNone || st.Opacity <= 0 {
		return
	}
	box := n.box
	if box.Empty() && len(n.children) == 0 {
		return
	}
	n.paints++

	bg := st.Background.WithAlpha(st.Opacity)
	p.FillRect(box, bg, st.BorderRadius)
	if st.BorderWidth > 0 {
		p.StrokeRect(box, st.BorderColor.WithAlpha(st.Opacity), st.BorderWidth)
	}

	inner := box.Inset(st.Padding)
	switch n.kind {
	case KindText, KindButton:
		if n.text != "" {
			textBox := inner
			if n.kind == KindButton {
				textBox = centerTextBox(inner, n.text, st)
			}
			p.DrawText(textBox, n.text, st.Color.WithAlpha(st.Opacity), st.FontSize, st.FontWeight)
		}
	case KindImage:
		if img := images.lookup(n.imageSource, n.img); img != nil {
			p.DrawImage(inner, img)
		} else {
			// placeholder until the asynchronous load lands
			p.FillRect(inner, st.BorderColor.WithAlpha(st.Opacity*0.4), st.BorderRadius)
		}
	}

	clips := st.Overflow.Clips()
	if clips {
		p.PushClip(inner)
	}
	for _, c := range n.children {
		paintNode(t, c, p, images)
	}
	if clips {
		p.PopClip()
	}
	n.dirty &^= DirtyPaint
}

// centerTextBox centers a single text run inside the content box.
func centerTextBox(inner geom.Rect, text string, st *css.ComputedStyle) geom.Rect {
	sz := fontcache.Measure(text, st.FontSize, st.FontWeight)
	x := inner.X + (inner.W-sz.W)/2
	y := inner.Y + (inner.H-sz.H)/2
	if x < inner.X {
		x = inner.X
	}
	if y < inner.Y {
		y = inner.Y
	}
	return geom.Rect{X: x, Y: y, W: inner.W - (x - inner.X), H: inner.H - (y - inner.Y)}
}
