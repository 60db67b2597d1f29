package facet

import (
	"fmt"
	"image"
	"slices"

	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
)

// Dirty is the per-node invalidation state. Style subsumes layout
// subsumes paint: marking a coarser level always marks the finer ones.
type Dirty uint8

const (
	DirtyPaint Dirty = 1 << iota
	DirtyLayout
	DirtyStyle
)

func (d Dirty) normalize() Dirty {
	if d&DirtyStyle != 0 {
		d |= DirtyLayout
	}
	if d&DirtyLayout != 0 {
		d |= DirtyPaint
	}
	return d
}

func (d Dirty) Has(flag Dirty) bool { return d&flag != 0 }

// node is one retained tree entry. The tree owns children by arena
// index; the parent link is a non-owning index used for ancestor walks
// only.
type node struct {
	key     string
	kind    Kind
	id      string
	classes []string
	state   css.State
	text    string

	imageSource string
	img         image.Image
	onClick     func()
	inline      *css.Props

	style css.ComputedStyle
	box   geom.Rect
	dirty Dirty

	parent   int
	children []int
	live     bool

	// recompute counters, read by instrumentation and tests
	styleResolves int
	paints        int
}

// Tree is the retained widget hierarchy. Nodes live in an arena;
// reconciliation against each frame's Widget description preserves
// nodes (and their caches and pseudo-state) whose stable key and kind
// survive.
type Tree struct {
	nodes []node
	root  int
	free  []int
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: -1}
}

// Root returns the root arena index, or -1 for an empty tree.
func (t *Tree) Root() int { return t.root }

// Len counts live nodes.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].live {
			n++
		}
	}
	return n
}

func (t *Tree) alloc() int {
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[idx] = node{live: true, parent: -1}
		return idx
	}
	t.nodes = append(t.nodes, node{live: true, parent: -1})
	return len(t.nodes) - 1
}

func (t *Tree) release(idx int) {
	for _, c := range t.nodes[idx].children {
		t.release(c)
	}
	t.nodes[idx] = node{parent: -1}
	t.free = append(t.free, idx)
}

// effectiveKey is the reconciliation identity: the explicit key when
// set, otherwise kind plus position among siblings.
func effectiveKey(w *Widget, pos int) string {
	if w.Key != "" {
		return w.Key
	}
	return fmt.Sprintf("%s@%d", w.Kind, pos)
}

// Reconcile diffs the described tree against the retained one. Nodes
// matched by key and kind are updated in place; new descriptions
// allocate nodes, and retained nodes absent from the description are
// destroyed.
func (t *Tree) Reconcile(desc *Widget) {
	if desc == nil {
		if t.root >= 0 {
			t.release(t.root)
			t.root = -1
		}
		return
	}
	if t.root >= 0 && t.nodes[t.root].kind == desc.Kind &&
		t.nodes[t.root].key == effectiveKey(desc, 0) {
		t.update(t.root, desc)
		return
	}
	if t.root >= 0 {
		t.release(t.root)
	}
	t.root = t.build(desc, 0, -1)
}

func (t *Tree) build(w *Widget, pos, parent int) int {
	idx := t.alloc()
	n := &t.nodes[idx]
	n.key = effectiveKey(w, pos)
	n.kind = w.Kind
	n.parent = parent
	n.dirty = DirtyStyle.normalize()
	t.applyDesc(idx, w)
	for i, c := range w.Children {
		ci := t.build(c, i, idx)
		t.nodes[idx].children = append(t.nodes[idx].children, ci)
	}
	return idx
}

// update refreshes a matched node and reconciles its child list.
func (t *Tree) update(idx int, w *Widget) {
	n := &t.nodes[idx]

	styleChanged := n.id != w.IDAttr ||
		!slices.Equal(n.classes, w.Classes) ||
		!propsEqual(n.inline, w.Inline) ||
		n.state.Has(css.StateDisabled) != w.Disabled
	contentChanged := n.text != w.Text ||
		n.imageSource != w.ImageSource || (w.Img != nil && n.img != w.Img)

	t.applyDesc(idx, w)

	if styleChanged {
		t.MarkDirty(idx, DirtyStyle)
		t.markSubtreeStyle(idx)
	}
	if contentChanged {
		t.MarkDirty(idx, DirtyLayout)
	}

	// Match old children to new descriptions by effective key.
	old := t.nodes[idx].children
	oldByKey := make(map[string]int, len(old))
	for _, ci := range old {
		oldByKey[t.nodes[ci].key] = ci
	}

	next := make([]int, 0, len(w.Children))
	for i, cw := range w.Children {
		key := effectiveKey(cw, i)
		if ci, ok := oldByKey[key]; ok && t.nodes[ci].kind == cw.Kind {
			delete(oldByKey, key)
			t.update(ci, cw)
			next = append(next, ci)
			continue
		}
		next = append(next, t.build(cw, i, idx))
	}
	for _, ci := range oldByKey {
		t.release(ci)
	}

	if !slices.Equal(old, next) {
		t.MarkDirty(idx, DirtyLayout)
	}
	t.nodes[idx].children = next
}

// applyDesc copies the per-frame description into the retained node.
// Pseudo-state other than :disabled is runtime state and survives.
func (t *Tree) applyDesc(idx int, w *Widget) {
	n := &t.nodes[idx]
	n.id = w.IDAttr
	n.classes = slices.Clone(w.Classes)
	n.inline = w.Inline
	n.text = w.Text
	n.imageSource = w.ImageSource
	if w.Img != nil {
		n.img = w.Img
	}
	n.onClick = w.OnClick
	if w.Disabled {
		n.state |= css.StateDisabled
		n.state &^= css.StateHover | css.StateActive
	} else {
		n.state &^= css.StateDisabled
	}
}

// MarkDirty invalidates a node. Layout dirt walks up to the first
// ancestor whose size does not depend on children; paint dirt walks up
// to the nearest clipping ancestor, which repaints as a unit.
func (t *Tree) MarkDirty(idx int, flags Dirty) {
	if idx < 0 || !t.nodes[idx].live {
		return
	}
	flags = flags.normalize()
	t.nodes[idx].dirty |= flags

	markLayout := flags.Has(DirtyLayout)
	markPaint := flags.Has(DirtyPaint)
	for p := t.nodes[idx].parent; p >= 0 && (markLayout || markPaint); p = t.nodes[p].parent {
		if markLayout {
			t.nodes[p].dirty |= DirtyLayout | DirtyPaint
			if fixedSize(&t.nodes[p].style) {
				markLayout = false
			}
		} else {
			t.nodes[p].dirty |= DirtyPaint
		}
		if t.nodes[p].style.Overflow.Clips() {
			markPaint = false
		}
	}
}

// markSubtreeStyle marks every node under idx style-dirty. Descendant
// selectors read ancestor classes, ids and pseudo-state, so changing a
// node's match inputs can change any descendant's style.
func (t *Tree) markSubtreeStyle(idx int) {
	for _, c := range t.nodes[idx].children {
		t.nodes[c].dirty |= DirtyStyle.normalize()
		t.markSubtreeStyle(c)
	}
}

// fixedSize reports whether a node's box is independent of its
// children on both axes.
func fixedSize(s *css.ComputedStyle) bool {
	return !s.Width.IsAuto() && !s.Height.IsAuto()
}

// SetState flips runtime pseudo-state flags and marks style dirt when
// they change. Disabled nodes reject hover and active.
func (t *Tree) SetState(idx int, flag css.State, on bool) {
	if idx < 0 || !t.nodes[idx].live {
		return
	}
	n := &t.nodes[idx]
	if n.state.Has(css.StateDisabled) && flag != css.StateDisabled {
		return
	}
	prev := n.state
	if on {
		n.state |= flag
	} else {
		n.state &^= flag
	}
	if n.state != prev {
		t.MarkDirty(idx, DirtyStyle)
		t.markSubtreeStyle(idx)
	}
}

// State returns the node's pseudo-state flags.
func (t *Tree) State(idx int) css.State {
	if idx < 0 || !t.nodes[idx].live {
		return 0
	}
	return t.nodes[idx].state
}

// Box returns the node's laid-out frame.
func (t *Tree) Box(idx int) geom.Rect {
	if idx < 0 || !t.nodes[idx].live {
		return geom.Rect{}
	}
	return t.nodes[idx].box
}

// Style returns the node's computed style.
func (t *Tree) Style(idx int) css.ComputedStyle {
	if idx < 0 || !t.nodes[idx].live {
		return css.ComputedStyle{}
	}
	return t.nodes[idx].style
}

// Children returns the node's child indices. The slice is owned by the
// tree.
func (t *Tree) Children(idx int) []int {
	if idx < 0 || !t.nodes[idx].live {
		return nil
	}
	return t.nodes[idx].children
}

// anyPaintDirty reports whether any live node still needs repainting.
func (t *Tree) anyPaintDirty() bool {
	dirty := false
	t.Walk(func(idx int) {
		if t.nodes[idx].dirty.Has(DirtyPaint) {
			dirty = true
		}
	})
	return dirty
}

// Walk visits live nodes parent-first, siblings in order.
func (t *Tree) Walk(fn func(idx int)) {
	var rec func(int)
	rec = func(idx int) {
		fn(idx)
		for _, c := range t.nodes[idx].children {
			rec(c)
		}
	}
	if t.root >= 0 {
		rec(t.root)
	}
}

// matchRef adapts an arena index to the selector matcher's node view.
type matchRef struct {
	t   *Tree
	idx int
}

func (r matchRef) TypeName() string { return string(r.t.nodes[r.idx].kind) }
func (r matchRef) NodeID() string   { return r.t.nodes[r.idx].id }
func (r matchRef) State() css.State { return r.t.nodes[r.idx].state }

func (r matchRef) HasClass(name string) bool {
	return slices.Contains(r.t.nodes[r.idx].classes, name)
}

func (r matchRef) Parent() css.MatchNode {
	p := r.t.nodes[r.idx].parent
	if p < 0 {
		return nil
	}
	return matchRef{t: r.t, idx: p}
}

// propsEqual compares two inline style records by their set fields and
// pointed-at values.
func propsEqual(a, b *css.Props) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	if setFields(a) != setFields(b) {
		return false
	}
	var ca, cb css.ComputedStyle
	ca.Apply(a)
	cb.Apply(b)
	return ca == cb
}

// setFields returns a bitmask of which Props fields are non-nil.
func setFields(p *css.Props) uint32 {
	var m uint32
	set := func(bit int, is bool) {
		if is {
			m |= 1 << bit
		}
	}
	set(0, p.Background != nil)
	set(1, p.Color != nil)
	set(2, p.BorderColor != nil)
	set(3, p.BorderWidth != nil)
	set(4, p.BorderRadius != nil)
	set(5, p.Opacity != nil)
	set(6, p.Width != nil)
	set(7, p.Height != nil)
	set(8, p.MinWidth != nil)
	set(9, p.MinHeight != nil)
	set(10, p.MaxWidth != nil)
	set(11, p.MaxHeight != nil)
	set(12, p.Padding != nil)
	set(13, p.Margin != nil)
	set(14, p.FontSize != nil)
	set(15, p.FontWeight != nil)
	set(16, p.FontFamily != nil)
	set(17, p.Display != nil)
	set(18, p.Direction != nil)
	set(19, p.Grow != nil)
	set(20, p.Shrink != nil)
	set(21, p.Basis != nil)
	set(22, p.Gap != nil)
	set(23, p.Justify != nil)
	set(24, p.Align != nil)
	set(25, p.Overflow != nil)
	return m
}
