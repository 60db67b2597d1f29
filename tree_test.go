package facet

import (
	"testing"

	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/theme"
)

func resolveAll(t *Tree) {
	resolveStyles(t, nil, theme.Light())
}

func TestReconcilePreservesKeyedNodes(t *testing.T) {
	tree := NewTree()
	tree.Reconcile(VStack(
		Button("one", nil).WithKey("a"),
		Button("two", nil).WithKey("b"),
	))
	resolveAll(tree)

	root := tree.Root()
	first := tree.Children(root)[0]
	tree.SetState(first, css.StateHover, true)

	// Same keys in a new order: nodes must survive with their state.
	tree.Reconcile(VStack(
		Button("two", nil).WithKey("b"),
		Button("one", nil).WithKey("a"),
	))
	kids := tree.Children(tree.Root())
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	if kids[1] != first {
		t.Fatalf("keyed node was not preserved across reorder")
	}
	if !tree.State(first).Has(css.StateHover) {
		t.Fatal("pseudo-state lost across reconcile")
	}
}

func TestReconcileDestroysAbsentNodes(t *testing.T) {
	tree := NewTree()
	tree.Reconcile(VStack(
		Text("keep").WithKey("keep"),
		Text("drop").WithKey("drop"),
	))
	if got := tree.Len(); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}
	tree.Reconcile(VStack(Text("keep").WithKey("keep")))
	if got := tree.Len(); got != 2 {
		t.Fatalf("len after removal = %d, want 2", got)
	}
}

func TestReconcileKindChangeReplacesNode(t *testing.T) {
	tree := NewTree()
	tree.Reconcile(VStack(Text("x").WithKey("k")))
	old := tree.Children(tree.Root())[0]
	tree.Reconcile(VStack(Button("x", nil).WithKey("k")))
	now := tree.Children(tree.Root())[0]
	if now == old && tree.nodes[now].kind != KindButton {
		t.Fatal("kind change must rebuild the node")
	}
	if tree.nodes[now].kind != KindButton {
		t.Fatalf("kind = %s, want button", tree.nodes[now].kind)
	}
}

func TestDirtySubsumption(t *testing.T) {
	if d := DirtyStyle.normalize(); !d.Has(DirtyLayout) || !d.Has(DirtyPaint) {
		t.Fatal("style dirt must imply layout and paint")
	}
	if d := DirtyLayout.normalize(); !d.Has(DirtyPaint) {
		t.Fatal("layout dirt must imply paint")
	}
	if d := DirtyLayout.normalize(); d.Has(DirtyStyle) {
		t.Fatal("layout dirt must not imply style")
	}
}

func TestPseudoStateMarksMinimalSet(t *testing.T) {
	w := 300.0
	h := 200.0
	tree := NewTree()
	desc := VStack(
		Panel(
			Button("inner", nil).WithKey("btn"),
		).WithKey("panel").WithStyle(css.Props{Width: dimPtr(css.Px(w)), Height: dimPtr(css.Px(h))}),
		Text("sibling").WithKey("sib"),
	)
	tree.Reconcile(desc)
	resolveAll(tree)
	for i := range tree.nodes {
		tree.nodes[i].dirty = 0
	}

	btn := tree.Children(tree.Children(tree.Root())[0])[0]
	sib := tree.Children(tree.Root())[1]
	tree.SetState(btn, css.StateHover, true)

	if !tree.nodes[btn].dirty.Has(DirtyStyle) {
		t.Fatal("hovered node must be style dirty")
	}
	if tree.nodes[sib].dirty != 0 {
		t.Fatal("sibling must stay clean")
	}
	// The fixed-size panel bounds the layout dirt.
	panel := tree.Children(tree.Root())[0]
	if !tree.nodes[panel].dirty.Has(DirtyLayout) {
		t.Fatal("fixed-size ancestor re-layouts its own subtree")
	}
	if tree.nodes[tree.Root()].dirty.Has(DirtyLayout) {
		t.Fatal("layout dirt must stop at the fixed-size ancestor")
	}
	if !tree.nodes[tree.Root()].dirty.Has(DirtyPaint) {
		t.Fatal("paint dirt still reaches the root to recompose")
	}
}

func TestAncestorStateDirtiesDescendants(t *testing.T) {
	tree := NewTree()
	tree.Reconcile(VStack(
		Panel(Text("x").WithKey("c")).WithKey("p"),
	))
	resolveAll(tree)

	panel := tree.Children(tree.Root())[0]
	child := tree.Children(panel)[0]
	tree.SetState(panel, css.StateHover, true)

	// Selectors like `.p:hover text` read ancestor state, so the
	// descendant must re-resolve.
	if !tree.nodes[child].dirty.Has(DirtyStyle) {
		t.Fatal("descendant not style-dirty after ancestor state change")
	}
}

func TestStyleResolveCountsScoped(t *testing.T) {
	tree := NewTree()
	tree.Reconcile(VStack(
		Button("a", nil).WithKey("a"),
		Button("b", nil).WithKey("b"),
	))
	resolveAll(tree)

	counts := map[int]int{}
	tree.Walk(func(idx int) { counts[idx] = tree.nodes[idx].styleResolves })

	// Hover one leaf; only that leaf re-resolves.
	a := tree.Children(tree.Root())[0]
	b := tree.Children(tree.Root())[1]
	tree.SetState(a, css.StateHover, true)
	resolveAll(tree)

	if got := tree.nodes[a].styleResolves; got != counts[a]+1 {
		t.Fatalf("hovered node resolves = %d, want %d", got, counts[a]+1)
	}
	if got := tree.nodes[b].styleResolves; got != counts[b] {
		t.Fatalf("clean sibling re-resolved: %d -> %d", counts[b], got)
	}
	if got := tree.nodes[tree.Root()].styleResolves; got != counts[tree.Root()] {
		t.Fatal("clean root re-resolved")
	}
}

func TestInheritedChangeCascadesToChildren(t *testing.T) {
	red := geom.RGB(255, 0, 0)
	tree := NewTree()
	build := func(c *geom.Color) *Widget {
		root := VStack(Text("child").WithKey("c")).WithKey("r")
		if c != nil {
			root.Inline = &css.Props{Color: c}
		}
		return root
	}
	tree.Reconcile(build(nil))
	resolveAll(tree)

	tree.Reconcile(build(&red))
	resolveAll(tree)

	child := tree.Children(tree.Root())[0]
	if got := tree.Style(child).Color; got != red {
		t.Fatalf("child color = %v, want inherited red", got)
	}
}

func TestWithStyleTextParsesDeclarations(t *testing.T) {
	w := Text("x").WithStyleText("color: #ff0000; bogus: nope; gap: 4px")
	if w.Inline == nil {
		t.Fatal("inline props not set")
	}
	if w.Inline.Color == nil || *w.Inline.Color != geom.RGB(255, 0, 0) {
		t.Fatalf("color = %v, want red", w.Inline.Color)
	}
	if w.Inline.Gap == nil || *w.Inline.Gap != 4 {
		t.Fatalf("gap = %v, want 4", w.Inline.Gap)
	}
}

func dimPtr(d css.Dimension) *css.Dimension { return &d }
