package facet

import (
	"sync"

	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
)

// EventKind discriminates queued input events.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPointerDown
	EventPointerUp
	EventResize
	EventKey
)

// Event is one raw input item from the windowing collaborator. Events
// queue between frames and drain at a fixed point before dirty
// marking, so per-frame ordering is deterministic.
type Event struct {
	Kind EventKind
	X, Y float64
	W, H float64
	Key  string
}

// eventQueue buffers events pushed from any goroutine until the frame
// drains them.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

func (q *eventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// hitTest returns the deepest visible node containing the point,
// preferring later siblings, which paint on top. Returns -1 on miss.
func hitTest(t *Tree, x, y float64) int {
	if t.root < 0 {
		return -1
	}
	return hitNode(t, t.root, x, y)
}

func hitNode(t *Tree, idx int, x, y float64) int {
	n := &t.nodes[idx]
	if n.style.Display == css.DisplayNone {
		return -1
	}
	inside := n.box.Contains(geom.Point{X: x, Y: y})
	if n.style.Overflow.Clips() && !inside {
		return -1
	}
	kids := n.children
	for i := len(kids) - 1; i >= 0; i-- {
		if hit := hitNode(t, kids[i], x, y); hit >= 0 {
			return hit
		}
	}
	if inside {
		return idx
	}
	return -1
}

// ancestorChain returns idx and its ancestors, leaf first.
func ancestorChain(t *Tree, idx int) []int {
	var chain []int
	for i := idx; i >= 0; i = t.nodes[i].parent {
		chain = append(chain, i)
	}
	return chain
}

// pointerState tracks which nodes currently hold hover and active
// flags so transitions flip exactly the affected nodes.
type pointerState struct {
	hovered []int
	pressed int
}

func newPointerState() pointerState {
	return pointerState{pressed: -1}
}

// move re-targets hover. Hover applies to the hit node and its
// ancestors, so descendant selectors with :hover on a container work.
func (ps *pointerState) move(t *Tree, x, y float64) {
	hit := hitTest(t, x, y)
	var next []int
	if hit >= 0 {
		next = ancestorChain(t, hit)
	}
	inNext := make(map[int]bool, len(next))
	for _, i := range next {
		inNext[i] = true
	}
	for _, i := range ps.hovered {
		if !inNext[i] {
			t.SetState(i, css.StateHover, false)
		}
	}
	for _, i := range next {
		t.SetState(i, css.StateHover, true)
	}
	ps.hovered = next
}

func (ps *pointerState) down(t *Tree, x, y float64) {
	ps.pressed = hitTest(t, x, y)
	if ps.pressed >= 0 {
		t.SetState(ps.pressed, css.StateActive, true)
	}
}

// up releases the active node and fires its click handler when the
// pointer is still over it.
func (ps *pointerState) up(t *Tree, x, y float64) func() {
	pressed := ps.pressed
	ps.pressed = -1
	if pressed < 0 {
		return nil
	}
	t.SetState(pressed, css.StateActive, false)
	if hitTest(t, x, y) != pressed {
		return nil
	}
	n := &t.nodes[pressed]
	if !n.live || n.state.Has(css.StateDisabled) {
		return nil
	}
	return n.onClick
}

// reconcileTargets drops stale indices after a reconcile pass so a
// destroyed node's slot, when reused, does not inherit pointer state.
func (ps *pointerState) reconcileTargets(t *Tree) {
	kept := ps.hovered[:0]
	for _, i := range ps.hovered {
		if i >= 0 && i < len(t.nodes) && t.nodes[i].live && t.nodes[i].state.Has(css.StateHover) {
			kept = append(kept, i)
		}
	}
	ps.hovered = kept
	if ps.pressed >= 0 && (ps.pressed >= len(t.nodes) || !t.nodes[ps.pressed].live) {
		ps.pressed = -1
	}
}
