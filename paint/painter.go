package paint

import (
	"errors"
	"fmt"
	"image"

	"github.com/agiangrant/facet/geom"
)

// ErrUnbalancedClip reports a PushClip without its matching PopClip at
// Finish time, or a PopClip with an empty stack.
var ErrUnbalancedClip = errors.New("paint: unbalanced clip stack")

// Painter accumulates draw commands for one frame. It tracks the
// effective clip so fully occluded geometry is culled at record time,
// and enforces push/pop balance.
type Painter struct {
	viewport geom.Rect
	cmds     []Command
	clips    []geom.Rect // effective (pre-intersected) clip stack
	popErr   bool
}

// NewPainter starts a frame covering viewport.
func NewPainter(viewport geom.Rect) *Painter {
	return &Painter{viewport: viewport}
}

// clip returns the current effective clip rectangle.
func (p *Painter) clip() geom.Rect {
	if len(p.clips) == 0 {
		return p.viewport
	}
	return p.clips[len(p.clips)-1]
}

// visible culls geometry that cannot produce pixels.
func (p *Painter) visible(r geom.Rect) bool {
	return !r.Empty() && r.Intersects(p.clip())
}

// FillRect records a filled rectangle with optional corner radius.
func (p *Painter) FillRect(r geom.Rect, c geom.Color, radius float64) {
	if c.IsTransparent() || !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, Command{Op: OpFillRect, Rect: r, Color: c, Radius: radius})
}

// StrokeRect records a rectangle outline.
func (p *Painter) StrokeRect(r geom.Rect, c geom.Color, width float64) {
	if c.IsTransparent() || width <= 0 || !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, Command{Op: OpStrokeRect, Rect: r, Color: c, StrokeWidth: width})
}

// DrawText records a text run anchored at r's top-left, clipped to r.
func (p *Painter) DrawText(r geom.Rect, text string, c geom.Color, size float64, weight int) {
	if text == "" || c.IsTransparent() || size <= 0 || !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, Command{
		Op: OpDrawText, Rect: r, Text: text, Color: c,
		FontSize: size, FontWeight: weight,
	})
}

// DrawImage records an image blit scaled into r.
func (p *Painter) DrawImage(r geom.Rect, img image.Image) {
	if img == nil || !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, Command{Op: OpDrawImage, Rect: r, Image: img})
}

// PushClip narrows the clip region to r intersected with the current
// clip. Every push must be matched by a PopClip before Finish.
func (p *Painter) PushClip(r geom.Rect) {
	eff := r.Intersect(p.clip())
	p.clips = append(p.clips, eff)
	p.cmds = append(p.cmds, Command{Op: OpPushClip, Rect: eff})
}

// PopClip restores the previous clip region.
func (p *Painter) PopClip() {
	if len(p.clips) == 0 {
		p.popErr = true
		return
	}
	p.clips = p.clips[:len(p.clips)-1]
	p.cmds = append(p.cmds, Command{Op: OpPopClip})
}

// Depth returns the current clip nesting, for assertions in tests.
func (p *Painter) Depth() int { return len(p.clips) }

// Finish seals the frame. It fails when clip pushes and pops do not
// balance; the command list is unusable in that case.
func (p *Painter) Finish() (*List, error) {
	if p.popErr {
		return nil, fmt.Errorf("%w: pop on empty stack", ErrUnbalancedClip)
	}
	if len(p.clips) != 0 {
		return nil, fmt.Errorf("%w: %d unpopped clips", ErrUnbalancedClip, len(p.clips))
	}
	l := &List{cmds: p.cmds}
	p.cmds = nil
	return l, nil
}
