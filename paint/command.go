// Package paint turns laid-out, styled nodes into ordered draw
// commands. Commands are emitted back to front (parent before
// children, siblings in child order) and carry fully resolved paint;
// no style lookups happen downstream.
package paint

import (
	"image"

	"github.com/agiangrant/facet/geom"
)

// Op identifies a draw command variant.
type Op uint8

const (
	OpFillRect Op = iota
	OpStrokeRect
	OpDrawText
	OpDrawImage
	OpPushClip
	OpPopClip
)

func (o Op) String() string {
	switch o {
	case OpFillRect:
		return "FillRect"
	case OpStrokeRect:
		return "StrokeRect"
	case OpDrawText:
		return "DrawText"
	case OpDrawImage:
		return "DrawImage"
	case OpPushClip:
		return "PushClip"
	case OpPopClip:
		return "PopClip"
	}
	return "unknown"
}

// Command is one primitive draw operation in absolute pixels. Which
// fields are meaningful depends on Op.
type Command struct {
	Op   Op
	Rect geom.Rect

	// FillRect / StrokeRect / DrawText
	Color       geom.Color
	Radius      float64 // FillRect corner radius
	StrokeWidth float64 // StrokeRect

	// DrawText
	Text       string
	FontSize   float64
	FontWeight int

	// DrawImage
	Image image.Image
}

// List is an immutable snapshot of one frame's commands. Once sealed
// by Painter.Finish it is handed to a backend and never mutated, so
// submission may overlap the next frame's CPU work.
type List struct {
	cmds []Command
}

// Commands returns the command sequence. Callers must not modify it.
func (l *List) Commands() []Command {
	if l == nil {
		return nil
	}
	return l.cmds
}

// Len returns the number of commands.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.cmds)
}
