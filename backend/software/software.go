// Package software is the CPU rasterizer backend. It renders the full
// command vocabulary into an RGBA surface and is the fallback when no
// accelerated device is available. The accelerated backend reuses the
// raster helpers here for the command kinds it does not batch, which
// keeps the two backends pixel-equivalent.
package software

import (
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/agiangrant/facet/backend"
	"github.com/agiangrant/facet/paint"
)

// Name is the backend identifier.
const Name = "software"

// Renderer rasterizes command lists on the CPU.
type Renderer struct {
	log *zap.Logger
}

var _ backend.Backend = (*Renderer)(nil)

// New creates the software backend. log may be nil.
func New(log *zap.Logger) backend.Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named(Name)}
}

func (r *Renderer) Name() string      { return Name }
func (r *Renderer) Init() error       { return nil }
func (r *Renderer) Accelerated() bool { return false }
func (r *Renderer) Close()            {}

// Present rasterizes the list onto dst, top of the list first so later
// commands overpaint earlier ones.
func (r *Renderer) Present(list *paint.List, dst *backend.Surface) error {
	if dst == nil || dst.W <= 0 || dst.H <= 0 {
		return errors.New("software: nil or empty surface")
	}
	Clear(dst)

	bounds := image.Rect(0, 0, dst.W, dst.H)
	clips := []image.Rectangle{bounds}
	for _, cmd := range list.Commands() {
		clip := clips[len(clips)-1]
		switch cmd.Op {
		case paint.OpFillRect:
			Fill(dst, clip, cmd.Rect, cmd.Color, cmd.Radius)
		case paint.OpStrokeRect:
			Stroke(dst, clip, cmd.Rect, cmd.Color, cmd.StrokeWidth)
		case paint.OpDrawText:
			Text(dst, clip, cmd.Rect, cmd.Text, cmd.Color, cmd.FontSize, cmd.FontWeight)
		case paint.OpDrawImage:
			Image(dst, clip, cmd.Rect, cmd.Image)
		case paint.OpPushClip:
			clips = append(clips, clip.Intersect(PixelRect(cmd.Rect)))
		case paint.OpPopClip:
			if len(clips) == 1 {
				return errors.New("software: clip stack underflow")
			}
			clips = clips[:len(clips)-1]
		}
	}
	return nil
}
