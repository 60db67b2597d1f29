package gpu

import (
	"errors"
	"image"
	"math"

	"go.uber.org/zap"

	"github.com/agiangrant/facet/backend"
	"github.com/agiangrant/facet/backend/software"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/paint"
)

// Present executes the command list. Consecutive rectangle commands
// under the same clip accumulate into one batch and dispatch together;
// text and images flush the batch first so paint order is preserved,
// then composite through the shared raster helpers.
func (r *Renderer) Present(list *paint.List, dst *backend.Surface) error {
	if dst == nil || dst.W <= 0 || dst.H <= 0 {
		return errors.New("gpu: nil or empty surface")
	}
	software.Clear(dst)

	bounds := image.Rect(0, 0, dst.W, dst.H)
	clips := []image.Rectangle{bounds}
	var batch []rectShape

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.dispatch(batch, dst)
		batch = batch[:0]
		return err
	}

	for _, cmd := range list.Commands() {
		clip := clips[len(clips)-1]
		switch cmd.Op {
		case paint.OpFillRect:
			batch = append(batch, makeShape(cmd.Rect, clip, cmd.Radius, cmd.Color))
		case paint.OpStrokeRect:
			for _, edge := range strokeEdges(cmd.Rect, cmd.StrokeWidth) {
				batch = append(batch, makeShape(edge, clip, 0, cmd.Color))
			}
		case paint.OpDrawText:
			if err := flush(); err != nil {
				return err
			}
			software.Text(dst, clip, cmd.Rect, cmd.Text, cmd.Color, cmd.FontSize, cmd.FontWeight)
		case paint.OpDrawImage:
			if err := flush(); err != nil {
				return err
			}
			software.Image(dst, clip, cmd.Rect, cmd.Image)
		case paint.OpPushClip:
			clips = append(clips, clip.Intersect(software.PixelRect(cmd.Rect)))
		case paint.OpPopClip:
			if len(clips) == 1 {
				return errors.New("gpu: clip stack underflow")
			}
			clips = clips[:len(clips)-1]
		}
	}
	return flush()
}

// makeShape snaps geometry exactly the way software.Fill does, so both
// rasterization paths cover the same pixels.
func makeShape(r geom.Rect, clip image.Rectangle, radius float64, c geom.Color) rectShape {
	pr := software.PixelRect(r)
	maxRadius := math.Min(float64(pr.Dx()), float64(pr.Dy())) / 2
	if radius > maxRadius {
		radius = maxRadius
	}
	if radius < 0 {
		radius = 0
	}
	return rectShape{
		RectX: float32(pr.Min.X), RectY: float32(pr.Min.Y),
		RectW: float32(pr.Dx()), RectH: float32(pr.Dy()),
		ClipX: float32(clip.Min.X), ClipY: float32(clip.Min.Y),
		ClipW: float32(clip.Dx()), ClipH: float32(clip.Dy()),
		Radius: float32(radius),
		ColorR: colorComponent(c.R), ColorG: colorComponent(c.G),
		ColorB: colorComponent(c.B), ColorA: colorComponent(c.A),
	}
}

// strokeEdges decomposes an outline into four inward edge fills,
// mirroring software.Stroke.
func strokeEdges(r geom.Rect, width float64) []geom.Rect {
	if width <= 0 {
		return nil
	}
	w := math.Min(width, math.Min(r.W, r.H)/2)
	return []geom.Rect{
		{X: r.X, Y: r.Y, W: r.W, H: w},
		{X: r.X, Y: r.Y + r.H - w, W: r.W, H: w},
		{X: r.X, Y: r.Y + w, W: w, H: r.H - 2*w},
		{X: r.X + r.W - w, Y: r.Y + w, W: w, H: r.H - 2*w},
	}
}

// dispatch runs one batch on the device, or through the CPU mirror of
// the kernel when the device is unavailable. A failed GPU dispatch
// degrades to the mirror rather than losing the frame.
func (r *Renderer) dispatch(batch []rectShape, dst *backend.Surface) error {
	r.mu.Lock()
	ready := r.gpuReady
	r.mu.Unlock()

	if !ready {
		dispatchCPU(batch, dst)
		return nil
	}
	if err := r.dispatchGPU(batch, dst); err != nil {
		r.log.Warn("batch dispatch failed, using software mirror",
			zap.Int("shapes", len(batch)),
			zap.Error(err))
		dispatchCPU(batch, dst)
	}
	return nil
}

// dispatchCPU replays the batch through the shared fill routine. The
// kernel implements the same arithmetic, so outputs are byte-equal.
func dispatchCPU(batch []rectShape, dst *backend.Surface) {
	for _, s := range batch {
		clip := image.Rect(
			int(s.ClipX), int(s.ClipY),
			int(s.ClipX+s.ClipW), int(s.ClipY+s.ClipH),
		)
		rect := geom.Rect{
			X: float64(s.RectX), Y: float64(s.RectY),
			W: float64(s.RectW), H: float64(s.RectH),
		}
		c := geom.RGBA(uint8(s.ColorR), uint8(s.ColorG), uint8(s.ColorB), uint8(s.ColorA))
		software.Fill(dst, clip, rect, c, float64(s.Radius))
	}
}
