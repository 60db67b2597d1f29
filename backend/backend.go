// Package backend defines the renderer contract and the selection
// policy between the accelerated and software implementations. Both
// consume the same command vocabulary and must produce equivalent
// pixels for it.
package backend

import (
	"errors"

	"go.uber.org/zap"

	"github.com/agiangrant/facet/paint"
)

var (
	// ErrInitFailed is recoverable: selection falls back to the
	// software backend without surfacing it to the application.
	ErrInitFailed = errors.New("backend: initialization failed")

	// ErrNoSurface means neither backend can produce pixels. This is
	// the only fatal rendering condition and surfaces at startup.
	ErrNoSurface = errors.New("backend: no rendering path available")
)

// Surface is one frame's pixel target: tightly packed RGBA, stride
// 4*W. The windowing collaborator blits it after Present.
type Surface struct {
	Pix  []uint8
	W, H int
}

// NewSurface allocates a cleared surface.
func NewSurface(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Surface{Pix: make([]uint8, w*h*4), W: w, H: h}
}

// Backend renders sealed command lists onto surfaces.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Init acquires rendering resources. Returning an error wrapping
	// ErrInitFailed triggers fallback during selection.
	Init() error

	// Accelerated reports whether commands execute on the GPU.
	Accelerated() bool

	// Present renders the list onto dst. The list is an immutable
	// snapshot; implementations must not retain it past the call.
	Present(list *paint.List, dst *Surface) error

	// Close releases resources.
	Close()
}

// Factory creates an uninitialized backend.
type Factory func(log *zap.Logger) Backend

// Select tries the candidates in order and returns the first whose
// Init succeeds, closing the failures. Init failure is expected on
// machines without a GPU and is logged, not returned; the error is
// ErrNoSurface only when every candidate fails.
func Select(log *zap.Logger, candidates ...Factory) (Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("backend")
	for _, f := range candidates {
		b := f(log)
		if err := b.Init(); err != nil {
			log.Info("backend unavailable, trying next",
				zap.String("backend", b.Name()),
				zap.Error(err))
			b.Close()
			continue
		}
		log.Info("backend selected",
			zap.String("backend", b.Name()),
			zap.Bool("accelerated", b.Accelerated()))
		return b, nil
	}
	return nil, ErrNoSurface
}
