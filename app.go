package facet

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/agiangrant/facet/backend"
	"github.com/agiangrant/facet/backend/gpu"
	"github.com/agiangrant/facet/backend/software"
	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/paint"
	"github.com/agiangrant/facet/theme"
)

// Builder describes the desired widget tree for one frame. It must be
// a pure function of application state: the core calls it every frame
// and reconciles the result against the retained tree.
type Builder func() *Widget

// Option configures an App.
type Option func(*App)

// WithTitle sets the window title reported to the windowing layer.
func WithTitle(title string) Option {
	return func(a *App) { a.title = title }
}

// WithTheme sets the theme mode. ModeAuto resolves against the OS
// preference before the first frame.
func WithTheme(m theme.Mode) Option {
	return func(a *App) { a.mode = m }
}

// WithOSPrefersDark supplies the OS dark-mode preference used to
// resolve ModeAuto.
func WithOSPrefersDark(dark bool) Option {
	return func(a *App) { a.osPrefersDark = dark }
}

// WithStyleSheet sets the initial stylesheet source.
func WithStyleSheet(src string) Option {
	return func(a *App) { a.initialSheet = src }
}

// WithTokenFile loads theme.toml token overrides at startup.
func WithTokenFile(path string) Option {
	return func(a *App) { a.tokenFile = path }
}

// WithSize sets the initial viewport in pixels.
func WithSize(w, h int) Option {
	return func(a *App) { a.viewport = geom.Size{W: float64(w), H: float64(h)} }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithBackends overrides the renderer candidates tried at startup, in
// order. The default is accelerated first, software fallback.
func WithBackends(factories ...backend.Factory) Option {
	return func(a *App) { a.backendFactories = factories }
}

// App drives the frame pipeline: drain input, apply async results,
// reconcile the described tree, resolve styles, lay out, paint, and
// present. Each frame is atomic; no phase spans frames.
type App struct {
	log   *zap.Logger
	title string

	mode          theme.Mode
	osPrefersDark bool
	tokens        theme.Tokens
	tokenFile     string

	initialSheet string

	mu           sync.Mutex
	pendingSheet *css.Stylesheet

	sheet   *css.Stylesheet
	tree    *Tree
	builder Builder
	pointer pointerState
	queue   eventQueue
	images  *imageStore

	viewport geom.Size

	backendFactories []backend.Factory
	renderer         backend.Backend
	surface          *backend.Surface
	lastList         *paint.List

	// Diagnostics receives non-fatal resource errors (failed image
	// decodes, stylesheet diagnostics). Nil means drop them.
	Diagnostics func(error)
}

// New configures an App and selects a renderer backend. It fails only
// when no backend can produce pixels.
func New(builder Builder, opts ...Option) (*App, error) {
	a := &App{
		title:    "facet",
		mode:     theme.ModeAuto,
		viewport: geom.Size{W: 800, H: 600},
		tree:     NewTree(),
		builder:  builder,
		pointer:  newPointerState(),
		images:   newImageStore(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.log = a.log.Named("facet")

	a.tokens = theme.ForMode(theme.Resolve(a.mode, a.osPrefersDark))
	if a.tokenFile != "" {
		tok, err := theme.LoadTokens(a.tokenFile, a.tokens)
		if err != nil {
			return nil, err
		}
		a.tokens = tok
	}

	if a.initialSheet != "" {
		if err := a.LoadStyleSheet(a.initialSheet); err != nil {
			a.report(err)
		}
	}

	factories := a.backendFactories
	if len(factories) == 0 {
		factories = []backend.Factory{gpu.New, software.New}
	}
	r, err := backend.Select(a.log, factories...)
	if err != nil {
		return nil, err
	}
	a.renderer = r
	a.surface = backend.NewSurface(int(a.viewport.W), int(a.viewport.H))
	return a, nil
}

// Close releases the renderer.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
}

// Title returns the configured window title.
func (a *App) Title() string { return a.title }

// Accelerated reports whether the selected backend runs on the GPU.
func (a *App) Accelerated() bool { return a.renderer.Accelerated() }

// Tokens returns the resolved design tokens.
func (a *App) Tokens() theme.Tokens { return a.tokens }

// BoxOf returns the laid-out frame of the widget with the given key,
// in viewport coordinates. It reflects the most recent frame.
func (a *App) BoxOf(key string) (geom.Rect, bool) {
	found := false
	var box geom.Rect
	a.tree.Walk(func(idx int) {
		if !found && a.tree.nodes[idx].key == key {
			box = a.tree.nodes[idx].box
			found = true
		}
	})
	return box, found
}

// PushEvent queues an input event from the windowing layer. Safe to
// call from any goroutine; the event takes effect at the next frame.
func (a *App) PushEvent(e Event) {
	a.queue.push(e)
}

// LoadStyleSheet parses src and swaps it in atomically at the next
// frame boundary. Per-rule diagnostics are reported, not fatal; the
// parsed rules still load. A sheet where every rule failed returns an
// error and leaves the active sheet in place.
func (a *App) LoadStyleSheet(src string) error {
	sheet, err := css.NewParser(a.log).Parse([]byte(src))
	if err != nil {
		a.report(err)
	}
	if len(sheet.Rules) == 0 && err != nil {
		return fmt.Errorf("facet: stylesheet has no usable rules: %w", err)
	}
	a.mu.Lock()
	a.pendingSheet = sheet
	a.mu.Unlock()
	return nil
}

// SetTheme switches the token set and invalidates every style.
func (a *App) SetTheme(m theme.Mode) {
	a.mode = m
	a.tokens = theme.ForMode(theme.Resolve(m, a.osPrefersDark))
	a.invalidateStyles()
}

// LoadImage decodes r asynchronously and binds the result to key. A
// newer load for the same key supersedes this one; the stale result is
// discarded when it completes. The decoded image appears at the next
// frame boundary.
func (a *App) LoadImage(key string, r io.Reader) {
	a.images.load(key, r)
}

// Frame runs one atomic frame and returns the presented surface. The
// surface is valid until the next Frame call.
func (a *App) Frame() (*backend.Surface, error) {
	// 1. Apply cross-frame inputs: stylesheet swap, async resources,
	// queued events.
	a.mu.Lock()
	if a.pendingSheet != nil {
		a.sheet = a.pendingSheet
		a.pendingSheet = nil
		a.mu.Unlock()
		a.invalidateStyles()
	} else {
		a.mu.Unlock()
	}

	if changed := a.images.apply(a.report); len(changed) > 0 {
		a.invalidateImages(changed)
	}

	var clicks []func()
	for _, e := range a.queue.drain() {
		switch e.Kind {
		case EventPointerMove:
			a.pointer.move(a.tree, e.X, e.Y)
		case EventPointerDown:
			a.pointer.down(a.tree, e.X, e.Y)
		case EventPointerUp:
			if fn := a.pointer.up(a.tree, e.X, e.Y); fn != nil {
				clicks = append(clicks, fn)
			}
		case EventResize:
			a.resize(e.W, e.H)
		}
	}
	// Click handlers mutate application state, so they run before the
	// tree is rebuilt.
	for _, fn := range clicks {
		fn()
	}

	// 2. Rebuild and reconcile the described tree.
	a.tree.Reconcile(a.builder())
	a.pointer.reconcileTargets(a.tree)

	// 3. Style, layout, paint phases in strict order.
	resolveStyles(a.tree, a.sheet, a.tokens)
	layoutTree(a.tree, a.viewport, a.images)

	// Nothing paint-dirty: the presented surface is still current.
	if a.lastList != nil && !a.tree.anyPaintDirty() {
		return a.surface, nil
	}

	p := paint.NewPainter(geom.Rect{W: a.viewport.W, H: a.viewport.H})
	// The window clears to the theme background under the tree.
	p.FillRect(geom.Rect{W: a.viewport.W, H: a.viewport.H}, a.tokens.Colors.Background, 0)
	paintTree(a.tree, p, a.images)
	list, err := p.Finish()
	if err != nil {
		return nil, err
	}

	// 4. Present.
	if err := a.renderer.Present(list, a.surface); err != nil {
		return nil, err
	}
	a.lastList = list
	return a.surface, nil
}

func (a *App) resize(w, h float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	next := geom.Size{W: w, H: h}
	if next == a.viewport {
		return
	}
	a.viewport = next
	a.surface = backend.NewSurface(int(w), int(h))
	if a.tree.root >= 0 {
		a.tree.MarkDirty(a.tree.root, DirtyLayout)
	}
}

func (a *App) invalidateStyles() {
	a.tree.Walk(func(idx int) {
		a.tree.nodes[idx].dirty |= DirtyStyle.normalize()
	})
}

func (a *App) invalidateImages(keys map[string]bool) {
	a.tree.Walk(func(idx int) {
		if n := &a.tree.nodes[idx]; n.kind == KindImage && keys[n.imageSource] {
			a.tree.MarkDirty(idx, DirtyLayout)
		}
	})
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.log.Warn("diagnostic", zap.Error(err))
	if a.Diagnostics != nil {
		a.Diagnostics(err)
	}
}

// imageStore tracks asynchronous image loads. Decodes happen on their
// own goroutines; results land in the store and are applied at the
// next frame boundary. Only the latest request per key wins.
type imageStore struct {
	mu      sync.Mutex
	gen     map[string]uint64
	results []imageResult
	images  map[string]image.Image
}

type imageResult struct {
	key string
	gen uint64
	img image.Image
	err error
}

func newImageStore() *imageStore {
	return &imageStore{
		gen:    make(map[string]uint64),
		images: make(map[string]image.Image),
	}
}

func (s *imageStore) load(key string, r io.Reader) {
	s.mu.Lock()
	s.gen[key]++
	gen := s.gen[key]
	s.mu.Unlock()

	go func() {
		img, err := imaging.Decode(r)
		s.mu.Lock()
		s.results = append(s.results, imageResult{key: key, gen: gen, img: img, err: err})
		s.mu.Unlock()
	}()
}

// apply moves completed decodes into the visible map and returns the
// keys that changed. Superseded results are dropped.
func (s *imageStore) apply(report func(error)) map[string]bool {
	s.mu.Lock()
	results := s.results
	s.results = nil
	changed := make(map[string]bool)
	for _, r := range results {
		if r.gen != s.gen[r.key] {
			continue
		}
		if r.err != nil {
			s.mu.Unlock()
			report(fmt.Errorf("facet: decode image %q: %w", r.key, r.err))
			s.mu.Lock()
			continue
		}
		s.images[r.key] = r.img
		changed[r.key] = true
	}
	s.mu.Unlock()
	return changed
}

// lookup resolves a node's image: an inline image wins, otherwise the
// store's latest decode for the key.
func (s *imageStore) lookup(key string, inline image.Image) image.Image {
	if inline != nil {
		return inline
	}
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[key]
}
