package sketch

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// defaultTPS is the tick rate used when none is configured.
const defaultTPS = 60

// EntityStore is the interface for optional ECS integration. When set on a
// RootCanvas, pointer notifications for elements with a non-zero EntityID
// are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Status    PointerStatus
	EntityID  uint32
	ElementID uint32
	X, Y      float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// RootConfig configures a RootCanvas. Zero fields select the defaults.
type RootConfig struct {
	// PickCapacity bounds the pick records kept per frame. Default 1<<20.
	PickCapacity int
	// PickRegion is the side of the square pick region centered on the
	// pointer, in pixels. Default 5.
	PickRegion float64
	// TPS is the tick rate used to step tweeners. Default 60.
	TPS int
}

// RootCanvas is the top-level Canvas of a drawing surface. It owns the
// background, a list of attached canvases rendered after its own elements,
// the tweeners advanced every frame, and the pick buffer.
//
// Render and Reset are mutually exclusive. The attached-canvas and tweener
// sets may be changed from any goroutine, including from inside element
// callbacks; a frame uses the sets as they were when it started.
type RootCanvas struct {
	*Canvas

	frameMu sync.Mutex
	picker  *Picker
	step    float32

	setsMu     sync.Mutex
	canvases   []*Canvas
	tweeners   []Tweener
	background Background
	store      EntityStore

	debug atomic.Bool
	stats atomic.Pointer[FrameStats]
}

// NewRootCanvas creates a root canvas.
func NewRootCanvas(cfg RootConfig) *RootCanvas {
	tps := cfg.TPS
	if tps <= 0 {
		tps = defaultTPS
	}
	r := &RootCanvas{
		Canvas: NewCanvas("root"),
		picker: NewPicker(cfg.PickCapacity, cfg.PickRegion),
		step:   1 / float32(tps),
	}
	r.stats.Store(&FrameStats{Selected: -1})
	return r
}

// SetDebugMode enables per-frame stats logging and tree checks.
func (r *RootCanvas) SetDebugMode(enabled bool) {
	r.debug.Store(enabled)
}

// SetEntityStore sets the optional ECS bridge. nil disables it.
func (r *RootCanvas) SetEntityStore(store EntityStore) {
	r.setsMu.Lock()
	r.store = store
	r.setsMu.Unlock()
}

// SetBackground sets the background painted at the start of each frame. nil
// leaves the frame as the surface provides it.
func (r *RootCanvas) SetBackground(bg Background) {
	r.setsMu.Lock()
	r.background = bg
	r.setsMu.Unlock()
}

// Background returns the current background, or nil.
func (r *RootCanvas) Background() Background {
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	return r.background
}

// AddCanvas attaches c. Attached canvases render after the root's own
// elements, in attachment order, and continue its pick numbering.
//
// A canvas may appear only once in the frame tree: AddCanvas panics if c is
// the root, is nested under the root or another attached canvas, or itself
// contains one of them. Attaching an already attached canvas is a no-op.
func (r *RootCanvas) AddCanvas(c *Canvas) {
	if c == nil {
		panic("sketch: cannot attach nil canvas")
	}
	if c == r.Canvas {
		panic("sketch: cannot attach a root canvas to itself")
	}
	if r.Canvas.contains(c) || c.contains(r.Canvas) {
		panic("sketch: cannot attach a canvas that shares elements with the root")
	}
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	if slices.Contains(r.canvases, c) {
		return
	}
	for _, a := range r.canvases {
		if a.contains(c) || c.contains(a) {
			panic("sketch: cannot attach a canvas nested in another attached canvas")
		}
	}
	r.canvases = append(slices.Clip(r.canvases), c)
}

// RemoveCanvas detaches c. No-op if c is not attached.
func (r *RootCanvas) RemoveCanvas(c *Canvas) {
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	if i := slices.Index(r.canvases, c); i >= 0 {
		r.canvases = slices.Delete(slices.Clone(r.canvases), i, i+1)
	}
}

// RemoveAllCanvases detaches every canvas.
func (r *RootCanvas) RemoveAllCanvases() {
	r.setsMu.Lock()
	r.canvases = nil
	r.setsMu.Unlock()
}

// Canvases returns the attached canvases in order.
func (r *RootCanvas) Canvases() []*Canvas {
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	return slices.Clone(r.canvases)
}

// AddTweener registers t. Registered tweeners are advanced by one tick at
// the start of every frame until removed.
func (r *RootCanvas) AddTweener(t Tweener) {
	if t == nil {
		panic("sketch: cannot add nil tweener")
	}
	r.setsMu.Lock()
	r.tweeners = append(slices.Clip(r.tweeners), t)
	r.setsMu.Unlock()
}

// RemoveTweener unregisters t. No-op if t is not registered.
func (r *RootCanvas) RemoveTweener(t Tweener) {
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	if i := slices.Index(r.tweeners, t); i >= 0 {
		r.tweeners = slices.Delete(slices.Clone(r.tweeners), i, i+1)
	}
}

// RemoveAllTweeners unregisters every tweener.
func (r *RootCanvas) RemoveAllTweeners() {
	r.setsMu.Lock()
	r.tweeners = nil
	r.setsMu.Unlock()
}

// Tweeners returns the registered tweeners.
func (r *RootCanvas) Tweeners() []Tweener {
	r.setsMu.Lock()
	defer r.setsMu.Unlock()
	return slices.Clone(r.tweeners)
}

// Picker returns the pick buffer. Its contents describe the last frame and
// are only stable between Render calls.
func (r *RootCanvas) Picker() *Picker { return r.picker }

// Stats returns the metrics of the last frame.
func (r *RootCanvas) Stats() FrameStats { return *r.stats.Load() }

// Render runs one frame with the pointer at (x, y) and no button held.
// Returns the selected pick index, or -1.
func (r *RootCanvas) Render(s Surface, x, y float64) int {
	return r.RenderPointer(s, Pointer{X: x, Y: y})
}

// RenderPointer runs one frame: advance tweeners, paint the background, run
// the display pass over the root and every attached canvas, run the pick
// pass around the pointer, decode the selected index and dispatch pointer
// notifications. Returns the selected pick index, or -1.
func (r *RootCanvas) RenderPointer(s Surface, ptr Pointer) int {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	r.setsMu.Lock()
	canvases := r.canvases
	tweeners := r.tweeners
	bg := r.background
	ptr.store = r.store
	r.setsMu.Unlock()

	var stats FrameStats
	debug := r.debug.Load()
	if debug {
		debugCheckTree(r.Canvas, 0)
	}

	// Animate.
	t0 := time.Now()
	for _, tw := range tweeners {
		tw.Update(r.step)
	}
	t1 := time.Now()
	stats.AnimateTime = t1.Sub(t0)

	// Paint.
	s.BeginFrame()
	if bg != nil {
		bg.Draw(s)
	}
	r.Canvas.RenderAll(s)
	for _, c := range canvases {
		c.RenderAll(s)
	}
	t2 := time.Now()
	stats.PaintTime = t2.Sub(t1)

	// Pick.
	p := r.picker
	p.Begin(s.Width(), s.Height(), ptr.X, ptr.Y)
	next := r.Canvas.RenderAllForSelection(p, 0)
	for _, c := range canvases {
		next = c.RenderAllForSelection(p, next)
	}
	hits, _ := p.End()
	t3 := time.Now()
	stats.PickTime = t3.Sub(t2)

	// Decode.
	selected := -1
	if hits > 0 {
		selected = p.Selected()
	}

	// Dispatch.
	base := r.Canvas.DispatchPointer(ptr, selected, 0)
	for _, c := range canvases {
		base = c.DispatchPointer(ptr, selected, base)
	}
	stats.DispatchTime = time.Since(t3)

	stats.Tagged = next
	stats.Hits = hits
	stats.PickOverflow = p.Overflow()
	stats.Selected = selected
	r.stats.Store(&stats)

	debugCheckOverflow(stats, p.Capacity())
	if debug {
		r.debugLog(stats)
	}
	return selected
}

// Reset invokes Reset on every element of the root and every attached canvas
// that implements Resetter, recursing into nested canvases.
func (r *RootCanvas) Reset(rd Renderer) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	canvases := r.Canvases()
	r.Canvas.Reset(rd)
	for _, c := range canvases {
		c.Reset(rd)
	}
	Logger().Info("scene reset", "canvases", len(canvases)+1)
}

// TakeReset reports whether any element of the root or an attached canvas
// requested a reset since the last call, consuming the requests.
func (r *RootCanvas) TakeReset() bool {
	reset := r.Canvas.IsResetObject()
	for _, c := range r.Canvases() {
		if c.IsResetObject() {
			reset = true
		}
	}
	return reset
}
