package sketch

import (
	"slices"
	"sync"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tweener is an animation driver advanced once per frame by RootCanvas or by
// an Animator. dt is the frame step in seconds.
type Tweener interface {
	Update(dt float32)
}

// TweenerFunc adapts a function to the Tweener interface. Function values are
// not comparable, so a TweenerFunc cannot be unregistered with Remove or
// RemoveTweener; use RemoveAllTweeners or a pointer type instead.
type TweenerFunc func(dt float32)

// Update calls f(dt).
func (f TweenerFunc) Update(dt float32) { f(dt) }

// AnimationManager is the per-Canvas animation hook: Tick is called once at
// the start of every display pass of the owning Canvas.
type AnimationManager interface {
	Tick()
}

// TweenGroup animates up to 4 float64 values simultaneously and hands the
// current values to an apply function every update. Create one via the
// convenience constructors (TweenFloat, TweenPosition, TweenColor,
// TweenCanvasPosition). If the target element has requested removal, the
// group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	vals   [4]float64
	apply  func(vals []float64)
	target removable
	Done   bool
}

// removable is satisfied by anything that can request its own removal.
type removable interface {
	RemoveRequested() bool
}

func newTweenGroup(target removable, from, to []float64, duration float32, fn ease.TweenFunc, apply func([]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: target, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the new values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.RemoveRequested() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.vals[:g.count])
}

// Finished reports whether every tween in the group has completed.
func (g *TweenGroup) Finished() bool {
	return g.Done
}

// TweenFloat animates a single float64 field.
func TweenFloat(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, []float64{*field}, []float64{to}, duration, fn, func(v []float64) {
		*field = v[0]
	})
}

// TweenPosition animates a shape's X and Y to the given target coordinates.
func TweenPosition(s *Shape, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(s, []float64{s.X, s.Y}, []float64{toX, toY}, duration, fn, func(v []float64) {
		s.X, s.Y = v[0], v[1]
	})
}

// TweenColor animates all four components of a color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil,
		[]float64{c.R, c.G, c.B, c.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn, func(v []float64) {
			*c = Color{v[0], v[1], v[2], v[3]}
		})
}

// TweenCanvasPosition animates a canvas position offset.
func TweenCanvasPosition(c *Canvas, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := c.Position()
	return newTweenGroup(c,
		[]float64{from.X, from.Y, from.Z},
		[]float64{to.X, to.Y, to.Z},
		duration, fn, func(v []float64) {
			c.SetPosition(v[0], v[1], v[2])
		})
}

// Animator is the default AnimationManager: it owns a set of tweeners and
// advances them by a fixed step on every Tick. Tweeners that report
// completion through a Finished method are dropped after their final update.
// Add and Remove are safe to call concurrently with Tick.
type Animator struct {
	mu     sync.Mutex
	tweens []Tweener
	step   float32
}

// NewAnimator creates an animator stepping at tps ticks per second.
func NewAnimator(tps int) *Animator {
	if tps <= 0 {
		tps = defaultTPS
	}
	return &Animator{step: 1 / float32(tps)}
}

// Add registers a tweener.
func (a *Animator) Add(t Tweener) {
	a.mu.Lock()
	a.tweens = append(a.tweens, t)
	a.mu.Unlock()
}

// Remove unregisters a tweener. No-op if it is not registered.
func (a *Animator) Remove(t Tweener) {
	a.mu.Lock()
	if i := slices.Index(a.tweens, t); i >= 0 {
		a.tweens = slices.Delete(a.tweens, i, i+1)
	}
	a.mu.Unlock()
}

// Len returns the number of registered tweeners.
func (a *Animator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tweens)
}

// Tick advances every registered tweener by one step.
func (a *Animator) Tick() {
	a.mu.Lock()
	active := slices.Clone(a.tweens)
	a.mu.Unlock()

	var finished []Tweener
	for _, t := range active {
		t.Update(a.step)
		if f, ok := t.(interface{ Finished() bool }); ok && f.Finished() {
			finished = append(finished, t)
		}
	}
	for _, t := range finished {
		a.Remove(t)
	}
}
