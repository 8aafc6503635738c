package sketch

import (
	"slices"
	"sync"
	"sync/atomic"
)

// intent is a deferred structural change collected during a pass and applied
// at the next safe point.
type intent uint32

const (
	// intentRemove: an element asked to be removed. Drained at the start of
	// the next RenderAll.
	intentRemove intent = 1 << iota
	// intentReset: an element asked for a scene reset. Consumed by IsResetObject.
	intentReset
)

type intents struct{ bits atomic.Uint32 }

func (s *intents) set(i intent) {
	for {
		old := s.bits.Load()
		if old&uint32(i) != 0 || s.bits.CompareAndSwap(old, old|uint32(i)) {
			return
		}
	}
}

// take clears i and reports whether it was pending.
func (s *intents) take(i intent) bool {
	for {
		old := s.bits.Load()
		if old&uint32(i) == 0 {
			return false
		}
		if s.bits.CompareAndSwap(old, old&^uint32(i)) {
			return true
		}
	}
}

func (s *intents) has(i intent) bool { return s.bits.Load()&uint32(i) != 0 }

// container is implemented by elements that hold their own element list and
// take part in the pick protocol as a subtree rather than as a single target.
type container interface {
	Element
	renderAll(r Renderer, top bool)
	renderSelection(p *Picker, start int, top bool) int
	DispatchPointer(ptr Pointer, selected, base int) int
	IsResetObject() bool
	Reset(r Renderer)
	contains(c *Canvas) bool
	releasePointer(ptr Pointer)
}

// pickEntry is one row of the side table recorded by the pick pass: either a
// tagged element or a nested container whose own table continues the numbering.
// Hidden entries take no pick number and are only told they were not matched.
type pickEntry struct {
	elem   Element
	sub    container
	hidden bool
}

// Canvas is an ordered, transformable container of elements with an optional
// camera, projection, lights and animation manager. A Canvas is itself an
// Element and can be nested in another Canvas.
//
// The element list is copy-on-write: mutators publish a new slice and a pass
// in progress keeps iterating the snapshot it started with. Mutators are safe
// to call from any goroutine. RenderAll, RenderAllForSelection and
// DispatchPointer are not reentrant on the same Canvas.
type Canvas struct {
	BaseElement

	mu       sync.Mutex
	elements atomic.Pointer[[]Element]
	pending  intents

	// Guarded by mu. lights is replaced, never mutated in place.
	camera     *Camera
	projection Projection
	lights     []Light
	matrix     Matrix4
	mode       MatrixMode
	pos        Vec3
	animator   AnimationManager

	// Written by the pick pass, read by DispatchPointer on the same goroutine.
	table []pickEntry
}

// NewCanvas creates an empty canvas.
func NewCanvas(name string) *Canvas {
	c := &Canvas{matrix: Identity4()}
	c.Init(name)
	empty := []Element{}
	c.elements.Store(&empty)
	return c
}

func (c *Canvas) snapshot() []Element {
	if p := c.elements.Load(); p != nil {
		return *p
	}
	return nil
}

// publish stores a new element list. Callers hold c.mu.
func (c *Canvas) publish(list []Element) {
	c.elements.Store(&list)
}

func (c *Canvas) checkElement(e Element) {
	if e == nil {
		panic("sketch: cannot add nil element")
	}
	if sub, ok := e.(container); ok && sub.contains(c) {
		panic("sketch: cannot add a canvas to itself or its descendants")
	}
}

// Add appends e, painting it over every existing element.
func (c *Canvas) Add(e Element) {
	c.checkElement(e)
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	next := make([]Element, len(old), len(old)+1)
	copy(next, old)
	c.publish(append(next, e))
}

// Insert places e at index i, shifting later elements up. i may equal Len.
func (c *Canvas) Insert(i int, e Element) {
	c.checkElement(e)
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	if i < 0 || i > len(old) {
		panic("sketch: element index out of range")
	}
	c.publish(slices.Insert(slices.Clone(old), i, e))
}

// Remove removes and returns the element at index i.
func (c *Canvas) Remove(i int) Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	if i < 0 || i >= len(old) {
		panic("sketch: element index out of range")
	}
	e := old[i]
	c.publish(slices.Delete(slices.Clone(old), i, i+1))
	return e
}

// RemoveElement removes e if present and reports whether it was found.
func (c *Canvas) RemoveElement(e Element) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	i := slices.Index(old, e)
	if i < 0 {
		return false
	}
	c.publish(slices.Delete(slices.Clone(old), i, i+1))
	return true
}

// Clear removes every element.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.publish([]Element{})
	c.mu.Unlock()
}

// Get returns the element at index i.
func (c *Canvas) Get(i int) Element {
	list := c.snapshot()
	if i < 0 || i >= len(list) {
		panic("sketch: element index out of range")
	}
	return list[i]
}

// Len returns the number of elements.
func (c *Canvas) Len() int { return len(c.snapshot()) }

// Elements returns the current element list. The slice is a shared snapshot
// and must not be modified.
func (c *Canvas) Elements() []Element { return c.snapshot() }

// SetCamera sets the camera applied at the start of each pass. nil removes it.
func (c *Canvas) SetCamera(cam *Camera) {
	c.mu.Lock()
	c.camera = cam
	c.mu.Unlock()
}

// Camera returns the canvas camera, or nil.
func (c *Canvas) Camera() *Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}

// AddLight appends a light. Lights are applied in the order they were added.
func (c *Canvas) AddLight(l Light) {
	c.mu.Lock()
	c.lights = append(slices.Clip(c.lights), l)
	c.mu.Unlock()
}

// ClearLights removes every light.
func (c *Canvas) ClearLights() {
	c.mu.Lock()
	c.lights = nil
	c.mu.Unlock()
}

// SetProjection sets the projection. With none, a top-level pass falls back
// to DefaultProjection and a nested canvas inherits its parent's.
func (c *Canvas) SetProjection(p Projection) {
	c.mu.Lock()
	c.projection = p
	c.mu.Unlock()
}

// SetPosition sets the offset applied after the canvas transform.
func (c *Canvas) SetPosition(x, y, z float64) {
	c.mu.Lock()
	c.pos = Vec3{x, y, z}
	c.mu.Unlock()
}

// Position returns the current offset.
func (c *Canvas) Position() Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// ApplyMatrix sets a transform that composes with the inherited one.
func (c *Canvas) ApplyMatrix(m Matrix4) {
	c.mu.Lock()
	c.matrix, c.mode = m, MatrixApply
	c.mu.Unlock()
}

// SetMatrix sets a transform that replaces the inherited one.
func (c *Canvas) SetMatrix(m Matrix4) {
	c.mu.Lock()
	c.matrix, c.mode = m, MatrixLoad
	c.mu.Unlock()
}

// ResetMatrix drops the canvas transform.
func (c *Canvas) ResetMatrix() {
	c.mu.Lock()
	c.matrix, c.mode = Identity4(), MatrixNone
	c.mu.Unlock()
}

// SetAnimator sets the animation manager ticked once per display pass.
func (c *Canvas) SetAnimator(a AnimationManager) {
	c.mu.Lock()
	c.animator = a
	c.mu.Unlock()
}

// LoadMatrix applies the canvas transform to r according to its mode.
func (c *Canvas) LoadMatrix(r Renderer) {
	c.mu.Lock()
	m, mode := c.matrix, c.mode
	c.mu.Unlock()
	loadMatrix(r, m, mode)
}

func loadMatrix(r Renderer, m Matrix4, mode MatrixMode) {
	switch mode {
	case MatrixApply:
		r.ApplyMatrix(m)
	case MatrixLoad:
		r.LoadMatrix(m)
	}
}

// HasPointerCallbacks is always false: a canvas is never a pick target
// itself, its elements are.
func (c *Canvas) HasPointerCallbacks() bool { return false }

// Render draws the canvas as a nested element.
func (c *Canvas) Render(r Renderer, pick bool) {
	if pick {
		if p, ok := r.(*Picker); ok {
			c.renderSelection(p, 0, false)
			return
		}
	}
	c.renderAll(r, false)
}

// canvasSetup is the per-pass copy of the canvas configuration.
type canvasSetup struct {
	camera     *Camera
	projection Projection
	lights     []Light
	matrix     Matrix4
	mode       MatrixMode
	pos        Vec3
}

func (c *Canvas) setup() canvasSetup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return canvasSetup{
		camera:     c.camera,
		projection: c.projection,
		lights:     c.lights,
		matrix:     c.matrix,
		mode:       c.mode,
		pos:        c.pos,
	}
}

// begin applies projection, camera, lights and the canvas transform. The
// caller pops the matrix when done.
func (c *Canvas) begin(r Renderer, st canvasSetup, top bool) {
	switch {
	case st.projection != nil:
		r.SetProjection(st.projection.Matrix(r.Width(), r.Height()))
	case top:
		r.SetProjection(DefaultProjection(r.Width(), r.Height()))
	}
	if st.camera != nil {
		r.SetView(st.camera.ViewMatrix())
	}
	if top {
		r.ClearLights()
	}
	for _, l := range st.lights {
		r.AddLight(l)
	}
	r.PushMatrix()
	loadMatrix(r, st.matrix, st.mode)
	if st.pos != (Vec3{}) {
		r.Translate(st.pos.X, st.pos.Y, st.pos.Z)
	}
}

// RenderAll runs the display pass for this canvas as a top-level canvas.
func (c *Canvas) RenderAll(r Renderer) {
	c.renderAll(r, true)
}

func (c *Canvas) renderAll(r Renderer, top bool) {
	if c.pending.take(intentRemove) {
		c.dropRemoved()
	}

	c.mu.Lock()
	anim := c.animator
	c.mu.Unlock()
	if anim != nil {
		anim.Tick()
	}

	st := c.setup()
	c.begin(r, st, top)
	defer r.PopMatrix()

	for _, e := range c.snapshot() {
		if e.Visible() {
			e.Render(r, false)
		}
		if e.RemoveRequested() {
			c.pending.set(intentRemove)
		}
		if e.ResetRequested() {
			c.pending.set(intentReset)
			e.ClearResetRequest()
		}
	}
}

// dropRemoved publishes a list without the elements that requested removal.
func (c *Canvas) dropRemoved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	next := make([]Element, 0, len(old))
	for _, e := range old {
		if !e.RemoveRequested() {
			next = append(next, e)
		}
	}
	if len(next) != len(old) {
		c.publish(next)
	}
}

// RenderAllForSelection runs the pick pass for this canvas as a top-level
// canvas. Every visible element with pointer callbacks is numbered from
// start, tagged with its number and drawn in pick mode. Elements without
// callbacks are drawn untagged. Hidden elements with callbacks are not drawn
// or numbered but are still notified by DispatchPointer. Returns the next
// free number.
func (c *Canvas) RenderAllForSelection(p *Picker, start int) int {
	return c.renderSelection(p, start, true)
}

func (c *Canvas) renderSelection(p *Picker, start int, top bool) int {
	st := c.setup()
	c.begin(p, st, top)
	defer p.PopMatrix()

	c.table = c.table[:0]
	next := start
	for _, e := range c.snapshot() {
		if !e.Visible() {
			if sub, ok := e.(container); ok {
				c.table = append(c.table, pickEntry{sub: sub, hidden: true})
			} else if e.HasPointerCallbacks() {
				c.table = append(c.table, pickEntry{elem: e, hidden: true})
			}
			continue
		}
		if sub, ok := e.(container); ok {
			c.table = append(c.table, pickEntry{sub: sub})
			next = sub.renderSelection(p, next, false)
			continue
		}
		if !e.HasPointerCallbacks() {
			p.ClearName()
			e.Render(p, true)
			continue
		}
		c.table = append(c.table, pickEntry{elem: e})
		p.SetName(int32(next))
		p.addTarget(next, e)
		e.Render(p, true)
		p.ClearName()
		next++
	}
	return next
}

// DispatchPointer notifies every element tagged by the last pick pass. The
// element numbered selected, counting from base, receives matched == true
// and every other one matched == false. selected == -1 means no hit. Hidden
// elements with callbacks are notified with matched == false so that hover
// and press state ends. Returns base plus the number of tagged elements, so
// calls can be chained across canvases in pick order.
func (c *Canvas) DispatchPointer(ptr Pointer, selected, base int) int {
	for _, entry := range c.table {
		if entry.hidden {
			if entry.sub != nil {
				entry.sub.releasePointer(ptr)
			} else {
				entry.elem.TriggerPointerEvent(ptr, false)
			}
			continue
		}
		if entry.sub != nil {
			base = entry.sub.DispatchPointer(ptr, selected, base)
			continue
		}
		entry.elem.TriggerPointerEvent(ptr, base == selected)
		base++
	}
	return base
}

// IsResetObject reports whether this canvas or any nested canvas has a
// pending reset request, clearing every flag it visits.
func (c *Canvas) IsResetObject() bool {
	reset := c.pending.take(intentReset)
	for _, e := range c.snapshot() {
		if sub, ok := e.(container); ok && sub.IsResetObject() {
			reset = true
		}
	}
	return reset
}

// Reset invokes Reset on every element implementing Resetter and recurses
// into nested canvases.
func (c *Canvas) Reset(r Renderer) {
	for _, e := range c.snapshot() {
		switch v := e.(type) {
		case container:
			v.Reset(r)
		case Resetter:
			v.Reset(r)
		}
	}
}

func (c *Canvas) contains(target *Canvas) bool {
	if c == target {
		return true
	}
	for _, e := range c.snapshot() {
		if sub, ok := e.(container); ok && sub.contains(target) {
			return true
		}
	}
	return false
}

// releasePointer notifies every element with callbacks in this subtree that
// it was not matched. Used while the canvas itself is hidden.
func (c *Canvas) releasePointer(ptr Pointer) {
	for _, e := range c.snapshot() {
		if sub, ok := e.(container); ok {
			sub.releasePointer(ptr)
			continue
		}
		if e.HasPointerCallbacks() {
			e.TriggerPointerEvent(ptr, false)
		}
	}
}

// removeRequestPending reports whether a removal is queued for the next
// display pass.
func (c *Canvas) removeRequestPending() bool { return c.pending.has(intentRemove) }
