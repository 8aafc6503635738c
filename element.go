package sketch

import (
	"sync"
	"sync/atomic"
)

// Element is a drawable leaf of a Canvas. Insertion order in the owning
// Canvas is paint order: later elements paint over earlier ones.
//
// Render draws the element. pick is true during the pick pass, where draw
// calls only determine which element is under the pointer; an element may
// draw a simplified silhouette in that case.
//
// An element with no pointer callbacks is never a pick target.
type Element interface {
	Render(r Renderer, pick bool)
	Visible() bool
	RemoveRequested() bool
	ResetRequested() bool
	ClearResetRequest()
	HasPointerCallbacks() bool
	TriggerPointerEvent(p Pointer, matched bool)
}

// Resetter is implemented by elements that can reinitialize themselves when
// RootCanvas.Reset runs.
type Resetter interface {
	Reset(r Renderer)
}

// PointerEvent carries pointer event data to element callbacks.
type PointerEvent struct {
	ID       uint32
	Name     string
	EntityID uint32
	UserData any
	Status   PointerStatus
	// X and Y are the pointer position in surface coordinates.
	X, Y float64
	// DeltaX and DeltaY are the movement since the previous frame.
	DeltaX, DeltaY float64
	Button         MouseButton
	Pressed        bool
	Modifiers      KeyModifiers
	// Matched reports whether this element was the selected pick target.
	Matched bool
}

// elementIDCounter is shared by every BaseElement.
var elementIDCounter atomic.Uint32

func nextElementID() uint32 {
	return elementIDCounter.Add(1)
}

type pointerHandler struct {
	id     uint32
	status PointerStatus
	fn     func(PointerEvent)
}

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id    uint32
	owner *BaseElement
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.owner == nil {
		return
	}
	h.owner.removeHandler(h.id)
}

// BaseElement implements the bookkeeping half of Element: visibility, the
// remove/reset request flags, callback registration and the pointer state
// machine. Embed it and provide Render.
//
// The flags are safe to set from any goroutine. Pointer state is only touched
// by the goroutine running RootCanvas.Render.
type BaseElement struct {
	ID       uint32
	Name     string
	EntityID uint32
	UserData any

	hidden    atomic.Bool
	removeReq atomic.Bool
	resetReq  atomic.Bool

	mu           sync.Mutex
	handlers     []pointerHandler
	handlerCount atomic.Int32
	nextHandler  uint32

	// pointer state
	hovered     bool
	pressed     bool
	seen        bool
	lastPressed bool
	lastX       float64
	lastY       float64
}

// Init assigns a fresh ID and the given name. Constructors in this package
// call it; custom elements embedding BaseElement should too.
func (b *BaseElement) Init(name string) {
	b.ID = nextElementID()
	b.Name = name
}

// Visible reports whether the element is drawn.
func (b *BaseElement) Visible() bool { return !b.hidden.Load() }

// SetVisible shows or hides the element.
func (b *BaseElement) SetVisible(v bool) { b.hidden.Store(!v) }

// RemoveRequested reports whether removal was requested.
func (b *BaseElement) RemoveRequested() bool { return b.removeReq.Load() }

// RequestRemove marks the element for removal. The owning Canvas drops it at
// the start of its next display pass.
func (b *BaseElement) RequestRemove() { b.removeReq.Store(true) }

// ResetRequested reports whether a reset was requested.
func (b *BaseElement) ResetRequested() bool { return b.resetReq.Load() }

// RequestReset asks the owner of the scene to reinitialize it.
func (b *BaseElement) RequestReset() { b.resetReq.Store(true) }

// ClearResetRequest consumes a reset request.
func (b *BaseElement) ClearResetRequest() { b.resetReq.Store(false) }

// HasPointerCallbacks reports whether at least one callback is registered.
func (b *BaseElement) HasPointerCallbacks() bool { return b.handlerCount.Load() > 0 }

// Hovered reports whether the pointer was over the element in the last frame.
func (b *BaseElement) Hovered() bool { return b.hovered }

// Pressed reports whether a press that started on the element is still held.
func (b *BaseElement) Pressed() bool { return b.pressed }

// OnPointer registers fn for the given status.
func (b *BaseElement) OnPointer(status PointerStatus, fn func(PointerEvent)) CallbackHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextHandler++
	id := b.nextHandler
	b.handlers = append(b.handlers, pointerHandler{id: id, status: status, fn: fn})
	b.handlerCount.Add(1)
	return CallbackHandle{id: id, owner: b}
}

// OnClick registers a callback for press-then-release over the element.
func (b *BaseElement) OnClick(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerClick, fn)
}

// OnPress registers a callback for button presses over the element.
func (b *BaseElement) OnPress(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerPress, fn)
}

// OnRelease registers a callback for the release that ends a press on the element.
func (b *BaseElement) OnRelease(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerRelease, fn)
}

// OnDrag registers a callback fired each frame the pointer moves while a
// press that started on the element is held.
func (b *BaseElement) OnDrag(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerDrag, fn)
}

// OnEnter registers a callback for the pointer moving onto the element.
func (b *BaseElement) OnEnter(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerEnter, fn)
}

// OnLeave registers a callback for the pointer moving off the element.
func (b *BaseElement) OnLeave(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerLeave, fn)
}

// OnOver registers a callback fired every frame the pointer stays over the element.
func (b *BaseElement) OnOver(fn func(PointerEvent)) CallbackHandle {
	return b.OnPointer(PointerOver, fn)
}

func (b *BaseElement) removeHandler(id uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.handlers {
		if b.handlers[i].id == id {
			copy(b.handlers[i:], b.handlers[i+1:])
			b.handlers[len(b.handlers)-1] = pointerHandler{}
			b.handlers = b.handlers[:len(b.handlers)-1]
			b.handlerCount.Add(-1)
			return
		}
	}
}

// TriggerPointerEvent runs the pointer state machine for one frame. matched
// is true for exactly the element selected by the pick pass; every other
// element receives matched == false, which clears hover state.
func (b *BaseElement) TriggerPointerEvent(p Pointer, matched bool) {
	var dx, dy float64
	if b.seen {
		dx, dy = p.X-b.lastX, p.Y-b.lastY
	}
	moved := dx != 0 || dy != 0
	justPressed := p.Pressed && !b.lastPressed

	ev := PointerEvent{
		ID: b.ID, Name: b.Name, EntityID: b.EntityID, UserData: b.UserData,
		X: p.X, Y: p.Y, DeltaX: dx, DeltaY: dy,
		Button: p.Button, Pressed: p.Pressed, Modifiers: p.Modifiers,
		Matched: matched,
	}

	if matched && !b.hovered {
		b.hovered = true
		b.fire(PointerEnter, ev, p.store)
	} else if !matched && b.hovered {
		b.hovered = false
		b.fire(PointerLeave, ev, p.store)
	}

	switch {
	case justPressed && matched:
		b.pressed = true
		b.fire(PointerPress, ev, p.store)
	case p.Pressed && b.pressed && moved:
		b.fire(PointerDrag, ev, p.store)
	case !p.Pressed && b.pressed:
		b.pressed = false
		b.fire(PointerRelease, ev, p.store)
		if matched {
			b.fire(PointerClick, ev, p.store)
		}
	}

	if matched {
		b.fire(PointerOver, ev, p.store)
	}

	b.seen = true
	b.lastPressed = p.Pressed
	b.lastX, b.lastY = p.X, p.Y
}

func (b *BaseElement) fire(status PointerStatus, ev PointerEvent, store EntityStore) {
	b.mu.Lock()
	var fns []func(PointerEvent)
	for _, h := range b.handlers {
		if h.status == status {
			fns = append(fns, h.fn)
		}
	}
	b.mu.Unlock()

	ev.Status = status
	for _, fn := range fns {
		fn(ev)
	}
	if store != nil && b.EntityID != 0 {
		store.EmitEvent(InteractionEvent{
			Status:    status,
			EntityID:  b.EntityID,
			ElementID: b.ID,
			X:         ev.X,
			Y:         ev.Y,
			DeltaX:    ev.DeltaX,
			DeltaY:    ev.DeltaY,
			Button:    ev.Button,
			Modifiers: ev.Modifiers,
		})
	}
}
