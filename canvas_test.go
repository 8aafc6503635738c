package sketch

import (
	"fmt"
	"strings"
	"testing"
)

func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", substr)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, substr) {
			t.Errorf("panic = %q, want it to contain %q", msg, substr)
		}
	}()
	fn()
}

func TestCanvasAddInsertRemove(t *testing.T) {
	c := NewCanvas("c")
	a := newProbe("a", 0, 0, 1, 1, false)
	b := newProbe("b", 0, 0, 1, 1, false)
	d := newProbe("d", 0, 0, 1, 1, false)

	c.Add(a)
	c.Add(d)
	c.Insert(1, b)

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	for i, want := range []Element{a, b, d} {
		if c.Get(i) != want {
			t.Errorf("Get(%d) = %v, want %v", i, c.Get(i), want)
		}
	}

	if got := c.Remove(0); got != a {
		t.Errorf("Remove(0) = %v, want a", got)
	}
	if !c.RemoveElement(d) {
		t.Error("RemoveElement(d) = false")
	}
	if c.RemoveElement(d) {
		t.Error("RemoveElement(d) twice = true")
	}
	if c.Len() != 1 || c.Get(0) != b {
		t.Errorf("remaining = %v", c.Elements())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestCanvasInsertAtEnd(t *testing.T) {
	c := NewCanvas("c")
	a := newProbe("a", 0, 0, 1, 1, false)
	c.Insert(0, a)
	if c.Get(0) != a {
		t.Error("Insert at Len should append")
	}
}

func TestCanvasIndexPanics(t *testing.T) {
	c := NewCanvas("c")
	expectPanic(t, "out of range", func() { c.Get(0) })
	expectPanic(t, "out of range", func() { c.Remove(-1) })
	expectPanic(t, "out of range", func() { c.Insert(2, newProbe("x", 0, 0, 1, 1, false)) })
	expectPanic(t, "nil element", func() { c.Add(nil) })
}

func TestCanvasCycleRejected(t *testing.T) {
	outer := NewCanvas("outer")
	inner := NewCanvas("inner")
	outer.Add(inner)
	expectPanic(t, "itself", func() { outer.Add(outer) })
	expectPanic(t, "itself", func() { inner.Add(outer) })
}

func TestCanvasSnapshotIsStable(t *testing.T) {
	c := NewCanvas("c")
	c.Add(newProbe("a", 0, 0, 1, 1, false))
	snap := c.Elements()
	c.Add(newProbe("b", 0, 0, 1, 1, false))
	c.Remove(0)
	if len(snap) != 1 || snap[0].(*probe).Name != "a" {
		t.Errorf("snapshot changed: %v", snap)
	}
}

func TestCanvasMutationDuringPass(t *testing.T) {
	c := NewCanvas("c")
	added := newProbe("added", 0, 0, 1, 1, false)
	first := newProbe("first", 0, 0, 1, 1, false)
	first.onRender = func(bool) { c.Add(added) }
	c.Add(first)

	c.RenderAll(newTestSurface())
	if added.renders != 0 {
		t.Error("element added mid-pass was drawn in the same pass")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	first.onRender = nil
	c.RenderAll(newTestSurface())
	if added.renders != 1 {
		t.Errorf("added.renders = %d, want 1", added.renders)
	}
}

func TestCanvasDeferredRemoval(t *testing.T) {
	c := NewCanvas("c")
	a := newProbe("a", 0, 0, 1, 1, false)
	self := newProbe("self", 0, 0, 1, 1, false)
	b := newProbe("b", 0, 0, 1, 1, false)
	var seen int
	self.onRender = func(bool) {
		self.RequestRemove()
		seen = c.Len()
	}
	c.Add(a)
	c.Add(self)
	c.Add(b)

	// Frame K: the element flags itself while being drawn.
	c.RenderAll(newTestSurface())
	if seen != 3 {
		t.Errorf("Len during pass = %d, want 3", seen)
	}
	if b.renders != 1 {
		t.Error("elements after the flagged one must still be drawn")
	}
	if !c.removeRequestPending() {
		t.Fatal("pending removal not set after the pass")
	}
	if c.Len() != 3 {
		t.Errorf("Len after pass = %d, want 3 (removal is deferred)", c.Len())
	}

	// Frame K+1: dropped before drawing.
	c.RenderAll(newTestSurface())
	if self.renders != 1 {
		t.Errorf("self.renders = %d, want 1", self.renders)
	}
	if c.Len() != 2 || c.Get(0) != a || c.Get(1) != b {
		t.Errorf("elements = %v, want [a b]", c.Elements())
	}
	if c.removeRequestPending() {
		t.Error("pending removal not cleared")
	}
}

func TestCanvasResetCollectAndClear(t *testing.T) {
	outer := NewCanvas("outer")
	inner := NewCanvas("inner")
	p := newProbe("p", 0, 0, 1, 1, false)
	inner.Add(p)
	outer.Add(inner)

	p.RequestReset()
	outer.RenderAll(newTestSurface())
	if p.ResetRequested() {
		t.Error("element reset flag should be consumed by the pass")
	}
	if !outer.IsResetObject() {
		t.Fatal("IsResetObject = false, want true from nested canvas")
	}
	if outer.IsResetObject() {
		t.Error("IsResetObject must consume the request")
	}
}

type resettable struct {
	probe
	resets int
}

func (r *resettable) Reset(Renderer) { r.resets++ }

func TestCanvasResetRecurses(t *testing.T) {
	outer := NewCanvas("outer")
	inner := NewCanvas("inner")
	a := &resettable{}
	a.Init("a")
	b := &resettable{}
	b.Init("b")
	outer.Add(a)
	inner.Add(b)
	outer.Add(inner)

	outer.Reset(newTestSurface())
	if a.resets != 1 || b.resets != 1 {
		t.Errorf("resets = %d, %d, want 1, 1", a.resets, b.resets)
	}
}

func TestCanvasAnimatorTickedPerDisplayPass(t *testing.T) {
	c := NewCanvas("c")
	anim := NewAnimator(10)
	var total float32
	anim.Add(TweenerFunc(func(dt float32) { total += dt }))
	c.SetAnimator(anim)

	c.RenderAll(newTestSurface())
	c.RenderAll(newTestSurface())
	c.RenderAllForSelection(NewPicker(0, 0), 0)

	if total < 0.19 || total > 0.21 {
		t.Errorf("animated %v seconds, want 0.2", total)
	}
}

// recorder is a Renderer that only records matrix and setup calls.
type recorder struct {
	*ImageRenderer
	calls []string
}

func (r *recorder) SetProjection(m Matrix4) {
	r.calls = append(r.calls, "projection")
	r.ImageRenderer.SetProjection(m)
}

func (r *recorder) SetView(m Matrix4) {
	r.calls = append(r.calls, "view")
	r.ImageRenderer.SetView(m)
}

func (r *recorder) AddLight(l Light) {
	r.calls = append(r.calls, "light")
	r.ImageRenderer.AddLight(l)
}

func (r *recorder) LoadMatrix(m Matrix4) {
	r.calls = append(r.calls, "load")
	r.ImageRenderer.LoadMatrix(m)
}

func (r *recorder) ApplyMatrix(m Matrix4) {
	r.calls = append(r.calls, "apply")
	r.ImageRenderer.ApplyMatrix(m)
}

func TestCanvasSetupOrder(t *testing.T) {
	c := NewCanvas("c")
	c.SetProjection(Orthographic{})
	c.SetCamera(NewCamera(Vec3{Z: 10}, Vec3{}, Vec3{Y: 1}))
	c.AddLight(NewAmbientLight(ColorWhite))
	c.AddLight(NewDirectionalLight(ColorWhite, Vec3{Z: 1}))
	c.ApplyMatrix(Translate4(1, 2, 3))

	r := &recorder{ImageRenderer: newTestSurface()}
	c.RenderAll(r)

	want := []string{"projection", "view", "light", "light", "apply"}
	if strings.Join(r.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
}

func TestCanvasNestedSkipsDefaultProjection(t *testing.T) {
	outer := NewCanvas("outer")
	inner := NewCanvas("inner")
	outer.Add(inner)

	r := &recorder{ImageRenderer: newTestSurface()}
	outer.RenderAll(r)

	var projections int
	for _, c := range r.calls {
		if c == "projection" {
			projections++
		}
	}
	if projections != 1 {
		t.Errorf("projection set %d times, want 1 (top-level fallback only)", projections)
	}
}

func TestCanvasLoadMatrixModes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Canvas)
		want  Matrix4
	}{
		{"none", func(c *Canvas) { c.ResetMatrix() }, Translate4(5, 0, 0)},
		{"apply", func(c *Canvas) { c.ApplyMatrix(Translate4(0, 7, 0)) }, Translate4(5, 7, 0)},
		{"load", func(c *Canvas) { c.SetMatrix(Translate4(0, 7, 0)) }, Translate4(0, 7, 0)},
	}
	for _, tt := range tests {
		c := NewCanvas(tt.name)
		tt.setup(c)
		r := newTestSurface()
		r.Translate(5, 0, 0)
		c.LoadMatrix(r)
		if got := r.Matrix(); got != tt.want {
			t.Errorf("%s: matrix = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanvasPositionAppliedAfterMatrix(t *testing.T) {
	c := NewCanvas("c")
	c.SetPosition(10, 20, 0)
	var inside Matrix4
	p := newProbe("p", 0, 0, 1, 1, false)
	r := newTestSurface()
	p.onRender = func(bool) { inside = r.Matrix() }
	c.Add(p)
	c.RenderAll(r)

	if inside != Translate4(10, 20, 0) {
		t.Errorf("matrix inside pass = %v", inside)
	}
	if r.Matrix() != Identity4() {
		t.Error("RenderAll must pop its matrix")
	}
	if got := c.Position(); got != (Vec3{10, 20, 0}) {
		t.Errorf("Position = %v", got)
	}
}

func TestCanvasIsNeverAPickTarget(t *testing.T) {
	c := NewCanvas("c")
	c.OnClick(func(PointerEvent) {})
	if c.HasPointerCallbacks() {
		t.Error("canvas reports pointer callbacks")
	}
}
