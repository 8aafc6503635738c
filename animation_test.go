package sketch

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	s := NewRect("pos", 10, 20, 5, 5)

	g := TweenPosition(s, 100, 200, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(s.X-100) > 0.5 {
		t.Errorf("X = %f, want ~100", s.X)
	}
	if math.Abs(s.Y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", s.Y)
	}
}

func TestTweenFloatReachesTarget(t *testing.T) {
	rot := 0.0
	g := TweenFloat(&rot, math.Pi, 0.5, ease.Linear)

	g.Update(0.25)
	if math.Abs(rot-math.Pi/2) > 0.01 {
		t.Errorf("midpoint = %f, want ~%f", rot, math.Pi/2)
	}
	g.Update(0.25)
	if !g.Done || math.Abs(rot-math.Pi) > 0.01 {
		t.Errorf("end = %f (done=%v), want ~%f", rot, g.Done, math.Pi)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	c := Color{0, 0, 0, 0}
	g := TweenColor(&c, Color{1, 0.5, 0.25, 1}, 1.0, ease.Linear)

	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done")
	}
	want := Color{1, 0.5, 0.25, 1}
	for i, pair := range [][2]float64{{c.R, want.R}, {c.G, want.G}, {c.B, want.B}, {c.A, want.A}} {
		if math.Abs(pair[0]-pair[1]) > 0.01 {
			t.Errorf("component %d = %f, want %f", i, pair[0], pair[1])
		}
	}
}

func TestTweenCanvasPosition(t *testing.T) {
	c := NewCanvas("c")
	c.SetPosition(0, 0, 0)
	g := TweenCanvasPosition(c, Vec3{X: 40, Y: -20}, 1.0, ease.Linear)

	g.Update(0.5)
	if p := c.Position(); math.Abs(p.X-20) > 0.1 || math.Abs(p.Y+10) > 0.1 {
		t.Errorf("midpoint = %v, want ~(20, -10)", p)
	}
	g.Update(0.5)
	if p := c.Position(); math.Abs(p.X-40) > 0.1 || math.Abs(p.Y+20) > 0.1 {
		t.Errorf("end = %v, want ~(40, -20)", p)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	s := NewRect("done", 0, 0, 1, 1)
	g := TweenPosition(s, 50, 50, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}

	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}

	g.Update(0.25)
	if !g.Done || !g.Finished() {
		t.Fatal("should be Done after full duration")
	}

	// No-op once done.
	g.Update(0.1)
	if !g.Done {
		t.Fatal("should remain Done")
	}
}

func TestTweenGroupRemovedTarget(t *testing.T) {
	s := NewRect("removed", 10, 20, 1, 1)
	g := TweenPosition(s, 100, 200, 1.0, ease.Linear)

	s.RequestRemove()
	g.Update(0.1)

	if !g.Done {
		t.Fatal("expected Done after removal request detected")
	}
	if s.X != 10 || s.Y != 20 {
		t.Errorf("position changed to (%f, %f) on removed shape", s.X, s.Y)
	}
}

func TestTweenGroupRemovedMidAnimation(t *testing.T) {
	s := NewRect("mid-remove", 0, 0, 1, 1)
	g := TweenPosition(s, 100, 100, 1.0, ease.Linear)

	g.Update(0.1)
	g.Update(0.1)
	if g.Done {
		t.Fatal("should not be Done yet")
	}

	s.RequestRemove()
	savedX, savedY := s.X, s.Y

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after removal mid-animation")
	}
	if s.X != savedX || s.Y != savedY {
		t.Error("shape fields should not change after removal")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	l := NewRect("linear", 0, 0, 1, 1)
	c := NewRect("cubic", 0, 0, 1, 1)

	gL := TweenPosition(l, 100, 0, 1.0, ease.Linear)
	gC := TweenPosition(c, 100, 0, 1.0, ease.OutCubic)

	gL.Update(0.5)
	gC.Update(0.5)

	// OutCubic should be ahead of linear at midpoint.
	if math.Abs(l.X-c.X) < 1.0 {
		t.Errorf("easing curves should produce different values at midpoint: linear=%f cubic=%f", l.X, c.X)
	}
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	s := NewRect("alloc", 0, 0, 1, 1)
	g := TweenPosition(s, 100, 100, 1.0, ease.Linear)

	g.Update(0.01)

	result := testing.AllocsPerRun(100, func() {
		g.Update(0.001)
	})
	if result > 0 {
		t.Errorf("TweenGroup.Update allocated %f times per run, want 0", result)
	}
}

func TestAnimatorDropsFinishedTweeners(t *testing.T) {
	a := NewAnimator(2)
	x := 0.0
	g := TweenFloat(&x, 1, 1.0, ease.Linear)
	var ticks int
	forever := TweenerFunc(func(float32) { ticks++ })
	a.Add(g)
	a.Add(forever)

	a.Tick()
	if a.Len() != 2 {
		t.Fatalf("Len = %d after first tick, want 2", a.Len())
	}
	a.Tick()
	if a.Len() != 1 {
		t.Errorf("Len = %d after tween finished, want 1", a.Len())
	}
	if math.Abs(x-1) > 0.01 {
		t.Errorf("x = %f, want ~1", x)
	}
	a.Tick()
	if ticks != 3 {
		t.Errorf("function tweener ticked %d times, want 3", ticks)
	}
}

func TestAnimatorRemove(t *testing.T) {
	a := NewAnimator(0)
	x := 0.0
	g := TweenFloat(&x, 1, 1.0, ease.Linear)
	a.Add(g)
	a.Remove(g)
	a.Remove(g)
	a.Tick()
	if x != 0 || a.Len() != 0 {
		t.Errorf("removed tweener still active: x=%f len=%d", x, a.Len())
	}
}
