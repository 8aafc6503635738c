package sketch

import (
	"image/color"
	"testing"
)

func TestColorToRGBAPremultiplies(t *testing.T) {
	tests := []struct {
		in   Color
		want color.RGBA
	}{
		{ColorWhite, color.RGBA{255, 255, 255, 255}},
		{Color{1, 0, 0, 0.5}, color.RGBA{128, 0, 0, 128}},
		{Color{2, -1, 0.5, 1}, color.RGBA{255, 0, 128, 255}},
		{ColorTransparent, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := tt.in.toRGBA(); got != tt.want {
			t.Errorf("%v.toRGBA() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	if got := RGBA(255, 0, 51, 255); got != (Color{1, 0, 0.2, 1}) {
		t.Errorf("RGBA = %v", got)
	}
	if got := Gray(0.25); got != (Color{0.25, 0.25, 0.25, 1}) {
		t.Errorf("Gray = %v", got)
	}
	if got := (Color{0.5, 0.8, 0.1, 0.3}).Scale(2); got != (Color{1, 1, 0.2, 0.3}) {
		t.Errorf("Scale = %v", got)
	}
	if got := (Color{0.5, 1, 1, 1}).Mul(Color{0.5, 0.5, 0, 1}); got != (Color{0.25, 0.5, 0, 1}) {
		t.Errorf("Mul = %v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{30, 20, true},
		{20, 15, true},
		{9, 15, false},
		{20, 21, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		b    Rect
		want bool
	}{
		{Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{Rect{X: 11, Y: 0, Width: 5, Height: 5}, false},
		{Rect{X: 2, Y: 2, Width: 1, Height: 1}, true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("Intersects(%v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestVec3(t *testing.T) {
	x, y := Vec3{X: 1}, Vec3{Y: 1}
	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("Cross = %v", got)
	}
	if got := (Vec3{3, 4, 0}).Len(); got != 5 {
		t.Errorf("Len = %v", got)
	}
	if got := (Vec3{}).Norm(); got != (Vec3{}) {
		t.Errorf("Norm of zero = %v", got)
	}
}

func TestPointerStatusString(t *testing.T) {
	names := map[PointerStatus]string{
		PointerEnter: "enter", PointerOver: "over", PointerLeave: "leave",
		PointerPress: "press", PointerRelease: "release", PointerClick: "click",
		PointerDrag: "drag", PointerStatus(99): "unknown",
	}
	for s, want := range names {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

func TestShapeBounds(t *testing.T) {
	tests := []struct {
		name string
		s    *Shape
		want Rect
	}{
		{"rect", NewRect("r", 5, 5, 10, 20), Rect{0, 0, 10, 20}},
		{"ellipse", NewEllipse("e", 5, 5, 10, 20), Rect{-5, -10, 10, 20}},
		{"polygon", NewPolygon("p", []Vec3{{-1, 2, 0}, {3, -4, 0}, {0, 0, 0}}), Rect{-1, -4, 4, 6}},
		{"line", NewLine("l", Vec3{}, Vec3{10, 0, 0}), Rect{0, 0, 10, 0}},
		{"empty", NewPolygon("none", nil), Rect{}},
	}
	for _, tt := range tests {
		if got := tt.s.Bounds(); got != tt.want {
			t.Errorf("%s: Bounds = %v, want %v", tt.name, got, tt.want)
		}
	}
}
