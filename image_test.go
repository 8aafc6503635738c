package sketch

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestImageRendererFillsRect(t *testing.T) {
	r := NewImageRenderer(40, 40)
	r.NoStroke()
	r.SetFill(Color{1, 0, 0, 1})
	r.Rect(10, 10, 10, 10)

	img := r.Image()
	if got := img.RGBAAt(15, 15); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside = %v", got)
	}
	if got := img.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("outside = %v", got)
	}
}

func TestImageRendererStroke(t *testing.T) {
	r := NewImageRenderer(40, 40)
	r.NoFill()
	r.SetStroke(ColorWhite)
	r.SetStrokeWeight(2)
	r.Rect(10, 10, 20, 20)

	img := r.Image()
	if got := img.RGBAAt(10, 20).A; got == 0 {
		t.Error("left edge not stroked")
	}
	if got := img.RGBAAt(20, 20).A; got != 0 {
		t.Errorf("interior alpha = %d, want 0 with NoFill", got)
	}
}

func TestImageRendererLine(t *testing.T) {
	r := NewImageRenderer(40, 40)
	r.SetStroke(ColorWhite)
	r.SetStrokeWeight(3)
	r.Line(Vec3{0, 20, 0}, Vec3{40, 20, 0})

	if got := r.Image().RGBAAt(20, 20).A; got == 0 {
		t.Error("line not drawn")
	}
	if got := r.Image().RGBAAt(20, 5).A; got != 0 {
		t.Error("line drawn off its path")
	}
}

func TestImageRendererClearAndBeginFrame(t *testing.T) {
	r := NewImageRenderer(8, 8)
	r.Translate(100, 100, 0)
	r.SetFill(ColorBlack)
	r.BeginFrame()
	if r.Matrix() != Identity4() {
		t.Error("BeginFrame did not reset the matrix")
	}
	if r.style != defaultStyle {
		t.Error("BeginFrame did not reset the style")
	}

	r.Clear(Color{0, 1, 0, 1})
	if got := r.Image().RGBAAt(7, 7); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("cleared pixel = %v", got)
	}
}

func TestImageRendererAmbientShading(t *testing.T) {
	r := NewImageRenderer(20, 20)
	r.AddLight(NewAmbientLight(Gray(0.5)))
	r.NoStroke()
	r.Rect(0, 0, 20, 20)
	if got := r.Image().RGBAAt(10, 10).R; got < 126 || got > 129 {
		t.Errorf("shaded red = %d, want ~128", got)
	}
}

func TestFadeBackgroundBlends(t *testing.T) {
	r := NewImageRenderer(10, 10)
	r.Clear(ColorWhite)
	FadeBackground{Color: ColorBlack, Alpha: 0.5}.Draw(r)
	if got := r.Image().RGBAAt(5, 5).R; got < 120 || got > 135 {
		t.Errorf("faded red = %d, want ~128", got)
	}

	FadeBackground{Color: ColorBlack, Alpha: 1}.Draw(r)
	if got := r.Image().RGBAAt(5, 5); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("opaque fade = %v, want black", got)
	}
}

func TestImageRendererSavePNG(t *testing.T) {
	r := NewImageRenderer(4, 4)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat = %v, %v", fi, err)
	}
}

func TestPopMatrixUnbalancedPanics(t *testing.T) {
	expectPanic(t, "PopMatrix", func() { NewImageRenderer(1, 1).PopMatrix() })
}

func TestEllipseSegments(t *testing.T) {
	tests := []struct {
		rx, ry float64
		want   int
	}{
		{1, 1, 12},
		{40, 40, 63},
		{1000, 1000, 128},
	}
	for _, tt := range tests {
		if got := ellipseSegments(tt.rx, tt.ry); got != tt.want {
			t.Errorf("ellipseSegments(%v, %v) = %d, want %d", tt.rx, tt.ry, got, tt.want)
		}
	}
}
