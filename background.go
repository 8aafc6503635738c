package sketch

// Background paints the frame before the display pass.
type Background interface {
	Draw(s Surface)
}

// SolidBackground clears the frame to a single color.
type SolidBackground struct {
	Color Color
}

// Draw implements Background.
func (b SolidBackground) Draw(s Surface) {
	s.Clear(b.Color)
}

// FadeBackground paints a translucent layer over the previous frame instead
// of clearing it, leaving trails behind moving elements. It needs a surface
// that keeps its contents between frames.
type FadeBackground struct {
	Color Color
	// Alpha is the opacity of the layer in [0, 1]. 1 behaves like SolidBackground.
	Alpha float64
}

// Draw implements Background.
func (b FadeBackground) Draw(s Surface) {
	if b.Alpha >= 1 {
		s.Clear(b.Color)
		return
	}
	c := b.Color
	c.A = clamp01(b.Alpha)
	s.PushMatrix()
	s.LoadMatrix(Identity4())
	s.SetProjection(DefaultProjection(s.Width(), s.Height()))
	s.SetView(Identity4())
	s.ClearLights()
	s.NoStroke()
	s.SetFill(c)
	s.Rect(0, 0, s.Width(), s.Height())
	s.PopMatrix()
}

// retainsFrame reports whether bg needs the previous frame's pixels.
func retainsFrame(bg Background) bool {
	f, ok := bg.(FadeBackground)
	return ok && f.Alpha < 1
}
