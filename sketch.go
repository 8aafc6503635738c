package sketch

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at rasterization time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA returns a Color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// Gray returns an opaque gray of the given level in [0, 1].
func Gray(v float64) Color {
	return Color{v, v, v, 1}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Scale multiplies the RGB components by k, leaving alpha untouched.
func (c Color) Scale(k float64) Color {
	return Color{clamp01(c.R * k), clamp01(c.G * k), clamp01(c.B * k), c.A}
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec3 is a 3D vector used for positions, directions and vertices.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Norm returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// PointerStatus identifies the kind of pointer notification an element receives.
type PointerStatus uint8

const (
	PointerEnter   PointerStatus = iota // pointer moved onto the element
	PointerOver                         // pointer stays over the element
	PointerLeave                        // pointer moved off the element
	PointerPress                        // button pressed while over the element
	PointerRelease                      // button released after a press on the element
	PointerClick                        // press then release over the same element
	PointerDrag                         // pointer moved with the button held after a press on the element
)

var pointerStatusNames = [...]string{
	"enter", "over", "leave", "press", "release", "click", "drag",
}

func (s PointerStatus) String() string {
	if int(s) < len(pointerStatusNames) {
		return pointerStatusNames[s]
	}
	return "unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Pointer is the pointer state the redraw driver supplies each frame, in the
// surface's coordinate space.
type Pointer struct {
	X, Y      float64
	Pressed   bool
	Button    MouseButton
	Modifiers KeyModifiers

	// store receives interaction events for elements with an EntityID. Set
	// by RootCanvas from SetEntityStore.
	store EntityStore
}
