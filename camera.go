package sketch

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraMove holds active move-to tweens for the camera eye.
type cameraMove struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a look-at camera. A Canvas with a camera loads its view matrix
// before drawing; without one the view is the identity.
type Camera struct {
	// Eye is the world-space position of the camera.
	Eye Vec3
	// Center is the world-space point the camera looks at.
	Center Vec3
	// Up is the world-space up direction.
	Up Vec3

	move *cameraMove
}

// NewCamera creates a camera at eye looking at center.
func NewCamera(eye, center, up Vec3) *Camera {
	return &Camera{Eye: eye, Center: center, Up: up}
}

// ScreenCamera creates a camera framing a w x h pixel area at z = 0 through a
// perspective projection with the given vertical field of view, so that
// geometry at z = 0 keeps its pixel coordinates (origin top-left, Y down).
// Larger Z values are farther from the eye.
func ScreenCamera(w, h, fovY float64) *Camera {
	if fovY == 0 {
		fovY = math.Pi / 3
	}
	dist := (h / 2) / math.Tan(fovY/2)
	return &Camera{
		Eye:    Vec3{w / 2, h / 2, -dist},
		Center: Vec3{w / 2, h / 2, 0},
		Up:     Vec3{0, -1, 0},
	}
}

// ViewMatrix returns the world-to-eye transform.
func (c *Camera) ViewMatrix() Matrix4 {
	return LookAt4(c.Eye, c.Center, c.Up)
}

// MoveTo animates the eye to the given position over duration seconds.
func (c *Camera) MoveTo(eye Vec3, duration float32, fn ease.TweenFunc) {
	c.move = &cameraMove{
		tweens: [3]*gween.Tween{
			gween.New(float32(c.Eye.X), float32(eye.X), duration, fn),
			gween.New(float32(c.Eye.Y), float32(eye.Y), duration, fn),
			gween.New(float32(c.Eye.Z), float32(eye.Z), duration, fn),
		},
	}
}

// Update advances an active MoveTo by dt seconds. Camera implements Tweener,
// so it can be registered with RootCanvas.AddTweener.
func (c *Camera) Update(dt float32) {
	m := c.move
	if m == nil {
		return
	}
	fields := [3]*float64{&c.Eye.X, &c.Eye.Y, &c.Eye.Z}
	for i, tw := range m.tweens {
		if m.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		*fields[i] = float64(val)
		m.done[i] = done
	}
	if m.done[0] && m.done[1] && m.done[2] {
		c.move = nil
	}
}

// Done reports whether no MoveTo animation is in progress.
func (c *Camera) Done() bool {
	return c.move == nil
}
