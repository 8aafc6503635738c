package sketch

import "math"

// Projection produces the projection matrix for a viewport of the given size.
type Projection interface {
	Matrix(w, h float64) Matrix4
}

// Orthographic is an orthographic projection over an explicit box. A zero
// Right/Bottom pair means "the viewport size".
type Orthographic struct {
	Left, Right, Bottom, Top float64
	Near, Far                float64
}

// Matrix implements Projection.
func (o Orthographic) Matrix(w, h float64) Matrix4 {
	right, bottom := o.Right, o.Bottom
	if right == 0 && bottom == 0 {
		right, bottom = w, h
	}
	near, far := o.Near, o.Far
	if near == 0 && far == 0 {
		near, far = defaultNear, defaultFar
	}
	return Ortho4(o.Left, right, bottom, o.Top, near, far)
}

// Perspective is a symmetric perspective projection. FovY is in radians; a
// zero value means 60 degrees.
type Perspective struct {
	FovY      float64
	Near, Far float64
}

// Matrix implements Projection.
func (p Perspective) Matrix(w, h float64) Matrix4 {
	fov := p.FovY
	if fov == 0 {
		fov = math.Pi / 3
	}
	near, far := p.Near, p.Far
	if near == 0 {
		near = 0.1
	}
	if far == 0 {
		far = 10000
	}
	aspect := 1.0
	if h != 0 {
		aspect = w / h
	}
	return Perspective4(fov, aspect, near, far)
}
