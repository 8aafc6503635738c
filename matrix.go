package sketch

import "math"

// Matrix4 is a 4x4 transform in column-major order: element (row r, column c)
// is stored at index c*4+r. Points are column vectors, so m.Mul(o) applies o
// first and m second.
type Matrix4 [16]float64

// MatrixMode describes how a Canvas transform composes with the inherited one.
type MatrixMode uint8

const (
	MatrixNone  MatrixMode = iota // leave the inherited transform untouched
	MatrixApply                   // multiply into the inherited transform
	MatrixLoad                    // replace the inherited transform
)

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Matrix4) At(r, c int) float64 {
	return m[c*4+r]
}

// Mul returns m * o.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r]*o[c*4] +
				m[4+r]*o[c*4+1] +
				m[8+r]*o[c*4+2] +
				m[12+r]*o[c*4+3]
		}
	}
	return out
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float64) Matrix4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 returns a scaling matrix.
func Scale4(x, y, z float64) Matrix4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateX4 returns a rotation of angle radians about the X axis.
func RotateX4(angle float64) Matrix4 {
	sin, cos := math.Sincos(angle)
	m := Identity4()
	m[5], m[6] = cos, sin
	m[9], m[10] = -sin, cos
	return m
}

// RotateY4 returns a rotation of angle radians about the Y axis.
func RotateY4(angle float64) Matrix4 {
	sin, cos := math.Sincos(angle)
	m := Identity4()
	m[0], m[2] = cos, -sin
	m[8], m[10] = sin, cos
	return m
}

// RotateZ4 returns a rotation of angle radians about the Z axis. With the
// default y-down screen projection positive angles turn clockwise.
func RotateZ4(angle float64) Matrix4 {
	sin, cos := math.Sincos(angle)
	m := Identity4()
	m[0], m[1] = cos, sin
	m[4], m[5] = -sin, cos
	return m
}

// Affine returns the 4x4 embedding of a 2D affine matrix laid out as
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func Affine(a, b, c, d, tx, ty float64) Matrix4 {
	m := Identity4()
	m[0], m[1] = a, b
	m[4], m[5] = c, d
	m[12], m[13] = tx, ty
	return m
}

// Ortho4 returns an orthographic projection mapping the given box to clip space.
func Ortho4(left, right, bottom, top, near, far float64) Matrix4 {
	var m Matrix4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// Perspective4 returns a perspective projection. fovY is in radians.
func Perspective4(fovY, aspect, near, far float64) Matrix4 {
	f := 1 / math.Tan(fovY/2)
	var m Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// LookAt4 returns a view matrix for an eye looking at center with the given up
// direction.
func LookAt4(eye, center, up Vec3) Matrix4 {
	f := center.Sub(eye).Norm()
	s := f.Cross(up).Norm()
	u := s.Cross(f)
	m := Identity4()
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	return m
}

// Transform applies m to the homogeneous point (v, 1).
func (m Matrix4) Transform(v Vec3) (x, y, z, w float64) {
	x = m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y = m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z = m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w = m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	return
}

// TransformPoint applies m to v including the perspective divide.
func (m Matrix4) TransformPoint(v Vec3) Vec3 {
	x, y, z, w := m.Transform(v)
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDir applies the upper 3x3 of m to a direction vector.
func (m Matrix4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Inverse returns the inverse of m. Returns the identity matrix if m is
// singular (determinant ≈ 0).
func (m Matrix4) Inverse() Matrix4 {
	var inv Matrix4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det > -1e-12 && det < 1e-12 {
		return Identity4()
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv
}
