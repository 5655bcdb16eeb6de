package common

import (
	"math"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
// Element (row, col) lives at index col*4 + row.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math.Pi
}

// Mul4 returns a * b.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product a * b
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Perspective builds a right-handed perspective projection mapping depth to the WebGPU
// clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var out Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt builds a view matrix for an eye at eye looking toward center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: point the camera looks at
//   - up: up direction, typically +Y
//
// Returns:
//   - Mat4: the world-to-view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center)
	if z.LengthSq() == 0 {
		z = V3(0, 0, 1)
	}
	z = z.Normalize()

	x := V3(up.Y*z.Z-up.Z*z.Y, up.Z*z.X-up.X*z.Z, up.X*z.Y-up.Y*z.X)
	if x.LengthSq() == 0 {
		x = V3(1, 0, 0)
	}
	x = x.Normalize()

	y := V3(z.Y*x.Z-z.Z*x.Y, z.Z*x.X-z.X*x.Z, z.X*x.Y-z.Y*x.X)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Invert4 returns the inverse of m using cofactor expansion.
// ok is false when m is singular, in which case the zero matrix is returned.
//
// Parameters:
//   - m: the matrix to invert
//
// Returns:
//   - Mat4: the inverse
//   - bool: false if m has no inverse
func Invert4(m Mat4) (inv Mat4, ok bool) {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, false
	}
	d := 1 / det

	inv[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * d
	inv[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * d
	inv[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * d
	inv[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * d

	inv[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * d
	inv[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * d
	inv[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * d
	inv[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * d

	inv[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * d
	inv[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * d
	inv[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * d
	inv[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * d

	inv[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * d
	inv[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * d
	inv[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * d
	inv[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * d

	return inv, true
}

// TransformPoint multiplies the point p (w = 1) by m and applies the perspective divide.
//
// Parameters:
//   - m: the transform
//   - p: the point
//
// Returns:
//   - Vec3: the transformed point
func TransformPoint(m Mat4, p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return V3(x, y, z)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
