package math

import "math"

// Mat4 is a 4x4 matrix stored column by column, the layout GL uniforms expect.
// Element (row r, column c) lives at index c*4+r; the translation is 12..14.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(1, 1, 1)
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = x, y, z, 1
	return m
}

// Perspective returns a right-handed GL projection with clip depth -1..1.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// lookBasis returns the side, up and forward axes of a camera at eye facing
// center.
func lookBasis(eye, center, up Vec3) (s, u, f Vec3) {
	f = center.Sub(eye).Normalize()
	s = f.Cross(up).Normalize()
	u = s.Cross(f)
	return s, u, f
}

// LookAt returns the world-to-camera matrix of a camera at eye facing center.
// The camera looks down its -Z axis.
func LookAt(eye, center, up Vec3) Mat4 {
	s, u, f := lookBasis(eye, center, up)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// LookAtInverse returns the camera-to-world matrix of the same camera as
// LookAt. The basis is orthonormal, so no general inversion is needed.
func LookAtInverse(eye, center, up Vec3) Mat4 {
	s, u, f := lookBasis(eye, center, up)
	return Mat4{
		s.X, s.Y, s.Z, 0,
		u.X, u.Y, u.Z, 0,
		-f.X, -f.Y, -f.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
}

// Mul returns m * other, so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * other[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Ptr returns a pointer to the first element for GL uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns the inverse of m by Gauss-Jordan elimination with partial
// pivoting. A singular matrix yields the identity.
func (m Mat4) Inverse() Mat4 {
	var a, inv [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r][c] = float64(m[c*4+r])
		}
		inv[r][r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return Identity()
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		d := a[col][col]
		for c := 0; c < 4; c++ {
			a[col][c] /= d
			inv[col][c] /= d
		}
		for r := 0; r < 4; r++ {
			k := a[r][col]
			if r == col || k == 0 {
				continue
			}
			for c := 0; c < 4; c++ {
				a[r][c] -= k * a[col][c]
				inv[r][c] -= k * inv[col][c]
			}
		}
	}

	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = float32(inv[r][c])
		}
	}
	return out
}
