package pose

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 matrix in column-major order, as used for camera and
// model-view-projection transforms.
type Matrix4 [16]float32

// Ident4 returns the identity matrix.
func Ident4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product m * o.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// Transform applies m to the point v in homogeneous coordinates and returns
// the clip-space position and w component. Callers divide by w to obtain
// normalized device coordinates; points with w <= 0 are behind the camera.
func (m Matrix4) Transform(v Vector3) (Vector3, float32) {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	return Vector3{x, y, z}, w
}

// Perspective returns a right-handed perspective projection with the given
// vertical field of view in radians, aspect ratio and near/far planes.
func Perspective(fovy, aspect, near, far float32) Matrix4 {
	f := 1 / math32.Tan(fovy/2)
	var m Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// LookAt returns a right-handed view matrix for a camera at eye looking at
// center with the given up direction.
func LookAt(eye, center, up Vector3) Matrix4 {
	f := center.Sub(eye).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)
	return Matrix4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}
