// Package pose provides the float32 3D math used to place entities in a
// scene: vectors, unit quaternions and rigid-body isometries (rotation plus
// translation), along with the camera matrices render targets need.
package pose

import "github.com/chewxy/math32"

// Vector3 is a point or direction in 3D space.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Vec3 returns a new [Vector3] with the given components.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// Quat is a rotation represented as a unit quaternion with X, Y, Z and W
// components.
type Quat struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians about the given
// axis. The axis need not be normalized.
func QuatFromAxisAngle(axis Vector3, angle float32) Quat {
	axis = axis.Normalized()
	half := angle / 2
	s := math32.Sin(half)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math32.Cos(half),
	}
}

// QuatFromScaledAxis returns the rotation whose axis is the direction of v
// and whose angle is the length of v.
func QuatFromScaledAxis(v Vector3) Quat {
	angle := v.Length()
	if angle == 0 {
		return QuatIdentity()
	}
	return QuatFromAxisAngle(v, angle)
}

// QuatFromEuler returns the rotation given by Euler angles applied in
// X, Y, Z order.
func QuatFromEuler(x, y, z float32) Quat {
	c1 := math32.Cos(x / 2)
	c2 := math32.Cos(y / 2)
	c3 := math32.Cos(z / 2)
	s1 := math32.Sin(x / 2)
	s2 := math32.Sin(y / 2)
	s3 := math32.Sin(z / 2)
	return Quat{
		X: s1*c2*c3 - c1*s2*s3,
		Y: c1*s2*c3 + s1*c2*s3,
		Z: c1*c2*s3 - s1*s2*c3,
		W: c1*c2*c3 + s1*s2*s3,
	}
}

// Mul returns the composed rotation q then o applied in o-then-q order,
// i.e. (q.Mul(o)).Rotate(v) == q.Rotate(o.Rotate(v)).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y + q.Y*o.W + q.Z*o.X - q.X*o.Z,
		Z: q.W*o.Z + q.Z*o.W + q.X*o.Y - q.Y*o.X,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate returns v rotated by q.
func (q Quat) Rotate(v Vector3) Vector3 {
	u := Vector3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Normalized returns q scaled to unit length. The identity is returned for a
// zero quaternion.
func (q Quat) Normalized() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Inverse returns the inverse rotation. q must be unit length.
func (q Quat) Inverse() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Isometry is a rigid-body transform: a rotation followed by a translation.
// It is the pose of an entity in the scene reference frame.
type Isometry struct {
	Translation Vector3 `json:"translation"`
	Rotation    Quat    `json:"rotation"`
}

// Identity returns the identity isometry.
func Identity() Isometry {
	return Isometry{Rotation: QuatIdentity()}
}

// FromParts returns the isometry with the given translation and rotation.
func FromParts(t Vector3, r Quat) Isometry {
	return Isometry{Translation: t, Rotation: r}
}

// FromTranslation returns a pure translation.
func FromTranslation(x, y, z float32) Isometry {
	return Isometry{Translation: Vec3(x, y, z), Rotation: QuatIdentity()}
}

// RotX returns a pure rotation of angle radians about the x-axis.
func RotX(angle float32) Isometry {
	return Isometry{Rotation: QuatFromScaledAxis(Vec3(angle, 0, 0))}
}

// RotY returns a pure rotation of angle radians about the y-axis.
func RotY(angle float32) Isometry {
	return Isometry{Rotation: QuatFromScaledAxis(Vec3(0, angle, 0))}
}

// RotZ returns a pure rotation of angle radians about the z-axis.
func RotZ(angle float32) Isometry {
	return Isometry{Rotation: QuatFromScaledAxis(Vec3(0, 0, angle))}
}

// Mul returns the composed transform: o applied first, then iso.
func (iso Isometry) Mul(o Isometry) Isometry {
	return Isometry{
		Translation: iso.Rotation.Rotate(o.Translation).Add(iso.Translation),
		Rotation:    iso.Rotation.Mul(o.Rotation),
	}
}

// Apply transforms the point v by iso.
func (iso Isometry) Apply(v Vector3) Vector3 {
	return iso.Rotation.Rotate(v).Add(iso.Translation)
}

// Inverse returns the inverse transform.
func (iso Isometry) Inverse() Isometry {
	inv := iso.Rotation.Inverse()
	return Isometry{
		Translation: inv.Rotate(iso.Translation).Scale(-1),
		Rotation:    inv,
	}
}

// Matrix returns iso as a 4x4 homogeneous transform.
func (iso Isometry) Matrix() Matrix4 {
	q := iso.Rotation
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	return Matrix4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		iso.Translation.X, iso.Translation.Y, iso.Translation.Z, 1,
	}
}
