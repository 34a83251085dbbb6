package mathutil

import "math"

// Quat represents a unit quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the no-op rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis (right-handed).
// A degenerate axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	if axis.IsZero() {
		return QuatIdentity()
	}
	s := math.Sin(angle * 0.5)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(angle * 0.5)}
}

// Mul returns the Hamilton product q × r (apply r first, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u×v) + 2u×(u×v)
	u := Vec3{q[0], q[1], q[2]}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q[3])).Add(u.Cross(t))
}
