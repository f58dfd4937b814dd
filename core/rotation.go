package core

import "math"

// Matrix3 is a row-major 3x3 matrix.
//
// An explicit matrix (rather than a quaternion) keeps the transpose-as-inverse
// trick available: rotation matrices are orthogonal, so the apparent-pole path
// comes from the same matrix as the continent path with no separate inversion.
// Each timestep builds one direct rotation; there is no composition chain
// where a quaternion would pay off.
type Matrix3 [3][3]float64

// RotationMatrix builds the matrix rotating by angleRad about axis, using
// Rodrigues' rotation formula. The axis is normalized internally; axes
// derived from geographic input are already unit length, but re-normalizing
// prevents silent scale bugs from other callers.
func RotationMatrix(axis Vec3, angleRad float64) Matrix3 {
	a := axis.Normalized()
	x, y, z := a.X, a.Y, a.Z
	s, c := math.Sincos(angleRad)
	k := 1 - c

	return Matrix3{
		{c + x*x*k, x*y*k - z*s, x*z*k + y*s},
		{y*x*k + z*s, c + y*y*k, y*z*k - x*s},
		{z*x*k - y*s, z*y*k + x*s, c + z*z*k},
	}
}

// Transpose returns the transposed matrix. For a rotation matrix this is its
// inverse.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Apply returns the matrix-vector product m·v.
func (m Matrix3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}
