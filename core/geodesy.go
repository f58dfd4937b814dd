package core

import (
	"math"

	"github.com/paleotrace/platedrift/model"
)

// Vec3 is a Cartesian unit-sphere vector. Values produced by
// GeographicToVector or Normalized have unit length; the zero value does not.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Normalized returns v scaled to unit length. Precondition: v is non-zero.
// All call sites in this package pass unit-scale vectors, so there is no
// runtime check.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// GeographicToVector converts a geographic point to a Cartesian unit vector.
// cos/sin of valid degree inputs already bound the norm to 1, so no
// renormalization is needed here.
func GeographicToVector(p model.GeographicPoint) Vec3 {
	lat := DegToRad(p.LatDeg)
	lon := DegToRad(p.LonDeg)
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// VectorToGeographic converts a Cartesian unit vector back to latitude and
// longitude in degrees. Longitude is on the atan2 branch cut (-180, 180].
//
// The clamp is mandatory: floating round-off can push z of a rotated unit
// vector slightly outside [-1, 1], which would take Asin out of domain.
func VectorToGeographic(v Vec3) model.GeographicPoint {
	z := v.Z
	if z > 1 {
		z = 1
	} else if z < -1 {
		z = -1
	}
	return model.GeographicPoint{
		LatDeg: RadToDeg(math.Asin(z)),
		LonDeg: RadToDeg(math.Atan2(v.Y, v.X)),
	}
}
