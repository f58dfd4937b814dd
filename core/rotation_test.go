package core

import (
	"math"
	"testing"
)

func TestRotationMatrixIsOrthogonal(t *testing.T) {
	cases := []struct {
		name  string
		axis  Vec3
		angle float64
	}{
		{"z axis quarter turn", Vec3{Z: 1}, math.Pi / 2},
		{"x axis half turn", Vec3{X: 1}, math.Pi},
		{"tilted axis", Vec3{X: 0.5, Y: -0.3, Z: 0.81}, 1.234},
		{"tiny angle", Vec3{X: 1, Y: 1, Z: 1}, 1e-9},
		{"negative angle", Vec3{Y: 1}, -2.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := RotationMatrix(tc.axis, tc.angle)
			prod := multiply(r.Transpose(), r)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					want := 0.0
					if i == j {
						want = 1.0
					}
					if math.Abs(prod[i][j]-want) > 1e-12 {
						t.Fatalf("R^T R [%d][%d] = %v, want %v", i, j, prod[i][j], want)
					}
				}
			}
		})
	}
}

func TestRotationMatrixAboutZAxis(t *testing.T) {
	// A quarter turn about +z carries +x onto +y: positive angles are
	// counter-clockwise seen from above the axis.
	r := RotationMatrix(Vec3{Z: 1}, math.Pi/2)
	got := r.Apply(Vec3{X: 1})
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 || math.Abs(got.Z) > 1e-12 {
		t.Fatalf("R(z, 90°)·x = %+v, want (0, 1, 0)", got)
	}
}

func TestRotationMatrixNormalizesAxis(t *testing.T) {
	unit := RotationMatrix(Vec3{Z: 1}, 0.7)
	scaled := RotationMatrix(Vec3{Z: 5}, 0.7)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(unit[i][j]-scaled[i][j]) > 1e-12 {
				t.Fatalf("scaled axis changed matrix at [%d][%d]: %v vs %v", i, j, unit[i][j], scaled[i][j])
			}
		}
	}
}

func TestRotationMatrixZeroAngleIsIdentity(t *testing.T) {
	r := RotationMatrix(Vec3{X: 0.2, Y: 0.5, Z: 0.9}, 0)
	v := Vec3{X: 0.3, Y: -0.4, Z: 0.87}
	got := r.Apply(v)
	if math.Abs(got.X-v.X) > 1e-12 || math.Abs(got.Y-v.Y) > 1e-12 || math.Abs(got.Z-v.Z) > 1e-12 {
		t.Fatalf("zero-angle rotation moved %+v to %+v", v, got)
	}
}

func TestTransposeInvertsRotation(t *testing.T) {
	axis := Vec3{X: 0.6, Y: -0.2, Z: 0.77}
	r := RotationMatrix(axis, 0.9)
	v := GeographicToVector(VectorToGeographic(Vec3{X: 0.36, Y: 0.48, Z: 0.8}))

	back := r.Transpose().Apply(r.Apply(v))
	if math.Abs(back.X-v.X) > 1e-12 || math.Abs(back.Y-v.Y) > 1e-12 || math.Abs(back.Z-v.Z) > 1e-12 {
		t.Fatalf("R^T R v = %+v, want %+v", back, v)
	}
}

// multiply is a test helper; production code only ever applies matrices to
// vectors.
func multiply(a, b Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}
