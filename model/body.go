package model

import "math"

// RotationPole describes a rigid rotation: an Euler pole on the sphere and a
// constant angular rate in degrees per million years. Positive rate rotates
// the body counter-clockwise as seen from above the pole, so a pole at the
// geographic North Pole moves a continent eastward.
//
// One immutable value per rotating body; a parameter change is a new value.
type RotationPole struct {
	Axis                     GeographicPoint `json:"axis"`
	AngularVelocityDegPerMyr float64         `json:"angular_velocity_deg_per_myr"`
}

// Valid reports whether the pole axis is a valid geographic point and the
// rate is finite.
func (rp RotationPole) Valid() bool {
	if !rp.Axis.Valid() {
		return false
	}
	return !math.IsNaN(rp.AngularVelocityDegPerMyr) && !math.IsInf(rp.AngularVelocityDegPerMyr, 0)
}

// BodyDefinition represents one rigidly rotating body (a paleocontinent):
// identity, its Euler pole, and the present-day reference point whose
// historical positions are reconstructed.
type BodyDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Pole      RotationPole    `json:"pole"`
	Reference GeographicPoint `json:"reference"`
}
