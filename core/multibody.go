package core

import (
	"errors"
	"fmt"

	"github.com/paleotrace/platedrift/model"
)

var ErrNoBodies = errors.New("no bodies to simulate")

// RotationModel answers position queries for one rigidly rotating body at a
// given geologic time.
type RotationModel interface {
	// ContinentAt returns the body's reference point rotated back to tMyr.
	ContinentAt(tMyr float64) model.GeographicPoint
	// ApparentPoleAt returns the rotation axis as seen from the body's
	// rotated frame at tMyr.
	ApparentPoleAt(tMyr float64) model.GeographicPoint
}

// EulerRotationModel rotates about a fixed Euler pole at a constant rate.
// The axis and reference vectors are converted once at construction; each
// query builds one rotation matrix.
type EulerRotationModel struct {
	axis    Vec3
	ref     Vec3
	rateDeg float64
}

// ContinentAt implements RotationModel.
func (m *EulerRotationModel) ContinentAt(tMyr float64) model.GeographicPoint {
	rot := RotationMatrix(m.axis, DegToRad(m.rateDeg*tMyr))
	return VectorToGeographic(rot.Apply(m.ref))
}

// ApparentPoleAt implements RotationModel.
func (m *EulerRotationModel) ApparentPoleAt(tMyr float64) model.GeographicPoint {
	rot := RotationMatrix(m.axis, DegToRad(m.rateDeg*tMyr))
	return VectorToGeographic(rot.Transpose().Apply(Vec3{Z: 1}))
}

// StaticRotationModel is the zero-rate fast path: the continent never moves
// and the apparent pole stays at the geographic North Pole.
type StaticRotationModel struct {
	ref model.GeographicPoint
}

// ContinentAt for a static body returns the reference point unchanged.
func (m *StaticRotationModel) ContinentAt(tMyr float64) model.GeographicPoint {
	return m.ref
}

// ApparentPoleAt for a static body is always the North Pole.
func (m *StaticRotationModel) ApparentPoleAt(tMyr float64) model.GeographicPoint {
	return model.NorthPole
}

// NewRotationModel chooses an appropriate RotationModel for the body.
// Zero angular velocity uses the static model, everything else the Euler one.
func NewRotationModel(body *model.BodyDefinition) RotationModel {
	if body.Pole.AngularVelocityDegPerMyr == 0 {
		return &StaticRotationModel{ref: body.Reference}
	}
	return &EulerRotationModel{
		axis:    GeographicToVector(body.Pole.Axis),
		ref:     GeographicToVector(body.Reference),
		rateDeg: body.Pole.AngularVelocityDegPerMyr,
	}
}

// SimulateBody runs the single-body generator for one BodyDefinition over
// the given time domain.
func SimulateBody(body *model.BodyDefinition, domain model.TimeDomain) (*SimulationResult, error) {
	if body == nil {
		return nil, fmt.Errorf("simulate body: nil body")
	}
	result, err := Simulate(model.SimulationParams{
		Pole:      body.Pole,
		Domain:    domain,
		Reference: body.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", body.ID, err)
	}
	return result, nil
}

// SimulateBodies runs each body independently over a shared time domain.
// Rotations are never composed across bodies: each body's reference vector
// rotates about its own Euler pole only. The result map is keyed by body ID.
func SimulateBodies(bodies []*model.BodyDefinition, domain model.TimeDomain) (map[string]*SimulationResult, error) {
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	results := make(map[string]*SimulationResult, len(bodies))
	for _, body := range bodies {
		result, err := SimulateBody(body, domain)
		if err != nil {
			return nil, err
		}
		results[body.ID] = result
	}
	return results, nil
}
