package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/paleotrace/platedrift/model"
)

var (
	ErrBadTimeSteps   = errors.New("time steps must be at least 1")
	ErrBadTimeSpan    = errors.New("total time must be finite and non-negative")
	ErrBadLatitude    = errors.New("latitude must be finite and within [-90, 90]")
	ErrBadLongitude   = errors.New("longitude must be finite")
	ErrBadAngularRate = errors.New("angular velocity must be finite")
)

// Track is a time-ordered sequence of geographic points, index-aligned with
// the Times slice of the result it belongs to.
type Track []model.GeographicPoint

// SimulationResult holds the two dual tracks of one rigid rotation: the
// continent's reconstructed path and the apparent polar wander path seen
// from the continent's rotated frame. Results are computed fresh per run and
// never mutated; a parameter change produces a brand-new result.
type SimulationResult struct {
	Times             []float64 `json:"times_myr"`
	ContinentTrack    Track     `json:"continent_track"`
	ApparentPoleTrack Track     `json:"apparent_pole_track"`
}

// ValidateParams checks a parameter set before a run. Invalid input is
// reported, never auto-corrected.
func ValidateParams(params model.SimulationParams) error {
	if params.Domain.TimeSteps < 1 {
		return fmt.Errorf("%w, got %d", ErrBadTimeSteps, params.Domain.TimeSteps)
	}
	if math.IsNaN(params.Domain.TotalTimeMyr) || math.IsInf(params.Domain.TotalTimeMyr, 0) || params.Domain.TotalTimeMyr < 0 {
		return fmt.Errorf("%w, got %v", ErrBadTimeSpan, params.Domain.TotalTimeMyr)
	}
	if !params.Pole.Valid() {
		if math.IsNaN(params.Pole.AngularVelocityDegPerMyr) || math.IsInf(params.Pole.AngularVelocityDegPerMyr, 0) {
			return fmt.Errorf("%w, got %v", ErrBadAngularRate, params.Pole.AngularVelocityDegPerMyr)
		}
		return fmt.Errorf("rotation pole axis: %w, got %v", ErrBadLatitude, params.Pole.Axis.LatDeg)
	}
	if !params.Reference.Valid() {
		if math.IsNaN(params.Reference.LonDeg) || math.IsInf(params.Reference.LonDeg, 0) {
			return fmt.Errorf("continent reference: %w", ErrBadLongitude)
		}
		return fmt.Errorf("continent reference: %w, got %v", ErrBadLatitude, params.Reference.LatDeg)
	}
	return nil
}

// Linspace returns n evenly spaced values over [start, stop]. n must be at
// least 1; a single sample degenerates to [start] with no step computation.
func Linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Land exactly on stop regardless of accumulated rounding.
	out[n-1] = stop
	return out
}

// Simulate runs the single-body track generator: for each sampled time t it
// rotates the present-day reference by ω·t about the Euler pole, and rotates
// the north pole by the inverse (transposed) matrix to obtain the apparent
// pole position in the body's frame.
//
// With ω = 0 both tracks collapse to their starting points; with
// TotalTimeMyr = 0 every sample coincides at t = 0.
func Simulate(params model.SimulationParams) (*SimulationResult, error) {
	if err := ValidateParams(params); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	axis := GeographicToVector(params.Pole.Axis)
	ref := GeographicToVector(params.Reference)
	northPole := Vec3{Z: 1}

	times := Linspace(0, params.Domain.TotalTimeMyr, params.Domain.TimeSteps)
	result := &SimulationResult{
		Times:             times,
		ContinentTrack:    make(Track, 0, len(times)),
		ApparentPoleTrack: make(Track, 0, len(times)),
	}

	for _, t := range times {
		angle := DegToRad(params.Pole.AngularVelocityDegPerMyr * t)
		rot := RotationMatrix(axis, angle)

		continent := rot.Apply(ref)
		apparentPole := rot.Transpose().Apply(northPole)

		result.ContinentTrack = append(result.ContinentTrack, VectorToGeographic(continent))
		result.ApparentPoleTrack = append(result.ApparentPoleTrack, VectorToGeographic(apparentPole))
	}

	return result, nil
}
