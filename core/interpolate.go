package core

import (
	"errors"
	"fmt"

	"github.com/paleotrace/platedrift/model"
)

var (
	ErrEmptyTrack        = errors.New("observed track needs at least one control point")
	ErrNonMonotonicTrack = errors.New("observed track times must be strictly increasing")
)

// ObservedPolePoint is one empirically observed pole position at a geologic
// time.
type ObservedPolePoint struct {
	TimeMyr  float64               `json:"time_myr"`
	Position model.GeographicPoint `json:"position"`
}

// ObservedPoleTrack is a sparse, strictly time-ordered sequence of observed
// pole positions, queried by interpolation rather than computed from a
// rotation. Construct via NewObservedPoleTrack so the ordering invariant
// holds for every value in circulation.
type ObservedPoleTrack struct {
	points []ObservedPolePoint
}

// NewObservedPoleTrack validates and wraps a control-point sequence.
func NewObservedPoleTrack(points []ObservedPolePoint) (*ObservedPoleTrack, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	for i, pt := range points {
		if !pt.Position.Valid() {
			return nil, fmt.Errorf("control point %d: %w, got %v", i, ErrBadLatitude, pt.Position.LatDeg)
		}
		if i > 0 && pt.TimeMyr <= points[i-1].TimeMyr {
			return nil, fmt.Errorf("%w: point %d at %v Myr after %v Myr",
				ErrNonMonotonicTrack, i, pt.TimeMyr, points[i-1].TimeMyr)
		}
	}
	cloned := make([]ObservedPolePoint, len(points))
	copy(cloned, points)
	return &ObservedPoleTrack{points: cloned}, nil
}

// Len returns the number of control points.
func (tr *ObservedPoleTrack) Len() int { return len(tr.points) }

// Points returns a copy of the control points.
func (tr *ObservedPoleTrack) Points() []ObservedPolePoint {
	out := make([]ObservedPolePoint, len(tr.points))
	copy(out, tr.points)
	return out
}

// InterpolateAt samples the track at an arbitrary geologic time. Queries
// before the first control point clamp to it, queries after the last clamp
// to the last; in between, latitude and longitude are interpolated linearly
// and independently between the bracketing points.
//
// Independent lat/lon interpolation is not great-circle correct and will
// bias segments that cross the anti-meridian or pass near a pole. That is
// acceptable for the sparse, smoothly varying control data this targets.
func (tr *ObservedPoleTrack) InterpolateAt(tMyr float64) model.GeographicPoint {
	first := tr.points[0]
	last := tr.points[len(tr.points)-1]
	if tMyr <= first.TimeMyr {
		return first.Position
	}
	if tMyr >= last.TimeMyr {
		return last.Position
	}

	for i := 1; i < len(tr.points); i++ {
		a, b := tr.points[i-1], tr.points[i]
		if tMyr > b.TimeMyr {
			continue
		}
		frac := (tMyr - a.TimeMyr) / (b.TimeMyr - a.TimeMyr)
		return model.GeographicPoint{
			LatDeg: lerp(a.Position.LatDeg, b.Position.LatDeg, frac),
			LonDeg: lerp(a.Position.LonDeg, b.Position.LonDeg, frac),
		}
	}
	return last.Position // unreachable given the clamp above
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
