package model

import "math"

// GeographicPoint is a position on the unit sphere in degrees.
// Latitude is in [-90, 90]; longitude uses the atan2 branch cut (-180, 180].
type GeographicPoint struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
}

// NorthPole is the geographic North Pole. Longitude there is undefined;
// by convention we report 0.
var NorthPole = GeographicPoint{LatDeg: 90, LonDeg: 0}

// Valid reports whether the point has a finite latitude in range and a
// finite longitude. Longitude outside (-180, 180] is tolerated on input;
// it wraps onto the sphere unambiguously.
func (p GeographicPoint) Valid() bool {
	if math.IsNaN(p.LatDeg) || math.IsInf(p.LatDeg, 0) {
		return false
	}
	if math.IsNaN(p.LonDeg) || math.IsInf(p.LonDeg, 0) {
		return false
	}
	return p.LatDeg >= -90 && p.LatDeg <= 90
}
