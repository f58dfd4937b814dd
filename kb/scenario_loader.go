package kb

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/model"
)

// Scenario is a small summary of what was loaded from JSON. It's mainly
// useful for logging from main().
type Scenario struct {
	BodyIDs          []string
	ObservedTrackIDs []string
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Bodies         []bodyJSON          `json:"bodies"`
	ObservedTracks []observedTrackJSON `json:"observed_tracks"`
}

type bodyJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Pole      poleJSON  `json:"pole"`
	Reference pointJSON `json:"reference"`
}

type poleJSON struct {
	Axis                     pointJSON `json:"axis"`
	AngularVelocityDegPerMyr float64   `json:"angular_velocity_deg_per_myr"`
}

type pointJSON struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
}

type observedTrackJSON struct {
	ID     string              `json:"id"`
	Points []observedPointJSON `json:"points"`
}

type observedPointJSON struct {
	TimeMyr float64 `json:"time_myr"`
	LatDeg  float64 `json:"lat_deg"`
	LonDeg  float64 `json:"lon_deg"`
}

// LoadScenario reads a JSON scenario from r, populates the KnowledgeBase
// with bodies and observed pole tracks, and returns a summary of what was
// loaded. It fails on JSON errors and on KB invariant violations (duplicate
// IDs, invalid poles, non-monotonic tracks) so that a bad scenario file is
// reported whole rather than half-applied silently.
func LoadScenario(store *KnowledgeBase, r io.Reader) (*Scenario, error) {
	if store == nil {
		return nil, fmt.Errorf("LoadScenario: kb is nil")
	}

	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	result := &Scenario{
		BodyIDs:          make([]string, 0, len(payload.Bodies)),
		ObservedTrackIDs: make([]string, 0, len(payload.ObservedTracks)),
	}

	for _, jsBody := range payload.Bodies {
		if jsBody.ID == "" {
			return nil, fmt.Errorf("LoadScenario: body with empty id")
		}
		body := model.BodyDefinition{
			ID:   jsBody.ID,
			Name: jsBody.Name,
			Pole: model.RotationPole{
				Axis: model.GeographicPoint{
					LatDeg: jsBody.Pole.Axis.LatDeg,
					LonDeg: jsBody.Pole.Axis.LonDeg,
				},
				AngularVelocityDegPerMyr: jsBody.Pole.AngularVelocityDegPerMyr,
			},
			Reference: model.GeographicPoint{
				LatDeg: jsBody.Reference.LatDeg,
				LonDeg: jsBody.Reference.LonDeg,
			},
		}
		if err := store.AddBody(body); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
		result.BodyIDs = append(result.BodyIDs, jsBody.ID)
	}

	for _, jsTrack := range payload.ObservedTracks {
		if jsTrack.ID == "" {
			return nil, fmt.Errorf("LoadScenario: observed track with empty id")
		}
		points := make([]core.ObservedPolePoint, 0, len(jsTrack.Points))
		for _, jsPt := range jsTrack.Points {
			points = append(points, core.ObservedPolePoint{
				TimeMyr: jsPt.TimeMyr,
				Position: model.GeographicPoint{
					LatDeg: jsPt.LatDeg,
					LonDeg: jsPt.LonDeg,
				},
			})
		}
		track, err := core.NewObservedPoleTrack(points)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: observed track %q: %w", jsTrack.ID, err)
		}
		if err := store.SetObservedTrack(jsTrack.ID, track); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
		result.ObservedTrackIDs = append(result.ObservedTrackIDs, jsTrack.ID)
	}

	return result, nil
}
