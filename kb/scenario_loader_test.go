package kb

import (
	"strings"
	"testing"
)

const sampleScenario = `{
  "bodies": [
    {
      "id": "laurentia",
      "name": "Laurentia reference point",
      "pole": {
        "axis": { "lat_deg": 60.0, "lon_deg": -90.0 },
        "angular_velocity_deg_per_myr": 0.5
      },
      "reference": { "lat_deg": 30.0, "lon_deg": -20.0 }
    }
  ],
  "observed_tracks": [
    {
      "id": "laurentia-apw",
      "points": [
        { "time_myr": 0, "lat_deg": 90.0, "lon_deg": 0.0 },
        { "time_myr": 120, "lat_deg": 66.5, "lon_deg": -61.0 }
      ]
    }
  ]
}`

func TestLoadScenario(t *testing.T) {
	store := NewKnowledgeBase()

	scenario, err := LoadScenario(store, strings.NewReader(sampleScenario))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(scenario.BodyIDs) != 1 || scenario.BodyIDs[0] != "laurentia" {
		t.Fatalf("BodyIDs = %v", scenario.BodyIDs)
	}
	if len(scenario.ObservedTrackIDs) != 1 || scenario.ObservedTrackIDs[0] != "laurentia-apw" {
		t.Fatalf("ObservedTrackIDs = %v", scenario.ObservedTrackIDs)
	}

	body, ok := store.GetBody("laurentia")
	if !ok {
		t.Fatalf("body not stored")
	}
	if body.Pole.AngularVelocityDegPerMyr != 0.5 || body.Reference.LonDeg != -20 {
		t.Fatalf("body fields = %+v", body)
	}

	track, ok := store.GetObservedTrack("laurentia-apw")
	if !ok || track.Len() != 2 {
		t.Fatalf("observed track not stored: %v, %v", track, ok)
	}
	if got := track.InterpolateAt(60); got.LatDeg >= 90 || got.LatDeg <= 66.5 {
		t.Fatalf("interpolated latitude = %v, want between end points", got.LatDeg)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"malformed JSON", `{"bodies": [`},
		{"empty body ID", `{"bodies": [{"id": ""}]}`},
		{"invalid pole", `{"bodies": [{"id": "x", "pole": {"axis": {"lat_deg": 120}}}]}`},
		{"empty observed track", `{"observed_tracks": [{"id": "x", "points": []}]}`},
		{"non-monotonic track", `{"observed_tracks": [{"id": "x", "points": [
			{"time_myr": 10, "lat_deg": 80}, {"time_myr": 5, "lat_deg": 70}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewKnowledgeBase()
			if _, err := LoadScenario(store, strings.NewReader(tc.json)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadScenarioNilKB(t *testing.T) {
	if _, err := LoadScenario(nil, strings.NewReader("{}")); err == nil {
		t.Fatalf("expected error for nil KB")
	}
}
