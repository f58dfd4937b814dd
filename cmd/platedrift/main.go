// Command platedrift runs a single plate-motion simulation and prints a
// summary table contrasting the continent's reconstructed drift path with
// its apparent polar wander path.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/internal/report"
	"github.com/paleotrace/platedrift/model"
)

func main() {
	angularVelocity := flag.Float64("angular-velocity", 0.5, "plate angular velocity in degrees per million years")
	axisLat := flag.Float64("axis-lat", 60.0, "latitude of the Euler rotation pole in degrees")
	axisLon := flag.Float64("axis-lon", -90.0, "longitude of the Euler rotation pole in degrees")
	totalTime := flag.Float64("total-time", 120.0, "total time span to simulate in million years")
	timeSteps := flag.Int("time-steps", 200, "number of discrete time steps")
	continentLat := flag.Float64("continent-lat", 30.0, "present-day latitude of the continental reference point")
	continentLon := flag.Float64("continent-lon", -20.0, "present-day longitude of the continental reference point")
	maxRows := flag.Int("max-rows", 15, "maximum number of rows in the summary table")
	jsonPath := flag.String("json", "", "optional path to write the full result as JSON")
	flag.Parse()

	params := model.SimulationParams{
		Pole: model.RotationPole{
			Axis:                     model.GeographicPoint{LatDeg: *axisLat, LonDeg: *axisLon},
			AngularVelocityDegPerMyr: *angularVelocity,
		},
		Domain: model.TimeDomain{
			TotalTimeMyr: *totalTime,
			TimeSteps:    *timeSteps,
		},
		Reference: model.GeographicPoint{LatDeg: *continentLat, LonDeg: *continentLon},
	}

	result, err := core.Simulate(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "platedrift: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Euler pole: (%.1f°, %.1f°), angular velocity: %.2f°/Myr, span: %.0f Myr in %d steps\n\n",
		*axisLat, *axisLon, *angularVelocity, *totalTime, *timeSteps)
	fmt.Println(report.SummaryTable(result, *maxRows))

	if *jsonPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "platedrift: encode result: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "platedrift: write %s: %v\n", *jsonPath, err)
			os.Exit(1)
		}
		fmt.Printf("\nSaved full result to %s\n", *jsonPath)
	}
}
