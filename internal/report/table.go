// Package report renders tabular summaries of simulation results for
// console output.
package report

import (
	"fmt"
	"strings"

	"github.com/paleotrace/platedrift/core"
)

const header = "Time (Myr)  | Continent Lat  | Continent Lon  | Apparent Pole Lat  | Apparent Pole Lon"

// SummaryTable formats a fixed-width table of the result, down-sampled to at
// most maxRows entries so the console stays readable for long runs. The
// down-sampling picks evenly spaced indices across the whole track, always
// including the first and last sample.
func SummaryTable(result *core.SimulationResult, maxRows int) string {
	if result == nil || len(result.Times) == 0 {
		return header + "\n" + strings.Repeat("-", len(header))
	}
	if maxRows < 1 {
		maxRows = 1
	}

	rows := maxRows
	if n := len(result.Times); rows > n {
		rows = n
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(header)))

	for _, idx := range sampleIndices(len(result.Times), rows) {
		t := result.Times[idx]
		c := result.ContinentTrack[idx]
		p := result.ApparentPoleTrack[idx]
		fmt.Fprintf(&b, "\n%9.1f | %14.2f | %14.2f | %17.2f | %17.2f",
			t, c.LatDeg, c.LonDeg, p.LatDeg, p.LonDeg)
	}

	if rows < len(result.Times) {
		b.WriteString("\n... (table truncated) ...")
	}

	return b.String()
}

// sampleIndices returns rows distinct indices evenly spread over [0, n-1].
func sampleIndices(n, rows int) []int {
	positions := core.Linspace(0, float64(n-1), rows)
	indices := make([]int, 0, rows)
	last := -1
	for _, pos := range positions {
		idx := int(pos)
		if idx == last {
			continue
		}
		indices = append(indices, idx)
		last = idx
	}
	return indices
}
