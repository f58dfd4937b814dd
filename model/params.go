package model

// TimeDomain is the sampled span of geologic time for a simulation run:
// TimeSteps evenly spaced samples over [0, TotalTimeMyr]. Positive time is
// the past relative to the present-day body.
type TimeDomain struct {
	TotalTimeMyr float64 `json:"total_time_myr"`
	TimeSteps    int     `json:"time_steps"`
}

// SimulationParams fully specifies one single-body simulation run. The run
// is a pure function of these values; there is no other state.
type SimulationParams struct {
	Pole      RotationPole    `json:"pole"`
	Domain    TimeDomain      `json:"domain"`
	Reference GeographicPoint `json:"reference"`
}
