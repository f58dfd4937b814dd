package observability

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DriftCollector bundles Prometheus metrics for the simulator and provides
// helpers to wire them into HTTP handlers.
type DriftCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	SimulationRuns     *prometheus.CounterVec
	SimulationDuration prometheus.Histogram

	ScenarioBodies         prometheus.Gauge
	ScenarioObservedTracks prometheus.Gauge
	TrackSamples           prometheus.Gauge
}

// NewDriftCollector registers simulator Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewDriftCollector(reg prometheus.Registerer) (*DriftCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "platedrift_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by path, method, and status code.",
	}, []string{"path", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "platedrift_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "platedrift_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
	durations, err = registerHistogramVec(reg, durations, "platedrift_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "platedrift_simulation_runs_total",
		Help: "Total number of track recomputations, labeled by body ID and outcome.",
	}, []string{"body", "outcome"})
	runs, err = registerCounterVec(reg, runs, "platedrift_simulation_runs_total")
	if err != nil {
		return nil, err
	}

	runDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "platedrift_simulation_duration_seconds",
		Help:    "Wall-clock duration of one full track recomputation.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "platedrift_simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "platedrift_scenario_bodies",
		Help: "Current number of rotating bodies in the knowledge base.",
	}), "platedrift_scenario_bodies")
	if err != nil {
		return nil, err
	}
	observed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "platedrift_scenario_observed_tracks",
		Help: "Current number of observed pole tracks in the knowledge base.",
	}), "platedrift_scenario_observed_tracks")
	if err != nil {
		return nil, err
	}
	samples, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "platedrift_track_samples",
		Help: "Number of time samples in the most recent recomputation.",
	}), "platedrift_track_samples")
	if err != nil {
		return nil, err
	}

	return &DriftCollector{
		gatherer:               gatherer,
		HTTPRequests:           requests,
		HTTPDurations:          durations,
		SimulationRuns:         runs,
		SimulationDuration:     runDuration,
		ScenarioBodies:         bodies,
		ScenarioObservedTracks: observed,
		TrackSamples:           samples,
	}, nil
}

// Middleware records request counts and durations around an HTTP handler.
func (c *DriftCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)

		path := r.URL.Path
		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(path, r.Method, strconv.Itoa(sr.statusCode)).Inc()
		}
		if c.HTTPDurations != nil {
			c.HTTPDurations.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *DriftCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveSimulation records one recomputation. Outcome is "ok" or "error";
// samples is the track length (ignored when zero).
func (c *DriftCollector) ObserveSimulation(bodyID, outcome string, seconds float64, samples int) {
	if c == nil {
		return
	}
	if c.SimulationRuns != nil {
		c.SimulationRuns.WithLabelValues(bodyID, outcome).Inc()
	}
	if c.SimulationDuration != nil {
		c.SimulationDuration.Observe(seconds)
	}
	if c.TrackSamples != nil && samples > 0 {
		c.TrackSamples.Set(float64(samples))
	}
}

// SetScenarioCounts drives the scenario gauges; the knowledge base owner
// calls this after loads and mutations.
func (c *DriftCollector) SetScenarioCounts(bodies, observedTracks int) {
	if c == nil {
		return
	}
	if c.ScenarioBodies != nil {
		c.ScenarioBodies.Set(float64(bodies))
	}
	if c.ScenarioObservedTracks != nil {
		c.ScenarioObservedTracks.Set(float64(observedTracks))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the metrics wrapper.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
