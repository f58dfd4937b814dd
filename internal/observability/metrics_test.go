package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	handler := collector.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bodies", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/v1/bodies", "GET", "200")); got != 1 {
		t.Fatalf("platedrift_http_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "platedrift_http_request_duration_seconds", map[string]string{
		"path":   "/api/v1/bodies",
		"method": "GET",
	}); count != 1 {
		t.Fatalf("duration sample_count = %d, want 1", count)
	}
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	handler := collector.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/v1/simulate", "POST", "400")); got != 1 {
		t.Fatalf("error-status counter = %v, want 1", got)
	}
}

func TestObserveSimulation(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	collector.ObserveSimulation("laurentia", "ok", 0.002, 200)
	collector.ObserveSimulation("laurentia", "error", 0.001, 0)

	if got := testutil.ToFloat64(collector.SimulationRuns.WithLabelValues("laurentia", "ok")); got != 1 {
		t.Fatalf("ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.SimulationRuns.WithLabelValues("laurentia", "error")); got != 1 {
		t.Fatalf("error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.TrackSamples); got != 200 {
		t.Fatalf("track samples gauge = %v, want 200 (error run must not clear it)", got)
	}
}

func TestHandlerExposesScenarioGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}
	collector.SetScenarioCounts(3, 4)
	collector.HTTPRequests.WithLabelValues("/healthz", "GET", "200").Inc()
	collector.HTTPDurations.WithLabelValues("/healthz", "GET").Observe(0.01)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"platedrift_http_requests_total",
		"platedrift_http_request_duration_seconds",
		"platedrift_simulation_runs_total",
		"platedrift_scenario_bodies",
		"platedrift_scenario_observed_tracks",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNewDriftCollectorIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("first NewDriftCollector: %v", err)
	}
	second, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("second NewDriftCollector against same registry: %v", err)
	}
	if first.HTTPRequests != second.HTTPRequests {
		t.Fatalf("re-registration should return the existing collectors")
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
