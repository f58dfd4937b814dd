package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/internal/logging"
	"github.com/paleotrace/platedrift/kb"
	"github.com/paleotrace/platedrift/model"
)

// MetricsRecorder receives simulation telemetry; the observability collector
// implements it. A nil recorder disables recording.
type MetricsRecorder interface {
	ObserveSimulation(bodyID, outcome string, seconds float64, samples int)
	SetScenarioCounts(bodies, observedTracks int)
}

// Option configures a SimulationEngine.
type Option func(*SimulationEngine)

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(e *SimulationEngine) { e.metrics = rec }
}

// WithDomain overrides the default time domain used by Recompute and
// RecomputeAll.
func WithDomain(d model.TimeDomain) Option {
	return func(e *SimulationEngine) { e.domain = d }
}

// SimulationEngine recomputes track pairs for the bodies in the knowledge
// base. Each recomputation is a full, fresh run whose result replaces the
// previous one in the KB; nothing is updated incrementally. A full run is
// O(timeSteps) and cheap, so recompute-on-change is the only update path.
type SimulationEngine struct {
	store   *kb.KnowledgeBase
	log     logging.Logger
	metrics MetricsRecorder
	domain  model.TimeDomain
}

// NewEngine constructs an engine over the given knowledge base. The default
// time domain covers 120 Myr in 200 steps.
func NewEngine(store *kb.KnowledgeBase, log logging.Logger, opts ...Option) *SimulationEngine {
	if log == nil {
		log = logging.Noop()
	}
	e := &SimulationEngine{
		store:  store,
		log:    log,
		domain: model.TimeDomain{TotalTimeMyr: 120, TimeSteps: 200},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Domain returns the engine's default time domain.
func (e *SimulationEngine) Domain() model.TimeDomain {
	return e.domain
}

// Recompute runs the track generator for one body over the engine's default
// domain and stores the result.
func (e *SimulationEngine) Recompute(ctx context.Context, bodyID string) (*core.SimulationResult, error) {
	return e.RecomputeWithDomain(ctx, bodyID, e.domain)
}

// RecomputeWithDomain runs the track generator for one body over an explicit
// time domain, replaces the stored result, and records telemetry.
func (e *SimulationEngine) RecomputeWithDomain(ctx context.Context, bodyID string, domain model.TimeDomain) (*core.SimulationResult, error) {
	body, ok := e.store.GetBody(bodyID)
	if !ok {
		return nil, fmt.Errorf("recompute: body with ID %q not found", bodyID)
	}

	start := time.Now()
	result, err := core.SimulateBody(&body, domain)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		if e.metrics != nil {
			e.metrics.ObserveSimulation(bodyID, "error", elapsed, 0)
		}
		e.log.Warn(ctx, "track recomputation failed",
			logging.String("body", bodyID),
			logging.String("error", err.Error()),
		)
		return nil, err
	}

	if err := e.store.SetResult(bodyID, result); err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ObserveSimulation(bodyID, "ok", elapsed, len(result.Times))
	}
	e.log.Debug(ctx, "track recomputed",
		logging.String("body", bodyID),
		logging.Int("samples", len(result.Times)),
		logging.Float64("total_time_myr", domain.TotalTimeMyr),
	)
	return result, nil
}

// RecomputeAll recomputes every body in the knowledge base over the engine's
// default domain. It stops at the first failure so a bad body definition is
// reported rather than papered over.
func (e *SimulationEngine) RecomputeAll(ctx context.Context) error {
	bodies := e.store.ListBodies()
	for _, body := range bodies {
		if _, err := e.Recompute(ctx, body.ID); err != nil {
			return err
		}
	}
	e.syncGauges()
	e.log.Info(ctx, "recomputed all tracks", logging.Int("bodies", len(bodies)))
	return nil
}

func (e *SimulationEngine) syncGauges() {
	if e.metrics == nil {
		return
	}
	e.metrics.SetScenarioCounts(len(e.store.ListBodies()), e.store.CountObservedTracks())
}
