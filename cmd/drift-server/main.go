// Command drift-server serves the plate-motion simulator over HTTP: the
// simulation API, observed-track interpolation, websocket playback, and
// Prometheus metrics.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/paleotrace/platedrift/internal/httpapi"
	"github.com/paleotrace/platedrift/internal/logging"
	"github.com/paleotrace/platedrift/internal/observability"
	"github.com/paleotrace/platedrift/internal/sim"
	"github.com/paleotrace/platedrift/kb"
	"github.com/paleotrace/platedrift/model"
)

func main() {
	httpAddr := flag.String("http-addr", ":8080", "TCP address the HTTP API listens on")
	scenarioPath := flag.String("scenario", "configs/scenario.json", "path to a JSON scenario with bodies and observed tracks")
	totalTime := flag.Float64("total-time", 120.0, "default simulation span in million years")
	timeSteps := flag.Int("time-steps", 200, "default number of time steps")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	collector, err := observability.NewDriftCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	store := kb.NewKnowledgeBase()
	loadScenario(ctx, log, store, *scenarioPath)

	engine := sim.NewEngine(store, log,
		sim.WithMetricsRecorder(collector),
		sim.WithDomain(model.TimeDomain{TotalTimeMyr: *totalTime, TimeSteps: *timeSteps}),
	)
	if err := engine.RecomputeAll(ctx); err != nil {
		log.Error(ctx, "initial recompute failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	server := httpapi.NewServer(*httpAddr, store, engine, collector, log)

	log.Info(ctx, "starting HTTP API", logging.String("addr", *httpAddr))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server exited", logging.String("error", err.Error()))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.HTTPServer().Shutdown(shutdownCtx)
}

// loadScenario reads the scenario file when present; a missing file leaves
// an empty knowledge base, which the API can still serve (ad-hoc simulate
// does not need bodies).
func loadScenario(ctx context.Context, log logging.Logger, store *kb.KnowledgeBase, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn(ctx, "skipping scenario load", logging.String("path", path), logging.String("error", err.Error()))
		return
	}
	defer f.Close()

	scenario, err := kb.LoadScenario(store, f)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", path), logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "loaded scenario",
		logging.String("path", path),
		logging.Int("bodies", len(scenario.BodyIDs)),
		logging.Int("observed_tracks", len(scenario.ObservedTrackIDs)),
	)
}
