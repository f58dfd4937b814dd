// Package httpapi exposes the simulator over HTTP: JSON endpoints for
// simulation runs, body listings, observed-track interpolation, and a
// websocket playback stream. It is a consumer of the kinematics core; all
// track data crosses this boundary as plain latitude/longitude sequences.
package httpapi

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/internal/logging"
	"github.com/paleotrace/platedrift/internal/observability"
	"github.com/paleotrace/platedrift/internal/sim"
	"github.com/paleotrace/platedrift/kb"
	"github.com/paleotrace/platedrift/model"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
	store      *kb.KnowledgeBase
	engine     *sim.SimulationEngine
}

// NewServer creates a configured HTTP server. collector may be nil, which
// disables the /metrics endpoint and request metrics.
func NewServer(addr string, store *kb.KnowledgeBase, engine *sim.SimulationEngine, collector *observability.DriftCollector, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}
	s := &Server{
		log:    log,
		store:  store,
		engine: engine,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}
	mux.HandleFunc("POST /api/v1/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/v1/bodies", s.handleListBodies)
	mux.HandleFunc("GET /api/v1/bodies/{id}/track", s.handleBodyTrack)
	mux.HandleFunc("GET /api/v1/observed/{id}", s.handleObserved)
	mux.HandleFunc("GET /api/v1/playback/{id}", s.handlePlayback)

	// Middleware chain: metrics -> request logging -> mux.
	var handler http.Handler = mux
	handler = requestLogMiddleware(log)(handler)
	if collector != nil {
		handler = collector.Middleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control
// (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx, span := StartSpan(r.Context(), "Simulate")
	defer span.End()

	var params model.SimulationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := core.Simulate(params)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	span.SetAttributes(attribute.Int("samples", len(result.Times)))
	s.log.Debug(ctx, "ad-hoc simulation served",
		logging.Int("samples", len(result.Times)),
		logging.Float64("total_time_myr", params.Domain.TotalTimeMyr),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListBodies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListBodies())
}

func (s *Server) handleBodyTrack(w http.ResponseWriter, r *http.Request) {
	ctx, span := StartSpan(r.Context(), "BodyTrack")
	defer span.End()

	id := r.PathValue("id")
	span.SetAttributes(attribute.String("body_id", id))
	if _, ok := s.store.GetBody(id); !ok {
		writeError(w, http.StatusNotFound, "body not found: "+id)
		return
	}

	domain := s.engine.Domain()
	if raw := r.URL.Query().Get("total_time_myr"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid total_time_myr: "+raw)
			return
		}
		domain.TotalTimeMyr = v
	}
	if raw := r.URL.Query().Get("time_steps"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid time_steps: "+raw)
			return
		}
		domain.TimeSteps = v
	}

	result, err := s.engine.RecomputeWithDomain(ctx, id, domain)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleObserved(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	track, ok := s.store.GetObservedTrack(id)
	if !ok {
		writeError(w, http.StatusNotFound, "observed track not found: "+id)
		return
	}

	raw := r.URL.Query().Get("time_myr")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing time_myr query parameter")
		return
	}
	tMyr, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time_myr: "+raw)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"time_myr": tMyr,
		"position": track.InterpolateAt(tMyr),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogMiddleware(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, reqLog := logging.WithRequestLogger(r.Context(), log)

			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sr, r.WithContext(ctx))

			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				return
			}
			reqLog.Info(ctx, "request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", sr.statusCode),
				logging.Int("duration_ms", int(time.Since(start).Milliseconds())),
			)
		})
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

// Hijack lets the websocket upgrade reach the underlying connection through
// the middleware wrappers.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}
