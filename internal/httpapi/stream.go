package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/internal/logging"
	"github.com/paleotrace/platedrift/model"
	"github.com/paleotrace/platedrift/timectrl"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The stream is read-only simulation output; cross-origin viewers are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// playbackSample is one frame of the playback stream.
type playbackSample struct {
	TimeMyr      float64               `json:"time_myr"`
	Continent    model.GeographicPoint `json:"continent"`
	ApparentPole model.GeographicPoint `json:"apparent_pole"`
}

// handlePlayback streams a body's precomputed track pair over a websocket,
// one sample per playback tick. The playback controller only walks the time
// axis; samples come from the stored result, which is never mutated while
// streaming (recomputes replace the stored pointer wholesale).
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, ok := s.store.GetResult(id)
	if !ok {
		recomputed, err := s.engine.Recompute(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		result = recomputed
	}

	interval := 100 * time.Millisecond
	if raw := r.URL.Query().Get("interval_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 10 {
			writeError(w, http.StatusBadRequest, "invalid interval_ms: "+raw)
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(sampleAt(result, 0)); err != nil {
		return
	}
	if len(result.Times) == 1 {
		return
	}

	endMyr := result.Times[len(result.Times)-1]
	stepMyr := endMyr / float64(len(result.Times)-1)
	if stepMyr <= 0 {
		// Degenerate span: every sample coincides at t=0; one frame says it all.
		return
	}

	pc := timectrl.NewPlaybackController(endMyr, stepMyr, interval, timectrl.Paced)
	frames := make(chan float64, 1)
	pc.AddListener(func(tMyr float64) {
		select {
		case frames <- tMyr:
		default:
		}
	})

	stop := make(chan struct{})
	defer close(stop)
	done := pc.Start(stop)

	// Watch for the client going away; reads fail when the peer closes.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-closed:
			return
		case tMyr := <-frames:
			if err := conn.WriteJSON(sampleAt(result, nearestIndex(result.Times, tMyr))); err != nil {
				return
			}
		}
	}
}

func sampleAt(result *core.SimulationResult, idx int) playbackSample {
	return playbackSample{
		TimeMyr:      result.Times[idx],
		Continent:    result.ContinentTrack[idx],
		ApparentPole: result.ApparentPoleTrack[idx],
	}
}

func nearestIndex(times []float64, tMyr float64) int {
	best := 0
	bestDist := math.Abs(times[0] - tMyr)
	for i, t := range times[1:] {
		if d := math.Abs(t - tMyr); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}
