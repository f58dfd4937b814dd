package timectrl

import (
	"sync"
	"time"
)

// GeoClock is an interface for accessing the current playback position on
// the geologic time axis, in million years before present. Consumers (the
// playback stream, table views) depend on this abstraction rather than the
// concrete controller type, which keeps them testable.
type GeoClock interface {
	// NowMyr returns the current playback time in Myr.
	NowMyr() float64
}

// Mode describes how the PlaybackController advances geologic time.
type Mode int

const (
	// Paced advances one step per wall-clock tick.
	Paced Mode = iota
	// Looping restarts from the beginning after reaching the end of the span.
	Looping
)

// PlaybackController steps through a geologic time span and notifies
// registered listeners on every step. It implements GeoClock.
//
// The controller only walks the time axis; it never touches track data.
// Listeners index into their own precomputed tracks or interpolate observed
// tracks at the reported time.
type PlaybackController struct {
	mu      sync.RWMutex
	StepMyr float64
	EndMyr  float64
	Tick    time.Duration
	Mode    Mode

	currentMyr float64

	listeners []func(float64)
}

// NewPlaybackController constructs a controller covering [0, endMyr] in
// steps of stepMyr, advancing one step every tick of wall time.
func NewPlaybackController(endMyr, stepMyr float64, tick time.Duration, mode Mode) *PlaybackController {
	return &PlaybackController{
		StepMyr: stepMyr,
		EndMyr:  endMyr,
		Tick:    tick,
		Mode:    mode,
	}
}

// NowMyr returns the current playback time. Implements GeoClock.
func (pc *PlaybackController) NowMyr() float64 {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.currentMyr
}

// Seek moves the playback position without waiting for a tick.
func (pc *PlaybackController) Seek(myr float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if myr < 0 {
		myr = 0
	} else if myr > pc.EndMyr {
		myr = pc.EndMyr
	}
	pc.currentMyr = myr
}

// AddListener registers a callback invoked on every step with the new
// playback time.
func (pc *PlaybackController) AddListener(fn func(float64)) {
	pc.listeners = append(pc.listeners, fn)
}

// Start runs the controller in a separate goroutine until the span is
// exhausted (Paced) or stop is closed. It returns a channel that is closed
// when playback finishes.
func (pc *PlaybackController) Start(stop <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		pc.mu.Lock()
		pc.currentMyr = 0
		pc.mu.Unlock()

		ticker := time.NewTicker(pc.Tick)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			pc.mu.Lock()
			next := pc.currentMyr + pc.StepMyr
			if next > pc.EndMyr {
				if pc.Mode == Looping {
					next = 0
				} else {
					next = pc.EndMyr
				}
			}
			finished := pc.Mode == Paced && pc.currentMyr >= pc.EndMyr
			pc.currentMyr = next
			pc.mu.Unlock()

			if finished {
				return
			}

			for _, fn := range pc.listeners {
				fn(next)
			}
		}
	}()
	return done
}
