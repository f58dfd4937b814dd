package kb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/model"
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventBodyAdded EventType = iota
	EventBodyUpdated
	EventTrackRecomputed
)

// Event is emitted to subscribers when something interesting happens.
// Result is only set for EventTrackRecomputed.
type Event struct {
	Type   EventType
	BodyID string
	Result *core.SimulationResult
}

// KnowledgeBase is an in-memory, thread-safe store for rotating bodies,
// their observed pole tracks, and the latest computed track pair per body.
// Bodies are immutable values keyed by a stable identifier; an update
// replaces the whole value. Computed results are replaced in full on every
// recompute, never patched.
type KnowledgeBase struct {
	mu sync.RWMutex

	bodies   map[string]model.BodyDefinition
	observed map[string]*core.ObservedPoleTrack
	results  map[string]*core.SimulationResult

	subs []func(Event)
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		bodies:   make(map[string]model.BodyDefinition),
		observed: make(map[string]*core.ObservedPoleTrack),
		results:  make(map[string]*core.SimulationResult),
	}
}

// AddBody adds a new body. It returns an error if the ID already exists or
// the definition is invalid.
func (kb *KnowledgeBase) AddBody(b model.BodyDefinition) error {
	if b.ID == "" {
		return fmt.Errorf("body with empty ID")
	}
	if !b.Pole.Valid() || !b.Reference.Valid() {
		return fmt.Errorf("body %q has an invalid pole or reference point", b.ID)
	}

	kb.mu.Lock()
	if _, exists := kb.bodies[b.ID]; exists {
		kb.mu.Unlock()
		return fmt.Errorf("body with ID %q already exists", b.ID)
	}
	kb.bodies[b.ID] = b
	subs := kb.snapshotSubsLocked()
	kb.mu.Unlock()

	notify(subs, Event{Type: EventBodyAdded, BodyID: b.ID})
	return nil
}

// UpdateBody replaces an existing body definition and drops any stale
// computed result for it.
func (kb *KnowledgeBase) UpdateBody(b model.BodyDefinition) error {
	if !b.Pole.Valid() || !b.Reference.Valid() {
		return fmt.Errorf("body %q has an invalid pole or reference point", b.ID)
	}

	kb.mu.Lock()
	if _, exists := kb.bodies[b.ID]; !exists {
		kb.mu.Unlock()
		return fmt.Errorf("body with ID %q not found", b.ID)
	}
	kb.bodies[b.ID] = b
	delete(kb.results, b.ID)
	subs := kb.snapshotSubsLocked()
	kb.mu.Unlock()

	notify(subs, Event{Type: EventBodyUpdated, BodyID: b.ID})
	return nil
}

// GetBody returns the body with the given ID.
func (kb *KnowledgeBase) GetBody(id string) (model.BodyDefinition, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	b, ok := kb.bodies[id]
	return b, ok
}

// ListBodies returns a snapshot of all bodies, sorted by ID for stable
// iteration in callers and tests.
func (kb *KnowledgeBase) ListBodies() []model.BodyDefinition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]model.BodyDefinition, 0, len(kb.bodies))
	for _, b := range kb.bodies {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// SetObservedTrack registers (or replaces) the observed pole track for a
// body ID.
func (kb *KnowledgeBase) SetObservedTrack(id string, track *core.ObservedPoleTrack) error {
	if id == "" {
		return fmt.Errorf("observed track with empty ID")
	}
	if track == nil || track.Len() == 0 {
		return fmt.Errorf("observed track %q: %w", id, core.ErrEmptyTrack)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.observed[id] = track
	return nil
}

// GetObservedTrack returns the observed pole track for an ID.
func (kb *KnowledgeBase) GetObservedTrack(id string) (*core.ObservedPoleTrack, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	tr, ok := kb.observed[id]
	return tr, ok
}

// CountObservedTracks returns the number of registered observed tracks.
func (kb *KnowledgeBase) CountObservedTracks() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.observed)
}

// SetResult stores a freshly computed track pair for a body, replacing the
// previous one wholesale, and notifies subscribers.
func (kb *KnowledgeBase) SetResult(id string, result *core.SimulationResult) error {
	kb.mu.Lock()
	if _, ok := kb.bodies[id]; !ok {
		kb.mu.Unlock()
		return fmt.Errorf("body with ID %q not found", id)
	}
	kb.results[id] = result
	subs := kb.snapshotSubsLocked()
	kb.mu.Unlock()

	notify(subs, Event{Type: EventTrackRecomputed, BodyID: id, Result: result})
	return nil
}

// GetResult returns the latest computed result for a body, if any.
func (kb *KnowledgeBase) GetResult(id string) (*core.SimulationResult, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	r, ok := kb.results[id]
	return r, ok
}

// Subscribe registers a callback for KB events. It returns an unsubscribe
// function.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.subs = append(kb.subs, fn)
	idx := len(kb.subs) - 1

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		if idx < 0 || idx >= len(kb.subs) {
			return
		}
		kb.subs = append(kb.subs[:idx], kb.subs[idx+1:]...)
		idx = -1
	}
}

func (kb *KnowledgeBase) snapshotSubsLocked() []func(Event) {
	return append([]func(Event){}, kb.subs...)
}

// notify runs outside the KB lock to avoid deadlocks with subscribers that
// call back into the KB.
func notify(subs []func(Event), ev Event) {
	for _, sub := range subs {
		sub(ev)
	}
}
