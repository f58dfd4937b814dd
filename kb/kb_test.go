package kb

import (
	"fmt"
	"sync"
	"testing"

	"github.com/paleotrace/platedrift/core"
	"github.com/paleotrace/platedrift/model"
)

func testBody(id string) model.BodyDefinition {
	return model.BodyDefinition{
		ID:   id,
		Name: "Body " + id,
		Pole: model.RotationPole{
			Axis:                     model.GeographicPoint{LatDeg: 60, LonDeg: -90},
			AngularVelocityDegPerMyr: 0.5,
		},
		Reference: model.GeographicPoint{LatDeg: 30, LonDeg: -20},
	}
}

func testResult(t *testing.T, body model.BodyDefinition) *core.SimulationResult {
	t.Helper()
	result, err := core.SimulateBody(&body, model.TimeDomain{TotalTimeMyr: 10, TimeSteps: 3})
	if err != nil {
		t.Fatalf("SimulateBody: %v", err)
	}
	return result
}

func TestAddBodyAndDuplicate(t *testing.T) {
	store := NewKnowledgeBase()

	if err := store.AddBody(testBody("laurentia")); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := store.AddBody(testBody("laurentia")); err == nil {
		t.Fatalf("expected duplicate AddBody error")
	}
	if err := store.AddBody(model.BodyDefinition{}); err == nil {
		t.Fatalf("expected empty-ID AddBody error")
	}

	got, ok := store.GetBody("laurentia")
	if !ok || got.Name != "Body laurentia" {
		t.Fatalf("GetBody = %+v, %v", got, ok)
	}
}

func TestAddBodyRejectsInvalidPole(t *testing.T) {
	store := NewKnowledgeBase()
	bad := testBody("bad")
	bad.Pole.Axis.LatDeg = 120
	if err := store.AddBody(bad); err == nil {
		t.Fatalf("expected invalid pole error")
	}
}

func TestListBodiesSorted(t *testing.T) {
	store := NewKnowledgeBase()
	for _, id := range []string{"c", "a", "b"} {
		if err := store.AddBody(testBody(id)); err != nil {
			t.Fatalf("AddBody %s: %v", id, err)
		}
	}

	bodies := store.ListBodies()
	if len(bodies) != 3 {
		t.Fatalf("len = %d, want 3", len(bodies))
	}
	for i, want := range []string{"a", "b", "c"} {
		if bodies[i].ID != want {
			t.Fatalf("bodies[%d].ID = %s, want %s", i, bodies[i].ID, want)
		}
	}
}

func TestUpdateBodyDropsStaleResult(t *testing.T) {
	store := NewKnowledgeBase()
	body := testBody("laurentia")
	if err := store.AddBody(body); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := store.SetResult("laurentia", testResult(t, body)); err != nil {
		t.Fatalf("SetResult: %v", err)
	}

	body.Pole.AngularVelocityDegPerMyr = 1.5
	if err := store.UpdateBody(body); err != nil {
		t.Fatalf("UpdateBody: %v", err)
	}

	if _, ok := store.GetResult("laurentia"); ok {
		t.Fatalf("stale result survived UpdateBody")
	}
	if err := store.UpdateBody(testBody("unknown")); err == nil {
		t.Fatalf("expected UpdateBody error for unknown body")
	}
}

func TestSetResultUnknownBody(t *testing.T) {
	store := NewKnowledgeBase()
	if err := store.SetResult("ghost", &core.SimulationResult{}); err == nil {
		t.Fatalf("expected SetResult error for unknown body")
	}
}

func TestObservedTracks(t *testing.T) {
	store := NewKnowledgeBase()
	track, err := core.NewObservedPoleTrack([]core.ObservedPolePoint{
		{TimeMyr: 0, Position: model.GeographicPoint{LatDeg: 90}},
		{TimeMyr: 100, Position: model.GeographicPoint{LatDeg: 70, LonDeg: -40}},
	})
	if err != nil {
		t.Fatalf("NewObservedPoleTrack: %v", err)
	}

	if err := store.SetObservedTrack("apw", track); err != nil {
		t.Fatalf("SetObservedTrack: %v", err)
	}
	if err := store.SetObservedTrack("", track); err == nil {
		t.Fatalf("expected empty-ID error")
	}
	if err := store.SetObservedTrack("nil", nil); err == nil {
		t.Fatalf("expected nil-track error")
	}

	got, ok := store.GetObservedTrack("apw")
	if !ok || got.Len() != 2 {
		t.Fatalf("GetObservedTrack = %v, %v", got, ok)
	}
	if n := store.CountObservedTracks(); n != 1 {
		t.Fatalf("CountObservedTracks = %d, want 1", n)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	store := NewKnowledgeBase()

	var mu sync.Mutex
	var events []Event
	unsubscribe := store.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	body := testBody("laurentia")
	if err := store.AddBody(body); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := store.SetResult("laurentia", testResult(t, body)); err != nil {
		t.Fatalf("SetResult: %v", err)
	}

	mu.Lock()
	if len(events) != 2 {
		mu.Unlock()
		t.Fatalf("event count = %d, want 2", len(events))
	}
	if events[0].Type != EventBodyAdded || events[1].Type != EventTrackRecomputed {
		mu.Unlock()
		t.Fatalf("event types = %v, %v", events[0].Type, events[1].Type)
	}
	if events[1].Result == nil {
		mu.Unlock()
		t.Fatalf("recompute event carries no result")
	}
	mu.Unlock()

	unsubscribe()
	if err := store.AddBody(testBody("baltica")); err != nil {
		t.Fatalf("AddBody after unsubscribe: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("unsubscribed callback still fired, event count = %d", len(events))
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewKnowledgeBase()
	body := testBody("laurentia")
	if err := store.AddBody(body); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	result := testResult(t, body)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.AddBody(testBody(fmt.Sprintf("body-%d", n)))
			_ = store.SetResult("laurentia", result)
			store.ListBodies()
			store.GetResult("laurentia")
		}(i)
	}
	wg.Wait()

	if len(store.ListBodies()) != 9 {
		t.Fatalf("body count after concurrent adds = %d, want 9", len(store.ListBodies()))
	}
}
