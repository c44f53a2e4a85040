package solartime

import (
	"errors"
	"testing"
	"time"
)

func mkProvider(id string, events EventMap) eventProvider {
	return eventProvider{
		id: id,
		fn: func(ref time.Time, lat, lon, alt float64) (EventMap, error) {
			return events.Clone(), nil
		},
	}
}

func TestAggregateMergeDeterminism(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	t1 := ref.Add(1 * time.Hour)
	t2 := ref.Add(2 * time.Hour)
	t3 := ref.Add(3 * time.Hour)
	t4 := ref.Add(4 * time.Hour)

	providers := []eventProvider{
		mkProvider("p1", EventMap{"A": t1, "B": t2}),
		mkProvider("p2", EventMap{"B": t3, "C": t4}),
	}

	res := aggregate(Coordinates{}, ref, DefaultStaleness, nil, nil, providers)

	want := EventMap{"A": t1, "B": t3, "C": t4}
	if len(res.events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(res.events), res.events)
	}
	for name, ts := range want {
		if !res.events[name].Equal(ts) {
			t.Fatalf("event %s: expected %v, got %v", name, ts, res.events[name])
		}
	}

	found := false
	for _, name := range res.collisions {
		if name == "B" {
			found = true
		}
	}
	if !found {
		t.Fatalf("collision list should contain B, got %v", res.collisions)
	}
}

func TestAggregatePruning(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	providers := []eventProvider{
		mkProvider("p", EventMap{
			"old":    ref.Add(-4 * time.Hour),
			"recent": ref.Add(-2 * time.Hour),
			"future": ref.Add(1 * time.Hour),
		}),
	}

	res := aggregate(Coordinates{}, ref, 3*time.Hour, nil, nil, providers)

	if _, ok := res.events["old"]; ok {
		t.Fatal("event 4h in the past should have been pruned")
	}
	if _, ok := res.events["recent"]; !ok {
		t.Fatal("event 2h in the past should have been kept")
	}
	if _, ok := res.events["future"]; !ok {
		t.Fatal("future event should have been kept")
	}
}

func TestAggregateSolarPrecedence(t *testing.T) {
	ref := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)

	// Today's sunset is long past; its dusk is recent enough to survive.
	today := EventMap{
		"dusk":   ref.Add(-1 * time.Hour),
		"sunset": ref.Add(-5 * time.Hour),
	}
	tomorrow := EventMap{
		"dusk":   ref.Add(23 * time.Hour),
		"sunset": ref.Add(19 * time.Hour),
	}

	res := aggregate(Coordinates{}, ref, 3*time.Hour, today, tomorrow, nil)

	// Pruned slots fall through to tomorrow's entries; surviving entries
	// from today overwrite tomorrow's.
	if !res.sun["sunset"].Equal(tomorrow["sunset"]) {
		t.Fatalf("pruned today's sunset should yield tomorrow's, got %v", res.sun["sunset"])
	}
	if !res.sun["dusk"].Equal(today["dusk"]) {
		t.Fatal("today's surviving dusk should not be replaced by tomorrow's")
	}
}

func TestAggregateFailingProviderIsSoft(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	boom := errors.New("gps cable unplugged")

	providers := []eventProvider{
		{id: "broken", fn: func(ref time.Time, lat, lon, alt float64) (EventMap, error) {
			return nil, boom
		}},
		mkProvider("ok", EventMap{"A": ref.Add(time.Hour)}),
	}

	res := aggregate(Coordinates{}, ref, DefaultStaleness, nil, nil, providers)

	if len(res.events) != 1 {
		t.Fatalf("expected only the healthy provider's event, got %v", res.events)
	}
	if _, ok := res.events["A"]; !ok {
		t.Fatal("healthy provider's contribution missing")
	}
}

func TestAggregateProviderReceivesWindowStart(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	staleness := 3 * time.Hour

	var got time.Time
	providers := []eventProvider{
		{id: "spy", fn: func(r time.Time, lat, lon, alt float64) (EventMap, error) {
			got = r
			return nil, nil
		}},
	}

	aggregate(Coordinates{}, ref, staleness, nil, nil, providers)

	if !got.Equal(ref.Add(-staleness)) {
		t.Fatalf("provider should be called with ref-staleness, got %v", got)
	}
}
