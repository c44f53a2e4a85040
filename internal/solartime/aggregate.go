package solartime

import (
	"log"
	"time"
)

// DefaultStaleness is how long past events stay in the aggregated view.
const DefaultStaleness = 3 * time.Hour

// aggregateResult is the merged outcome of one update cycle.
type aggregateResult struct {
	sun        EventMap // solar events, today ∪ tomorrow, pruned
	events     EventMap // registered provider events
	collisions []string // names that collided during the merge, diagnostic
}

// aggregate merges solar events and every registered provider's output into
// one view. Merge order is: tomorrow's solar events, then today's (pruned),
// then each provider in registration order — the later source wins on a
// name collision, so a fresh location update replaces provider events that
// share solar event names. A failing provider contributes nothing; it never
// aborts the whole update.
func aggregate(coords Coordinates, ref time.Time, staleness time.Duration, solarToday, solarTomorrow EventMap, providers []eventProvider) aggregateResult {
	cutoff := ref.Add(-staleness)

	sun := solarTomorrow.Clone()
	pruned := solarToday.Clone()
	pruned.Prune(cutoff)
	collisions := sun.Merge(pruned)

	events := EventMap{}
	for _, p := range providers {
		out, err := p.fn(cutoff, coords.Latitude, coords.Longitude, coords.Altitude)
		if err != nil {
			log.Printf("solartime: event provider %s failed: %v", p.id, err)
			continue
		}
		collisions = append(collisions, intersect(out, sun, events)...)
		events.Merge(out)
	}
	events.Prune(cutoff)

	return aggregateResult{sun: sun, events: events, collisions: collisions}
}

// intersect returns the keys of m already present in any of the accumulated maps.
func intersect(m EventMap, accumulated ...EventMap) []string {
	var names []string
	for name := range m {
		for _, acc := range accumulated {
			if _, ok := acc[name]; ok {
				names = append(names, name)
				break
			}
		}
	}
	return names
}
