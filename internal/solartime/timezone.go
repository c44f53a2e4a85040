// Package solartime implements a timezone-like value whose UTC offset is
// chosen so that local clock noon matches the moment the sun crosses the
// local meridian, plus an aggregated view of named astronomical events for
// the current location.
package solartime

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// LST is a Local Solar Time timezone. A live instance recomputes its
// offset and event view on each Update; a locked instance is frozen
// forever. Reads may run concurrently; Update replaces all derived state
// under the lock so observers never see a torn view.
type LST struct {
	mu sync.RWMutex

	eph       Ephemeris // nil disables solar events and the offset engine
	source    PositionSource
	staleness time.Duration
	clock     func() time.Time

	mode       UpdateMode
	location   Location
	coords     Coordinates
	offset     time.Duration
	hasOffset  bool
	sun        EventMap
	events     EventMap
	collisions []string
	updatedAt  time.Time

	providers []eventProvider
}

// New creates a live instance bound to a position source and performs the
// initial update. If the source is static, that first update also locks the
// instance for good. A staleness of 0 or less selects DefaultStaleness.
func New(source PositionSource, eph Ephemeris, staleness time.Duration) (*LST, error) {
	z := newInstance(eph, staleness)
	z.source = source
	z.mode = ModeManual
	if err := z.Update(nil); err != nil {
		return nil, err
	}
	return z, nil
}

// NewLocked creates a terminally locked instance from a fixed location and
// coordinates. The offset and event view are computed once, here, and never
// change again.
func NewLocked(loc Location, coords Coordinates, eph Ephemeris, staleness time.Duration) (*LST, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	z := newInstance(eph, staleness)
	z.mode = ModeLocked
	z.apply(Position{Location: loc, Coordinates: coords}, z.clock().UTC())
	return z, nil
}

func newInstance(eph Ephemeris, staleness time.Duration) *LST {
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	return &LST{
		eph:       eph,
		staleness: staleness,
		clock:     time.Now,
		sun:       EventMap{},
		events:    EventMap{},
	}
}

// Update recomputes the offset and event view from either an explicit
// position override or the bound position source. It fails with
// ErrTimezoneLocked once the instance is locked. Updates are serialized;
// concurrent reads observe either the old state or the new one, whole.
func (z *LST) Update(override *Position) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.mode == ModeLocked {
		return ErrTimezoneLocked
	}

	var pos Position
	if override != nil {
		pos = *override
	} else {
		p, err := z.source.lookup()
		if err != nil {
			return fmt.Errorf("position lookup: %w", err)
		}
		pos = p
	}
	if err := pos.Coordinates.Validate(); err != nil {
		return err
	}

	z.apply(pos, z.clock().UTC())

	// A static source permits exactly one source-driven update.
	if override == nil && z.source.Static() {
		z.mode = ModeLocked
	}
	return nil
}

// apply rebuilds all derived state for the given position. Callers hold the
// write lock (or own the instance exclusively during construction).
func (z *LST) apply(pos Position, now time.Time) {
	var solarToday, solarTomorrow EventMap
	if z.eph != nil {
		off, today, tomorrow, err := ComputeOffset(z.eph, pos.Coordinates, now)
		if err != nil {
			// Solar offset degrades to "unchanged"; event aggregation
			// still runs with whatever the providers supply.
			log.Printf("solartime: solar offset unavailable: %v", err)
		} else {
			z.offset = off
			z.hasOffset = true
			solarToday, solarTomorrow = today, tomorrow
		}
	}

	res := aggregate(pos.Coordinates, now, z.staleness, solarToday, solarTomorrow, z.providers)

	z.location = pos.Location
	z.coords = pos.Coordinates
	z.sun = res.sun
	z.events = res.events
	z.collisions = res.collisions
	z.updatedAt = now
}

// snapshot returns a locked copy carrying the current state. Callers hold
// at least the read lock.
func (z *LST) snapshot() *LST {
	return &LST{
		eph:       z.eph,
		staleness: z.staleness,
		clock:     z.clock,
		mode:      ModeLocked,
		location:  z.location,
		coords:    z.coords,
		offset:    z.offset,
		hasOffset: z.hasOffset,
		sun:       z.sun.Clone(),
		events:    z.events.Clone(),
		updatedAt: z.updatedAt,
	}
}

// frozen returns the timezone object conversions should bind to: the
// instance itself when already locked, otherwise a fresh locked snapshot so
// past conversions stay immutable while the live instance keeps moving.
func (z *LST) frozen() *LST {
	if z.mode == ModeLocked {
		return z
	}
	return z.snapshot()
}

// Mode returns the current update mode.
func (z *LST) Mode() UpdateMode {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.mode
}

// SetUpdateMode changes the update cadence. Setting the mode on a locked
// instance is a state violation; setting the mode the instance already has
// is reported as redundant.
func (z *LST) SetUpdateMode(m UpdateMode) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.mode == ModeLocked {
		return ErrTimezoneLocked
	}
	if !m.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidUpdateMode, int(m))
	}
	if m == z.mode {
		return ErrRedundantCall
	}
	z.mode = m
	return nil
}

// Location returns the human-readable place label.
func (z *LST) Location() Location {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.location
}

// Coordinates returns the current geographic position.
func (z *LST) Coordinates() Coordinates {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.coords
}

// Offset returns the current solar-noon offset at full precision, or
// ErrNoOffset when no successful update has computed one yet.
func (z *LST) Offset() (time.Duration, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	if !z.hasOffset {
		return 0, ErrNoOffset
	}
	return z.offset, nil
}

// UTCOffset returns the current offset. The argument is ignored: a
// solar-noon anchored zone has no daylight saving, so the offset does not
// depend on the instant (at least on this planet).
func (z *LST) UTCOffset(_ time.Time) time.Duration {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.offset
}

// DST is always zero by definition.
func (z *LST) DST(_ time.Time) time.Duration { return 0 }

// Key returns the timezone key. Location info lives in Name to avoid
// colliding with standard timezone keys.
func (z *LST) Key() string { return "LST" }

func (z *LST) String() string { return z.Key() }

// Name returns "Region/Name" for the current location.
func (z *LST) Name() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.location.String()
}

// Zone returns a fixed *time.Location carrying the current offset, rounded
// to the second (time.Location has no sub-second resolution; Offset keeps
// the exact value).
func (z *LST) Zone() *time.Location {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.zone()
}

func (z *LST) zone() *time.Location {
	return time.FixedZone("LST", int(z.offset/time.Second))
}

// Convert re-expresses t in this timezone. The returned time is bound to a
// locked snapshot (or to the instance itself when already locked), so the
// result is unaffected by later updates. The snapshot is returned alongside.
func (z *LST) Convert(t time.Time) (time.Time, *LST) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	tz := z.frozen()
	return t.In(tz.zone()), tz
}

// FromUTC reinterprets t's wall-clock reading as UTC and returns the
// equivalent local instant, bound like Convert's result.
func (z *LST) FromUTC(t time.Time) (time.Time, *LST) {
	u := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return z.Convert(u)
}

// Now returns the current instant in this timezone, bound to a locked
// snapshot.
func (z *LST) Now() (time.Time, *LST) {
	return z.Convert(z.clock())
}

// Today returns midnight of Now's date, in the same manner.
func (z *LST) Today() (time.Time, *LST) {
	now, tz := z.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), tz
}

// Events returns a copy of the merged event view (solar plus registered
// providers).
func (z *LST) Events() EventMap {
	z.mu.RLock()
	defer z.mu.RUnlock()
	merged := z.sun.Clone()
	merged.Merge(z.events)
	return merged
}

// Collisions returns the event names that collided during the last merge.
func (z *LST) Collisions() []string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	out := make([]string, len(z.collisions))
	copy(out, z.collisions)
	return out
}

// UpdatedAt returns when the last update ran (zero for a never-updated
// live instance).
func (z *LST) UpdatedAt() time.Time {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.updatedAt
}

// Snapshot returns a storable record of the current state.
func (z *LST) Snapshot() Snapshot {
	z.mu.RLock()
	defer z.mu.RUnlock()
	merged := z.sun.Clone()
	merged.Merge(z.events)
	return Snapshot{
		Location:    z.location,
		Coordinates: z.coords,
		Offset:      z.offset,
		TakenAt:     z.updatedAt,
		Events:      merged,
	}
}

// EventAdd registers an event provider under the given identifier. Later
// registrations win on event-name collisions during aggregation.
// Registering an identifier twice replaces the earlier function. The new
// provider contributes starting with the next update.
func (z *LST) EventAdd(id string, fn EventFunc) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.mode == ModeLocked {
		return ErrTimezoneLocked
	}
	if fn == nil {
		return fmt.Errorf("event provider %s: nil function", id)
	}
	for i, p := range z.providers {
		if p.id == id {
			z.providers[i].fn = fn
			return nil
		}
	}
	z.providers = append(z.providers, eventProvider{id: id, fn: fn})
	return nil
}

// EventDel removes previously registered providers. Removing an unknown
// identifier is reported as redundant.
func (z *LST) EventDel(ids ...string) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.mode == ModeLocked {
		return ErrTimezoneLocked
	}
	var err error
	for _, id := range ids {
		found := false
		for i, p := range z.providers {
			if p.id == id {
				z.providers = append(z.providers[:i], z.providers[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			err = fmt.Errorf("%w: no event provider %s", ErrRedundantCall, id)
		}
	}
	return err
}

// Display renders one line per event in the merged view plus a "Now"
// marker, ascending by timestamp, formatted in this timezone's current
// offset. The slice is rebuilt from current state on every call.
func (z *LST) Display() []string {
	z.mu.RLock()
	merged := z.sun.Clone()
	merged.Merge(z.events)
	zone := z.zone()
	now := z.clock()
	z.mu.RUnlock()

	merged["Now"] = now

	type entry struct {
		name string
		ts   time.Time
	}
	entries := make([]entry, 0, len(merged))
	for name, ts := range merged {
		entries = append(entries, entry{name, ts})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ts.Equal(entries[j].ts) {
			return entries[i].name < entries[j].name
		}
		return entries[i].ts.Before(entries[j].ts)
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		marker := ""
		if e.name == "Now" {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s\t%-10s%s", marker, e.name, e.ts.In(zone).Format(time.DateTime)))
	}
	return lines
}
