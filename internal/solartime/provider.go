package solartime

import (
	"errors"
	"time"
)

// Ephemeris computes named solar event timestamps for one date at one place.
// The returned map must include at least a "noon" entry. Implementations
// live in internal/ephemeris.
type Ephemeris interface {
	Name() string
	SunTimes(date time.Time, latitude, longitude, elevation float64) (EventMap, error)
}

// EventFunc supplies named timestamped events covering roughly the next 24
// hours from ref. Events need not be sorted.
type EventFunc func(ref time.Time, latitude, longitude, altitude float64) (EventMap, error)

// eventProvider is a registered EventFunc with its identifier.
type eventProvider struct {
	id string
	fn EventFunc
}

// Position is the full result of a position lookup.
type Position struct {
	Location    Location
	Coordinates Coordinates
}

// PositionFunc returns a fresh position, e.g. from a GPS receiver.
type PositionFunc func() (Position, error)

// PositionSource is a tagged variant: either a one-shot static position or
// a callable that yields a fresh one on every update.
type PositionSource struct {
	static bool
	pos    Position
	fn     PositionFunc
}

// Static builds a one-shot position source. An instance bound to it locks
// itself after its first update.
func Static(loc Location, coords Coordinates) PositionSource {
	return PositionSource{static: true, pos: Position{Location: loc, Coordinates: coords}}
}

// Dynamic builds a position source backed by a callback.
func Dynamic(fn PositionFunc) PositionSource {
	return PositionSource{fn: fn}
}

// Static reports whether the source is the one-shot variant.
func (s PositionSource) Static() bool { return s.static }

func (s PositionSource) lookup() (Position, error) {
	if s.static {
		return s.pos, nil
	}
	if s.fn == nil {
		return Position{}, errors.New("position source is empty")
	}
	return s.fn()
}
