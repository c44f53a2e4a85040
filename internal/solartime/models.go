package solartime

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimezoneLocked is returned by any mutation attempted on a locked instance.
	ErrTimezoneLocked = errors.New("solar timezone is locked")

	// ErrInvalidUpdateMode is returned when an update mode outside the
	// recognized set is requested.
	ErrInvalidUpdateMode = errors.New("invalid update mode")

	// ErrRedundantCall signals an operation that had no effect.
	ErrRedundantCall = errors.New("redundant call")

	// ErrInvalidCoordinates is returned for latitudes or longitudes outside
	// their valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrNoOffset is returned when the offset is requested before the first
	// successful update.
	ErrNoOffset = errors.New("no offset computed yet")
)

// Location is a human-readable place label.
type Location struct {
	Region string `json:"region"`
	Name   string `json:"name"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.Region + ":" + l.Name
}

// String returns "Region/Name", the display name of the timezone.
func (l Location) String() string {
	return l.Region + "/" + l.Name
}

// Coordinates is a geographic position. Altitude is meters AMSL.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Altitude  float64 `json:"altitude"`
}

// Validate checks latitude and longitude ranges. Altitude may be any real
// value (places below sea level exist).
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of [-90,90]", ErrInvalidCoordinates, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of [-180,180]", ErrInvalidCoordinates, c.Longitude)
	}
	return nil
}

// EventMap maps event names to absolute timestamps (UTC based).
type EventMap map[string]time.Time

// Clone returns a shallow copy of the map.
func (m EventMap) Clone() EventMap {
	out := make(EventMap, len(m))
	for name, ts := range m {
		out[name] = ts
	}
	return out
}

// Merge copies src into m, overwriting on name collision, and returns the
// names that collided. The collision list is diagnostic only.
func (m EventMap) Merge(src EventMap) []string {
	var collisions []string
	for name, ts := range src {
		if _, ok := m[name]; ok {
			collisions = append(collisions, name)
		}
		m[name] = ts
	}
	return collisions
}

// Prune removes entries with timestamps strictly before cutoff.
func (m EventMap) Prune(cutoff time.Time) {
	for name, ts := range m {
		if ts.Before(cutoff) {
			delete(m, name)
		}
	}
}

// UpdateMode controls how often a live instance refreshes itself.
// ModeLocked is terminal: once set it can never change again.
type UpdateMode int

const (
	ModeManual UpdateMode = iota
	ModeSecond
	ModeMinute
	ModeHour
	ModeDay
	ModeLocked
)

// ParseUpdateMode parses the textual form used in configuration.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "second", "s":
		return ModeSecond, nil
	case "minute", "m":
		return ModeMinute, nil
	case "hour", "h":
		return ModeHour, nil
	case "day", "d":
		return ModeDay, nil
	case "manual", "":
		return ModeManual, nil
	case "locked":
		return ModeLocked, nil
	default:
		return ModeManual, fmt.Errorf("%w: %q", ErrInvalidUpdateMode, s)
	}
}

func (m UpdateMode) String() string {
	switch m {
	case ModeSecond:
		return "second"
	case ModeMinute:
		return "minute"
	case ModeHour:
		return "hour"
	case ModeDay:
		return "day"
	case ModeManual:
		return "manual"
	case ModeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

func (m UpdateMode) valid() bool {
	return m >= ModeManual && m <= ModeLocked
}

// Snapshot is the recorded outcome of one update, suitable for history stores.
type Snapshot struct {
	Location    Location      `json:"location"`
	Coordinates Coordinates   `json:"coordinates"`
	Offset      time.Duration `json:"offset"`
	TakenAt     time.Time     `json:"takenAt"` // always UTC
	Events      EventMap      `json:"events,omitempty"`
}
