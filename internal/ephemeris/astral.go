// Package ephemeris provides solar event providers for the solartime core.
package ephemeris

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/solartz/solartz/internal/solartime"
)

// Astral computes dawn, sunrise, noon, sunset and dusk using the astral
// library. For high-latitude locations where civil twilight does not occur
// (polar day), dawn and dusk fall back to sunrise and sunset; when the sun
// never rises or sets, only noon is reported.
type Astral struct {
	mu    sync.RWMutex
	cache map[string]solartime.EventMap
}

// NewAstral creates an astral-backed provider with a small per-date cache.
func NewAstral() *Astral {
	return &Astral{cache: make(map[string]solartime.EventMap)}
}

func (a *Astral) Name() string { return "astral" }

// SunTimes returns the solar events for date's UTC day at the given place.
// All timestamps are UTC.
func (a *Astral) SunTimes(date time.Time, latitude, longitude, elevation float64) (solartime.EventMap, error) {
	date = date.UTC()
	key := fmt.Sprintf("%s/%.5f/%.5f/%.1f", date.Format(time.DateOnly), latitude, longitude, elevation)

	a.mu.RLock()
	cached, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	observer := astral.Observer{Latitude: latitude, Longitude: longitude, Elevation: elevation}
	events := solartime.EventMap{
		"noon": astral.Noon(observer, date),
	}

	rise, riseErr := astral.Sunrise(observer, date)
	if riseErr == nil {
		events["sunrise"] = rise
	}
	set, setErr := astral.Sunset(observer, date)
	if setErr == nil {
		events["sunset"] = set
	}

	// Civil twilight can be undefined in midsummer at high latitudes even
	// when the sun still rises; fall back to sunrise/sunset in that case.
	if dawn, err := astral.Dawn(observer, date, astral.DepressionCivil); err == nil {
		events["dawn"] = dawn
	} else if riseErr == nil {
		events["dawn"] = rise
	}
	if dusk, err := astral.Dusk(observer, date, astral.DepressionCivil); err == nil {
		events["dusk"] = dusk
	} else if setErr == nil {
		events["dusk"] = set
	}

	a.mu.Lock()
	if len(a.cache) > maxCacheEntries {
		a.cache = make(map[string]solartime.EventMap)
	}
	a.cache[key] = events.Clone()
	a.mu.Unlock()

	return events, nil
}

// maxCacheEntries bounds the cache; a moving observer produces a new key
// per position so the cache cannot grow without limit.
const maxCacheEntries = 512
