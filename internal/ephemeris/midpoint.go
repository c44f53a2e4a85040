package ephemeris

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/solartz/solartz/internal/solartime"
)

// Midpoint approximates apparent solar noon as the midpoint between
// sunrise and sunset. It is cheaper than the full astral computation and
// needs no elevation, but reports only sunrise, sunset and noon.
type Midpoint struct{}

func (Midpoint) Name() string { return "midpoint" }

// SunTimes returns sunrise, sunset and the midpoint noon for date's UTC
// day. During polar day or night go-sunrise reports zero times and the
// provider fails rather than inventing a noon.
func (Midpoint) SunTimes(date time.Time, latitude, longitude, _ float64) (solartime.EventMap, error) {
	date = date.UTC()
	rise, set := sunrise.SunriseSunset(latitude, longitude, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return nil, fmt.Errorf("no sunrise/sunset at %.4f,%.4f on %s", latitude, longitude, date.Format(time.DateOnly))
	}
	return solartime.EventMap{
		"sunrise": rise,
		"sunset":  set,
		"noon":    rise.Add(set.Sub(rise) / 2),
	}, nil
}
