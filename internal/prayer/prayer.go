// Package prayer computes Islamic prayer times from sun geometry. It is a
// ready-made event provider for the solartime core: the times depend only
// on date, latitude, longitude and the calculation method's twilight
// angles, so no network service is involved.
package prayer

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/solartz/solartz/internal/solartime"
)

// Method holds the twilight depression angles of a calculation convention.
type Method struct {
	Name      string
	FajrAngle float64
	IshaAngle float64
}

// Common calculation methods.
var (
	MWL      = Method{Name: "Muslim World League", FajrAngle: 18, IshaAngle: 17}
	ISNA     = Method{Name: "Islamic Society of North America", FajrAngle: 15, IshaAngle: 15}
	Egyptian = Method{Name: "Egyptian General Authority", FajrAngle: 19.5, IshaAngle: 17.5}
)

// Times returns an event provider computing Fajr, Dhuhr, Maghrib and Isha
// for the day of the reference instant. At extreme latitudes the twilight
// angles may never be reached; missing times are simply omitted rather
// than failing the whole contribution.
func Times(method Method) solartime.EventFunc {
	return func(ref time.Time, latitude, longitude, altitude float64) (solartime.EventMap, error) {
		date := ref.UTC()
		observer := astral.Observer{Latitude: latitude, Longitude: longitude, Elevation: altitude}

		events := solartime.EventMap{
			"Dhuhr": astral.Noon(observer, date),
		}
		if fajr, err := astral.Dawn(observer, date, method.FajrAngle); err == nil {
			events["Fajr"] = fajr
		}
		if maghrib, err := astral.Sunset(observer, date); err == nil {
			events["Maghrib"] = maghrib
		}
		if isha, err := astral.Dusk(observer, date, method.IshaAngle); err == nil {
			events["Isha"] = isha
		}
		if len(events) < 2 {
			return nil, fmt.Errorf("%s: sun below %v°/%v° twilight all day at %.4f,%.4f",
				method.Name, method.FajrAngle, method.IshaAngle, latitude, longitude)
		}
		return events, nil
	}
}
