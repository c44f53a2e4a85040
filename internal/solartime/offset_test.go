package solartime

import (
	"errors"
	"testing"
	"time"
)

// fakeEphemeris returns a noon derived from the longitude (4 minutes per
// degree, the real mean-sun rate) unless a fixed clock time is set.
type fakeEphemeris struct {
	noonClock time.Duration // time of day for noon; 0 means derive from longitude
	err       error
}

func (f fakeEphemeris) Name() string { return "fake" }

func (f fakeEphemeris) SunTimes(date time.Time, lat, lon, elev float64) (EventMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	tod := f.noonClock
	if tod == 0 {
		tod = 12*time.Hour - time.Duration(lon*4*float64(time.Minute))
	}
	date = date.UTC()
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	noon := midnight.Add(tod)
	return EventMap{
		"noon":    noon,
		"sunrise": noon.Add(-6 * time.Hour),
		"sunset":  noon.Add(6 * time.Hour),
	}, nil
}

func TestComputeOffsetZeroAtPrimeMeridian(t *testing.T) {
	eph := fakeEphemeris{noonClock: 12 * time.Hour}
	ref := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	offset, today, tomorrow, err := ComputeOffset(eph, Coordinates{}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 0 {
		t.Fatalf("expected zero offset for noon at 12:00 UTC, got %v", offset)
	}
	if _, ok := today["noon"]; !ok {
		t.Fatalf("today's events missing noon")
	}
	if got := tomorrow["noon"].Sub(today["noon"]); got != 24*time.Hour {
		t.Fatalf("tomorrow's noon should be one day later, got %v apart", got)
	}
}

func TestComputeOffsetHalfHour(t *testing.T) {
	eph := fakeEphemeris{noonClock: 11*time.Hour + 30*time.Minute}
	ref := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	offset, _, _, err := ComputeOffset(eph, Coordinates{}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 30*time.Minute {
		t.Fatalf("expected +30m offset for noon at 11:30 UTC, got %v", offset)
	}
}

func TestComputeOffsetSubMinutePrecision(t *testing.T) {
	eph := fakeEphemeris{noonClock: 11*time.Hour + 59*time.Minute + 17*time.Second + 250*time.Millisecond}
	ref := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	offset, _, _, err := ComputeOffset(eph, Coordinates{}, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 42*time.Second + 750*time.Millisecond
	if offset != want {
		t.Fatalf("expected %v, got %v", want, offset)
	}
}

func TestComputeOffsetBoundsAndNoonAlignment(t *testing.T) {
	eph := fakeEphemeris{}
	ref := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	for lon := -180.0; lon <= 180.0; lon += 7.5 {
		coords := Coordinates{Latitude: 45, Longitude: lon}
		offset, today, _, err := ComputeOffset(eph, coords, ref)
		if err != nil {
			t.Fatalf("lon %v: unexpected error: %v", lon, err)
		}
		if offset <= -12*time.Hour || offset > 12*time.Hour {
			t.Fatalf("lon %v: offset %v outside (-12h, +12h]", lon, offset)
		}
		// Applying the offset must put solar noon at 12:00:00 local,
		// modulo the day wrap at the antimeridian.
		local := today["noon"].Add(offset)
		h, m, s := local.Clock()
		if h != 12 || m != 0 || s != 0 {
			t.Fatalf("lon %v: solar noon lands at %02d:%02d:%02d local, want 12:00:00", lon, h, m, s)
		}
	}
}

func TestComputeOffsetRejectsBadCoordinates(t *testing.T) {
	eph := fakeEphemeris{}
	ref := time.Now().UTC()

	if _, _, _, err := ComputeOffset(eph, Coordinates{Latitude: 91}, ref); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates for latitude 91, got %v", err)
	}
	if _, _, _, err := ComputeOffset(eph, Coordinates{Longitude: -181}, ref); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates for longitude -181, got %v", err)
	}
}

func TestComputeOffsetRequiresNoon(t *testing.T) {
	eph := noNoonEphemeris{}
	if _, _, _, err := ComputeOffset(eph, Coordinates{}, time.Now()); err == nil {
		t.Fatal("expected error when ephemeris omits noon")
	}
}

type noNoonEphemeris struct{}

func (noNoonEphemeris) Name() string { return "no-noon" }

func (noNoonEphemeris) SunTimes(date time.Time, lat, lon, elev float64) (EventMap, error) {
	return EventMap{"sunrise": date}, nil
}
