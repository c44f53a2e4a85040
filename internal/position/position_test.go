package position

import (
	"errors"
	"testing"
	"time"

	"github.com/solartz/solartz/internal/solartime"
)

func TestFixedRejectsBadCoordinates(t *testing.T) {
	if _, err := Fixed("Nowhere", "Offgrid", 91, 0, 0); !errors.Is(err, solartime.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestFixedIsStatic(t *testing.T) {
	src, err := Fixed("Norway", "Molde", 62.7387, 7.1814, 7)
	if err != nil {
		t.Fatalf("Fixed: %v", err)
	}
	if !src.Static() {
		t.Fatal("Fixed should produce a static source")
	}
}

func TestStationaryIsLive(t *testing.T) {
	src, err := Stationary("Norway", "Molde", 62.7387, 7.1814, 7)
	if err != nil {
		t.Fatalf("Stationary: %v", err)
	}
	if src.Static() {
		t.Fatal("Stationary should produce a dynamic source")
	}
}

func TestResilientRetriesThenSucceeds(t *testing.T) {
	want := solartime.Position{
		Location:    solartime.Location{Region: "Yakutsk", Name: "Ulitsa Gubina"},
		Coordinates: solartime.Coordinates{Latitude: 62.04, Longitude: 129.748, Altitude: 95},
	}

	var calls int
	src := Resilient("flaky-gps", func() (solartime.Position, error) {
		calls++
		if calls < 3 {
			return solartime.Position{}, errors.New("no satellite fix")
		}
		return want, nil
	}, BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond})

	z, err := solartime.New(src, nil, 0)
	if err != nil {
		t.Fatalf("New through resilient source: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 lookup attempts, got %d", calls)
	}
	if z.Location() != want.Location {
		t.Fatalf("unexpected location: %v", z.Location())
	}
}

func TestResilientGivesUpAfterBudget(t *testing.T) {
	src := Resilient("dead-gps", func() (solartime.Position, error) {
		return solartime.Position{}, errors.New("no satellite fix")
	}, BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

	if _, err := solartime.New(src, nil, 0); err == nil {
		t.Fatal("expected error once the retry budget is exhausted")
	}
}
