package store

import (
	"errors"
	"testing"
	"time"

	"github.com/solartz/solartz/internal/solartime"
)

func snap(loc solartime.Location, takenAt time.Time, offset time.Duration) solartime.Snapshot {
	return solartime.Snapshot{
		Location: loc,
		Offset:   offset,
		TakenAt:  takenAt,
	}
}

func TestLatestAndRetentionByCount(t *testing.T) {
	loc := solartime.Location{Region: "Norway", Name: "Molde"}
	s := NewMemoryStore(3, 0)

	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.Save(snap(loc, base.Add(time.Duration(i)*time.Hour), time.Duration(i)*time.Minute))
	}

	latest, err := s.Latest(loc)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Offset != 4*time.Minute {
		t.Fatalf("expected latest offset 4m, got %v", latest.Offset)
	}

	all, err := s.Range(loc, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("retention should keep 3 snapshots, got %d", len(all))
	}
}

func TestRangeBounds(t *testing.T) {
	loc := solartime.Location{Region: "Egypt", Name: "Gyza"}
	s := NewMemoryStore(0, 0)

	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.Save(snap(loc, base.Add(time.Duration(i)*time.Hour), 0))
	}

	got, err := s.Range(loc, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("inclusive range should return 2 snapshots, got %d", len(got))
	}
}

func TestNotFound(t *testing.T) {
	s := NewMemoryStore(0, 0)
	loc := solartime.Location{Region: "Nowhere", Name: "Offgrid"}

	if _, err := s.Latest(loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Range(loc, time.Time{}, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.Save(snap(loc, time.Now().UTC(), 0))
	if _, err := s.Range(loc, time.Unix(0, 0), time.Unix(1, 0)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty window, got %v", err)
	}
}
