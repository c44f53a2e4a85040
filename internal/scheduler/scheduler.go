package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/solartz/solartz/internal/solartime"
	"github.com/solartz/solartz/internal/store"
)

// Scheduler periodically refreshes a live solar timezone according to its
// update mode and records each outcome into the snapshot store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	zone      *solartime.LST
	store     *store.MemoryStore
}

// New creates a new Scheduler. The store may be nil when no history is
// wanted.
func New(zone *solartime.LST, snapshots *store.MemoryStore) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		zone:      zone,
		store:     snapshots,
	}
}

// Start schedules the periodic update job at the cadence the timezone's
// update mode demands. Manual mode schedules nothing; a locked timezone
// cannot be scheduled at all.
func (s *Scheduler) Start() error {
	mode := s.zone.Mode()

	var job *gocron.Scheduler
	switch mode {
	case solartime.ModeLocked:
		return solartime.ErrTimezoneLocked
	case solartime.ModeManual:
		log.Println("scheduler: manual mode; nothing to schedule")
		return nil
	case solartime.ModeSecond:
		job = s.scheduler.Every(1).Second()
	case solartime.ModeMinute:
		job = s.scheduler.Every(1).Minute()
	case solartime.ModeHour:
		job = s.scheduler.Every(1).Hour()
	case solartime.ModeDay:
		job = s.scheduler.Every(1).Day().At("00:00")
	default:
		return fmt.Errorf("%w: %v", solartime.ErrInvalidUpdateMode, mode)
	}

	_, err := job.Do(func() {
		if err := s.zone.Update(nil); err != nil {
			log.Printf("scheduler: update failed for %s: %v", s.zone.Name(), err)
			return
		}
		if s.store != nil {
			s.store.Save(s.zone.Snapshot())
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
