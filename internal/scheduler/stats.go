// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StatsScheduler periodically recomputes per-book aggregates: the
// average review rating and the number of distinct readers. Keeping
// these denormalized on the book row keeps catalog listings to a
// single query.
type StatsScheduler struct {
	db       *gorm.DB
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewStatsScheduler creates a new scheduler instance
func NewStatsScheduler(db *gorm.DB, schedule string) *StatsScheduler {
	return &StatsScheduler{
		db:       db,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler
func (s *StatsScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRecompute()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule stats job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Stats scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *StatsScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Stats scheduler: stopped")
}

// RunNow triggers an immediate recompute
func (s *StatsScheduler) RunNow() error {
	return s.Recompute()
}

// IsRunning returns whether the scheduler is active
func (s *StatsScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next recompute will occur
func (s *StatsScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *StatsScheduler) runRecompute() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Stats recompute: skipped (already running)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	startTime := time.Now()
	if err := s.Recompute(); err != nil {
		log.Printf("Stats recompute: failed: %v", err)
		return
	}
	log.Printf("Stats recompute: finished in %v", time.Since(startTime).Round(time.Millisecond))
}

// Recompute rewrites every book's average_rating and read_count from
// the reviews and reading history tables.
func (s *StatsScheduler) Recompute() error {
	err := s.db.Exec(`
		UPDATE books SET average_rating = COALESCE(
			(SELECT AVG(rating) FROM reviews WHERE reviews.book_id = books.id), 0
		)`).Error
	if err != nil {
		return fmt.Errorf("recompute average ratings: %w", err)
	}

	err = s.db.Exec(`
		UPDATE books SET read_count = (
			SELECT COUNT(*) FROM reading_histories WHERE reading_histories.book_id = books.id
		)`).Error
	if err != nil {
		return fmt.Errorf("recompute read counts: %w", err)
	}

	return nil
}
