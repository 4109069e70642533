// Package worker contains the background process driving the digest:
// the daily wall-clock scheduler and the Redis-backed run support.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savora/recipedigest/internal/domain"
	"github.com/savora/recipedigest/internal/pkg/distlock"
	"github.com/savora/recipedigest/internal/pkg/logger"
)

// runLockTTL must outlast the longest plausible digest run so the lock
// cannot expire while a runner is mid-pass.
const runLockTTL = time.Hour

// digestRunner is the slice of the dispatcher the scheduler needs.
type digestRunner interface {
	Run(ctx context.Context) (*domain.DigestRunReport, error)
}

// DigestScheduler fires one digest run per day at a configured wall-clock
// time. Deployments may run several worker instances; a distributed lock
// keeps each day's run single-writer.
type DigestScheduler struct {
	runner      digestRunner
	db          *sql.DB
	redisClient *redis.Client // optional; nil falls back to PG advisory locks

	hour, minute int
	loc          *time.Location

	mu         sync.RWMutex
	running    bool
	lastReport *domain.DigestRunReport

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDigestScheduler creates a scheduler firing daily at hour:minute in loc.
func NewDigestScheduler(runner digestRunner, db *sql.DB, hour, minute int, loc *time.Location) *DigestScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DigestScheduler{
		runner: runner,
		db:     db,
		hour:   hour,
		minute: minute,
		loc:    loc,
	}
}

// SetRedisClient sets the Redis client used for run locking. Without it
// the scheduler falls back to PostgreSQL advisory locks.
func (s *DigestScheduler) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Start begins the daily trigger loop.
func (s *DigestScheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("digest scheduler already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	logger.Info("digest scheduler started",
		"fire_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute),
		"timezone", s.loc.String(),
	)

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop halts the trigger loop and waits for it to exit. A run already in
// flight finishes; only the waiting-for-next-trigger state is cancelled.
func (s *DigestScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("digest scheduler stopped")
}

func (s *DigestScheduler) loop() {
	defer s.wg.Done()

	for {
		next := s.nextFireTime(time.Now().In(s.loc))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunOnce(s.ctx)
		}
	}
}

// nextFireTime returns the next hour:minute occurrence strictly after now.
// AddDate is used rather than adding 24h so DST transitions keep the
// configured wall-clock time.
func (s *DigestScheduler) nextFireTime(now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

// RunOnce executes a single digest pass under the run lock. It is the
// entry point for both the daily trigger and the manual ops trigger, and
// never returns an error to its caller: a failed run is recorded in the
// report and logged.
func (s *DigestScheduler) RunOnce(ctx context.Context) {
	lock := distlock.New(s.redisClient, s.db, "digest:daily-run", runLockTTL)

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		logger.Error("digest run lock acquisition failed", "error", err.Error())
		return
	}
	if !acquired {
		logger.Info("digest run already in progress on another worker, skipping")
		return
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logger.Warn("digest run lock release failed", "error", err.Error())
		}
	}()

	report, err := s.runner.Run(ctx)
	if err != nil {
		logger.Error("digest run failed", "error", err.Error())
	}
	if report != nil {
		s.mu.Lock()
		s.lastReport = report
		s.mu.Unlock()
	}
}

// LastReport returns the report from the most recent run, or nil if no
// run has completed since the process started.
func (s *DigestScheduler) LastReport() *domain.DigestRunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}
