// Package scheduler drives periodic background leaderboard refreshes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bohemia111/RUNSTR-sub012/internal/logging"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// Refresher recomputes one activity type's leaderboard.
type Refresher interface {
	Refresh(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error)
}

// Config configures the refresh scheduler.
type Config struct {
	// Interval between refresh rounds. A round refreshes every scored
	// activity type sequentially.
	Interval time.Duration

	// RefreshTimeout bounds one activity's refresh within a round.
	RefreshTimeout time.Duration
}

// Scheduler periodically refreshes all scored leaderboards.
type Scheduler struct {
	refresher Refresher
	cfg       Config
	log       *logging.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Scheduler.
func New(refresher Refresher, cfg Config, log *logging.Logger) *Scheduler {
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.RefreshTimeout == 0 {
		cfg.RefreshTimeout = 2 * time.Minute
	}
	if log == nil {
		log = logging.Default()
	}
	return &Scheduler{
		refresher: refresher,
		cfg:       cfg,
		log:       log,
	}
}

// Start begins the refresh loop. An initial round runs immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})

	s.wg.Add(1)
	go s.run()

	s.log.Info("refresh scheduler started", "interval", s.cfg.Interval)
	return nil
}

// Stop halts the refresh loop and waits for an in-flight round to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("refresh scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.refreshAll()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshAll()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) refreshAll() {
	for _, activity := range models.ScoringActivityTypes() {
		select {
		case <-s.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RefreshTimeout)
		if _, err := s.refresher.Refresh(ctx, activity); err != nil {
			s.log.Error("scheduled refresh failed", "activity", activity, "error", err)
		}
		cancel()
	}
}
