// Package service orchestrates the full pipeline: collect events from
// relays, aggregate them into totals, project leaderboards, and publish the
// result as an immutable snapshot. Each refresh is a full recompute from
// currently available events; no state carries over between passes.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bohemia111/RUNSTR-sub012/internal/aggregator"
	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/collector"
	"github.com/bohemia111/RUNSTR-sub012/internal/leaderboard"
	"github.com/bohemia111/RUNSTR-sub012/internal/logging"
	"github.com/bohemia111/RUNSTR-sub012/internal/metrics"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/repository"
	"github.com/bohemia111/RUNSTR-sub012/internal/validator"
)

// EventCollector gathers deduplicated events from the relay set.
type EventCollector interface {
	Collect(ctx context.Context, authors []string, kind int) (*collector.Result, error)
}

// ErrUnknownActivity is returned for activity types outside the scored set.
var ErrUnknownActivity = fmt.Errorf("unknown activity type")

// Service exposes the pipeline to the HTTP and CLI layers.
type Service struct {
	collector EventCollector
	validator *validator.Validator
	repo      repository.Repository
	snapshots cache.SnapshotStore
	log       *logging.Logger
	now       func() time.Time

	// passes serializes aggregation passes per activity type: at most one
	// concurrent refresh per key, so two overlapping refreshes can never
	// interleave their snapshot writes.
	mu     sync.Mutex
	passes map[models.ActivityType]*sync.Mutex
}

// New creates a Service.
func New(c EventCollector, v *validator.Validator, repo repository.Repository, snapshots cache.SnapshotStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		collector: c,
		validator: v,
		repo:      repo,
		snapshots: snapshots,
		log:       log,
		now:       time.Now,
		passes:    make(map[models.ActivityType]*sync.Mutex),
	}
}

// Refresh recomputes the leaderboard snapshot for one activity type from
// scratch and publishes it. Partial relay data is not an error: the
// snapshot is stamped partial and served anyway.
func (s *Service) Refresh(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	if !models.IsScoringActivity(activity) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, activity)
	}

	lock := s.passLock(activity)
	lock.Lock()
	defer lock.Unlock()

	started := s.now()

	roster, err := s.repo.ListParticipants(ctx)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues(string(activity), "error").Inc()
		return nil, fmt.Errorf("list participants: %w", err)
	}

	authors := make([]string, 0, len(roster))
	for _, p := range roster {
		authors = append(authors, p.Pubkey)
	}

	collected, err := s.collector.Collect(ctx, authors, models.KindWorkout)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues(string(activity), "error").Inc()
		return nil, fmt.Errorf("collect events: %w", err)
	}

	agg := aggregator.Aggregate(collected.Events, roster, s.validator)
	entries, charities := leaderboard.Project(agg, roster, activity)

	snap := &models.Snapshot{
		Activity:        activity,
		Entries:         entries,
		CharityRankings: charities,
		LastUpdated:     s.now(),
		Partial:         collected.Stats.Partial(),
		Stats:           collected.Stats,
	}

	if err := s.snapshots.Put(ctx, snap); err != nil {
		metrics.RefreshTotal.WithLabelValues(string(activity), "error").Inc()
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	// The audit list is advisory; a persistence failure must not block the
	// refresh itself.
	if err := s.repo.ReplaceFlagged(ctx, agg.Flagged); err != nil {
		s.log.WarnContext(ctx, "failed to persist flagged workouts", "error", err)
	}
	metrics.WorkoutsFlagged.Add(float64(len(agg.Flagged)))

	metrics.RefreshDuration.WithLabelValues(string(activity)).Observe(s.now().Sub(started).Seconds())
	metrics.RefreshTotal.WithLabelValues(string(activity), "ok").Inc()
	s.log.InfoContext(ctx, "leaderboard refreshed",
		"activity", activity,
		"participants", len(roster),
		"events", len(collected.Events),
		"flagged", len(agg.Flagged),
		"partial", snap.Partial,
	)

	return snap, nil
}

// Leaderboard returns the latest published snapshot for the activity type.
// cache.ErrNoSnapshot means no refresh has completed yet, which is a valid
// state distinct from an error.
func (s *Service) Leaderboard(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	if !models.IsScoringActivity(activity) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, activity)
	}
	return s.snapshots.Get(ctx, activity)
}

// Flagged returns the current flagged-workout audit list.
func (s *Service) Flagged(ctx context.Context) ([]models.FlaggedWorkout, error) {
	return s.repo.ListFlagged(ctx)
}

// RegisterParticipant adds a pubkey to the roster.
func (s *Service) RegisterParticipant(ctx context.Context, p models.Participant) error {
	if p.Pubkey == "" {
		return fmt.Errorf("participant pubkey is required")
	}
	return s.repo.CreateParticipant(ctx, p)
}

func (s *Service) passLock(activity models.ActivityType) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.passes[activity]
	if !ok {
		lock = &sync.Mutex{}
		s.passes[activity] = lock
	}
	return lock
}
