package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/collector"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/repository"
	"github.com/bohemia111/RUNSTR-sub012/internal/service"
	"github.com/bohemia111/RUNSTR-sub012/internal/validator"
)

// stubCollector returns a fixed result and counts calls.
type stubCollector struct {
	result *collector.Result
	err    error
	calls  atomic.Int64

	mu     sync.Mutex
	active int // concurrent Collect calls, to observe serialization
	peak   int
}

func (c *stubCollector) Collect(ctx context.Context, authors []string, kind int) (*collector.Result, error) {
	c.calls.Add(1)

	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	return &collector.Result{}, nil
}

func workout(id, pubkey, exercise, distance, duration string) models.RawEvent {
	return models.RawEvent{
		ID:     id,
		Pubkey: pubkey,
		Kind:   models.KindWorkout,
		Tags: [][]string{
			{"exercise", exercise},
			{"distance", distance, "km"},
			{"duration", duration},
		},
	}
}

func setup(t *testing.T, col service.EventCollector) (*service.Service, *repository.MemoryRepository, *cache.MemoryStore) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	store := cache.NewMemoryStore()
	svc := service.New(col, validator.NewDefault(), repo, store, nil)
	return svc, repo, store
}

func TestRefresh_PublishesSnapshot(t *testing.T) {
	col := &stubCollector{result: &collector.Result{
		Events: []models.RawEvent{
			workout("ev-1", "A", "run", "5", "1500"),
			workout("ev-2", "B", "run", "10", "3000"),
			workout("ev-3", "B", "walk", "0", "7200"), // flagged
		},
		Stats: models.QueryStats{Queries: 6, Succeeded: 6},
	}}
	svc, repo, _ := setup(t, col)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "A", DisplayName: "Alice"}))
	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "B", DisplayName: "Bob"}))

	snap, err := svc.Refresh(ctx, models.ActivityRunning)
	require.NoError(t, err)

	assert.Equal(t, models.ActivityRunning, snap.Activity)
	assert.False(t, snap.Partial)
	assert.False(t, snap.LastUpdated.IsZero())
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "B", snap.Entries[0].Pubkey)
	assert.Equal(t, 1, snap.Entries[0].Rank)
	assert.Equal(t, 10.0, snap.Entries[0].TotalDistanceKm)

	// The published snapshot is immediately readable.
	got, err := svc.Leaderboard(ctx, models.ActivityRunning)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	// Flagged workouts from the pass are persisted for moderation.
	flagged, err := svc.Flagged(ctx)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, "ev-3", flagged[0].SourceEventID)
}

func TestRefresh_PartialCollectionIsStamped(t *testing.T) {
	col := &stubCollector{result: &collector.Result{
		Stats: models.QueryStats{Queries: 6, Succeeded: 4, TimedOut: 2},
	}}
	svc, repo, _ := setup(t, col)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "A"}))

	snap, err := svc.Refresh(ctx, models.ActivityRunning)
	require.NoError(t, err)
	assert.True(t, snap.Partial)
	assert.Equal(t, 2, snap.Stats.TimedOut)
}

func TestRefresh_EmptyCollectionIsNotAnError(t *testing.T) {
	svc, repo, _ := setup(t, &stubCollector{})
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "A"}))

	snap, err := svc.Refresh(ctx, models.ActivityCycling)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	assert.Zero(t, snap.Entries[0].TotalDistanceKm)
}

func TestRefresh_CollectorErrorPropagates(t *testing.T) {
	col := &stubCollector{err: errors.New("relays unreachable")}
	svc, repo, _ := setup(t, col)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "A"}))

	_, err := svc.Refresh(ctx, models.ActivityRunning)
	assert.ErrorContains(t, err, "collect events")
}

func TestRefresh_RejectsUnknownActivity(t *testing.T) {
	svc, _, _ := setup(t, &stubCollector{})

	_, err := svc.Refresh(context.Background(), models.ActivityType("swimming"))
	assert.ErrorIs(t, err, service.ErrUnknownActivity)

	_, err = svc.Leaderboard(context.Background(), models.ActivityOther)
	assert.ErrorIs(t, err, service.ErrUnknownActivity)
}

func TestRefresh_SerializesPassesPerActivity(t *testing.T) {
	col := &stubCollector{}
	svc, repo, _ := setup(t, col)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipant(ctx, models.Participant{Pubkey: "A"}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, models.ActivityRunning)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(4), col.calls.Load())
	// Same-key passes never overlap.
	assert.Equal(t, 1, col.peak)
}

func TestLeaderboard_NoSnapshotYet(t *testing.T) {
	svc, _, _ := setup(t, &stubCollector{})

	_, err := svc.Leaderboard(context.Background(), models.ActivityRunning)
	assert.ErrorIs(t, err, cache.ErrNoSnapshot)
}

func TestRegisterParticipant(t *testing.T) {
	svc, repo, _ := setup(t, &stubCollector{})
	ctx := context.Background()

	require.NoError(t, svc.RegisterParticipant(ctx, models.Participant{Pubkey: "A"}))
	assert.Error(t, svc.RegisterParticipant(ctx, models.Participant{}))

	roster, err := repo.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
