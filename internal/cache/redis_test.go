package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cache.NewRedisStore(client, ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func sampleSnapshot(activity models.ActivityType) *models.Snapshot {
	return &models.Snapshot{
		Activity: activity,
		Entries: []models.LeaderboardEntry{
			{Rank: 1, Pubkey: "A", TotalDistanceKm: 42.5, WorkoutCount: 7},
			{Rank: 2, Pubkey: "B", TotalDistanceKm: 10, WorkoutCount: 2},
		},
		CharityRankings: []models.CharityRanking{
			{Rank: 1, CharityID: "als-foundation", CharityName: "ALS Foundation", DistanceKm: 52.5, ParticipantCount: 2},
		},
		LastUpdated: time.Unix(1700000000, 0).UTC(),
		Partial:     true,
		Stats:       models.QueryStats{Queries: 12, Succeeded: 10, TimedOut: 2},
	}
}

func TestRedisStore_PutGetRoundtrip(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	want := sampleSnapshot(models.ActivityRunning)
	require.NoError(t, store.Put(ctx, want))

	got, err := store.Get(ctx, models.ActivityRunning)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisStore_MissingSnapshot(t *testing.T) {
	store, _ := newRedisStore(t, 0)

	_, err := store.Get(context.Background(), models.ActivityCycling)
	assert.ErrorIs(t, err, cache.ErrNoSnapshot)
}

func TestRedisStore_SnapshotsAreKeyedByActivity(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleSnapshot(models.ActivityRunning)))

	_, err := store.Get(ctx, models.ActivityWalking)
	assert.ErrorIs(t, err, cache.ErrNoSnapshot)
}

func TestRedisStore_TTLExpiresSnapshot(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleSnapshot(models.ActivityRunning)))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, models.ActivityRunning)
	assert.ErrorIs(t, err, cache.ErrNoSnapshot)
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, models.ActivityRunning)
	assert.ErrorIs(t, err, cache.ErrNoSnapshot)

	want := sampleSnapshot(models.ActivityRunning)
	require.NoError(t, store.Put(ctx, want))

	got, err := store.Get(ctx, models.ActivityRunning)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
