package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

const snapshotKeyPrefix = "leaderboard:snapshot:"

// RedisStore implements SnapshotStore on Redis. Snapshots are stored as
// JSON under one key per activity type, with an optional TTL so a dead
// refresh loop eventually surfaces as "no data" rather than stale data.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on an existing Redis client. A zero ttl
// keeps snapshots forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores the snapshot for its activity type, replacing any previous one.
func (s *RedisStore) Put(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(snap.Activity), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Get returns the latest snapshot for the activity type, or ErrNoSnapshot.
func (s *RedisStore) Get(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(activity)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func snapshotKey(activity models.ActivityType) string {
	return snapshotKeyPrefix + string(activity)
}
