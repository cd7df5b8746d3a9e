// Package cache stores published leaderboard snapshots. A missing snapshot
// is a valid "no data yet" state, distinguishable from a store error.
package cache

import (
	"context"
	"errors"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// ErrNoSnapshot is returned when no snapshot has been published yet for an
// activity type.
var ErrNoSnapshot = errors.New("no snapshot available")

// SnapshotStore persists the latest leaderboard snapshot per activity type.
type SnapshotStore interface {
	Put(ctx context.Context, snap *models.Snapshot) error
	Get(ctx context.Context, activity models.ActivityType) (*models.Snapshot, error)
	Close() error
}
