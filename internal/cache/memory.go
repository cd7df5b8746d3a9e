package cache

import (
	"context"
	"sync"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// MemoryStore is an in-process SnapshotStore for tests and single-node
// deployments that run without Redis.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[models.ActivityType]*models.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[models.ActivityType]*models.Snapshot)}
}

// Put stores the snapshot for its activity type.
func (s *MemoryStore) Put(_ context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	s.snapshots[snap.Activity] = &copied
	return nil
}

// Get returns the latest snapshot for the activity type, or ErrNoSnapshot.
func (s *MemoryStore) Get(_ context.Context, activity models.ActivityType) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[activity]
	if !ok {
		return nil, ErrNoSnapshot
	}
	copied := *snap
	return &copied, nil
}

// Close implements SnapshotStore.
func (s *MemoryStore) Close() error {
	return nil
}
