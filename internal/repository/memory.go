package repository

import (
	"context"
	"sync"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// MemoryRepository is an in-memory Repository used in tests and local
// development.
type MemoryRepository struct {
	mu           sync.RWMutex
	participants []models.Participant
	byPubkey     map[string]int
	flagged      []models.FlaggedWorkout
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPubkey: make(map[string]int)}
}

// ListParticipants returns the roster in registration order.
func (r *MemoryRepository) ListParticipants(_ context.Context) ([]models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roster := make([]models.Participant, len(r.participants))
	copy(roster, r.participants)
	return roster, nil
}

// GetParticipant fetches one roster entry by pubkey.
func (r *MemoryRepository) GetParticipant(_ context.Context, pubkey string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byPubkey[pubkey]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	p := r.participants[idx]
	return &p, nil
}

// CreateParticipant registers a new roster entry.
func (r *MemoryRepository) CreateParticipant(_ context.Context, p models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPubkey[p.Pubkey]; ok {
		return ErrParticipantExists
	}
	if p.CharityID == "" {
		p.CharityID = models.DefaultCharityID
	}
	r.byPubkey[p.Pubkey] = len(r.participants)
	r.participants = append(r.participants, p)
	return nil
}

// ReplaceFlagged swaps the audit list.
func (r *MemoryRepository) ReplaceFlagged(_ context.Context, flagged []models.FlaggedWorkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flagged = make([]models.FlaggedWorkout, len(flagged))
	copy(r.flagged, flagged)
	return nil
}

// ListFlagged returns the current audit list.
func (r *MemoryRepository) ListFlagged(_ context.Context) ([]models.FlaggedWorkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flagged := make([]models.FlaggedWorkout, len(r.flagged))
	copy(flagged, r.flagged)
	return flagged, nil
}

// Ping implements Repository.
func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Close implements Repository.
func (r *MemoryRepository) Close() error {
	return nil
}
