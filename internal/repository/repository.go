package repository

import (
	"context"
	"errors"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

var (
	ErrParticipantExists   = errors.New("participant already exists")
	ErrParticipantNotFound = errors.New("participant not found")
)

// Repository persists the participant roster and the flagged-workout audit
// list.
type Repository interface {
	// Roster operations
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	GetParticipant(ctx context.Context, pubkey string) (*models.Participant, error)
	CreateParticipant(ctx context.Context, p models.Participant) error

	// Flagged-workout audit operations. ReplaceFlagged swaps the audit list
	// wholesale, matching the full-recompute refresh strategy.
	ReplaceFlagged(ctx context.Context, flagged []models.FlaggedWorkout) error
	ListFlagged(ctx context.Context) ([]models.FlaggedWorkout, error)

	// Utility
	Ping(ctx context.Context) error
	Close() error
}
