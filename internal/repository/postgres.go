package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a pooled PostgreSQL repository and verifies
// connectivity.
func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// ListParticipants returns the full roster in registration order.
func (r *PostgresRepository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	query := `
		SELECT pubkey, display_name, picture_url, charity_id
		FROM participants
		ORDER BY created_at, pubkey
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var roster []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.Pubkey, &p.DisplayName, &p.PictureURL, &p.CharityID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}

// GetParticipant fetches one roster entry by pubkey.
func (r *PostgresRepository) GetParticipant(ctx context.Context, pubkey string) (*models.Participant, error) {
	query := `
		SELECT pubkey, display_name, picture_url, charity_id
		FROM participants
		WHERE pubkey = $1
	`

	var p models.Participant
	err := r.pool.QueryRow(ctx, query, pubkey).Scan(&p.Pubkey, &p.DisplayName, &p.PictureURL, &p.CharityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// CreateParticipant registers a new roster entry.
func (r *PostgresRepository) CreateParticipant(ctx context.Context, p models.Participant) error {
	query := `
		INSERT INTO participants (pubkey, display_name, picture_url, charity_id)
		VALUES ($1, $2, $3, $4)
	`

	charityID := p.CharityID
	if charityID == "" {
		charityID = models.DefaultCharityID
	}

	_, err := r.pool.Exec(ctx, query, p.Pubkey, p.DisplayName, p.PictureURL, charityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrParticipantExists
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// ReplaceFlagged swaps the audit list for the latest pass's flagged records.
func (r *PostgresRepository) ReplaceFlagged(ctx context.Context, flagged []models.FlaggedWorkout) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM flagged_workouts`); err != nil {
		return fmt.Errorf("failed to clear flagged workouts: %w", err)
	}

	query := `
		INSERT INTO flagged_workouts (source_event_id, pubkey, activity, reason, distance_km, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, f := range flagged {
		_, err := tx.Exec(ctx, query,
			f.SourceEventID, f.Pubkey, string(f.Activity), f.Reason, f.DistanceKm, f.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("failed to insert flagged workout: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListFlagged returns the current audit list for moderation review.
func (r *PostgresRepository) ListFlagged(ctx context.Context) ([]models.FlaggedWorkout, error) {
	query := `
		SELECT source_event_id, pubkey, activity, reason, distance_km, duration_seconds
		FROM flagged_workouts
		ORDER BY flagged_at, source_event_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged workouts: %w", err)
	}
	defer rows.Close()

	var flagged []models.FlaggedWorkout
	for rows.Next() {
		var f models.FlaggedWorkout
		var activity string
		if err := rows.Scan(&f.SourceEventID, &f.Pubkey, &activity, &f.Reason, &f.DistanceKm, &f.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan flagged workout: %w", err)
		}
		f.Activity = models.ActivityType(activity)
		flagged = append(flagged, f)
	}
	return flagged, rows.Err()
}

// Ping verifies database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
