package models

import "time"

// LeaderboardEntry is a rank-assigned view over one totals bucket joined
// with roster profile data. Entries with zero distance are included; whether
// to show them is a presentation decision.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	Pubkey          string  `json:"pubkey"`
	DisplayName     string  `json:"display_name,omitempty"`
	PictureURL      string  `json:"picture_url,omitempty"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	DurationSeconds int     `json:"duration_seconds"`
	WorkoutCount    int     `json:"workout_count"`
	CharityID       string  `json:"charity_id,omitempty"`
	CharityName     string  `json:"charity_name,omitempty"`
}

// CharityRanking orders charities by distance attributed to them for one
// activity type.
type CharityRanking struct {
	Rank             int     `json:"rank"`
	CharityID        string  `json:"charity_id"`
	CharityName      string  `json:"charity_name"`
	DistanceKm       float64 `json:"distance_km"`
	ParticipantCount int     `json:"participant_count"`
}

// QueryStats reports collection query outcomes so callers can distinguish a
// complete leaderboard from one built on partial data.
type QueryStats struct {
	Queries   int `json:"queries"`
	Succeeded int `json:"succeeded"`
	TimedOut  int `json:"timed_out"`
	Failed    int `json:"failed"`
}

// Partial reports whether any query timed out or failed.
func (s QueryStats) Partial() bool {
	return s.TimedOut > 0 || s.Failed > 0
}

// Snapshot is the externally visible result of one aggregation pass for one
// activity type. It is immutable once published; a refresh replaces it
// wholesale.
type Snapshot struct {
	Activity        ActivityType       `json:"activity"`
	Entries         []LeaderboardEntry `json:"entries"`
	CharityRankings []CharityRanking   `json:"charity_rankings"`
	LastUpdated     time.Time          `json:"last_updated"`
	Partial         bool               `json:"partial"`
	Stats           QueryStats         `json:"stats"`
}
