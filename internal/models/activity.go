package models

// ActivityType classifies a workout record for scoring purposes.
type ActivityType string

const (
	ActivityRunning ActivityType = "running"
	ActivityWalking ActivityType = "walking"
	ActivityCycling ActivityType = "cycling"

	// ActivityOther covers unrecognized exercise names. Records with this
	// type are kept as valid events but excluded from scoring.
	ActivityOther ActivityType = "other"
)

// ScoringActivityTypes returns the activity types that participate in
// leaderboard scoring, in their canonical order.
func ScoringActivityTypes() []ActivityType {
	return []ActivityType{ActivityRunning, ActivityWalking, ActivityCycling}
}

// IsScoringActivity reports whether at is one of the scored activity types.
func IsScoringActivity(at ActivityType) bool {
	switch at {
	case ActivityRunning, ActivityWalking, ActivityCycling:
		return true
	}
	return false
}

// ActivityRecord is the strongly-typed form of a workout event, produced by
// the normalizer from the event's free-form tag set. It lives only for the
// duration of one aggregation pass.
type ActivityRecord struct {
	SourceEventID   string       `json:"source_event_id"`
	Pubkey          string       `json:"pubkey"`
	Activity        ActivityType `json:"activity"`
	DistanceKm      float64      `json:"distance_km"`
	DurationSeconds int          `json:"duration_seconds"`
	CharityID       string       `json:"charity_id"`
}

// PaceSecPerKm returns the record's pace in seconds per kilometer, or 0
// when either distance or duration is missing.
func (r *ActivityRecord) PaceSecPerKm() float64 {
	if r.DistanceKm <= 0 || r.DurationSeconds <= 0 {
		return 0
	}
	return float64(r.DurationSeconds) / r.DistanceKm
}

// Verdict is the outcome of fraud validation for a single record. A
// rejection is a first-class result, not an error.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// FlaggedWorkout is a rejected record surfaced for manual moderation review.
type FlaggedWorkout struct {
	SourceEventID   string       `json:"source_event_id"`
	Pubkey          string       `json:"pubkey"`
	Activity        ActivityType `json:"activity"`
	Reason          string       `json:"reason"`
	DistanceKm      float64      `json:"distance_km"`
	DurationSeconds int          `json:"duration_seconds"`
}
