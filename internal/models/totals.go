package models

// TotalsKey addresses one accumulator bucket in an aggregation pass.
type TotalsKey struct {
	Pubkey   string
	Activity ActivityType
}

// Totals accumulates distance, duration and workout count for one
// (pubkey, activity) bucket. Buckets only grow within a pass and each pass
// starts from zero, so totals are safe to recompute at any time.
type Totals struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationSeconds int     `json:"duration_seconds"`
	WorkoutCount    int     `json:"workout_count"`
}

// CharityKey addresses one charity attribution bucket.
type CharityKey struct {
	CharityID string
	Activity  ActivityType
}

// CharityTotals accumulates distance attributed to a charity, together with
// the set of pubkeys that contributed to it.
type CharityTotals struct {
	DistanceKm   float64             `json:"distance_km"`
	Contributors map[string]struct{} `json:"-"`
}
