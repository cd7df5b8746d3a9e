package models

// KindWorkout is the Nostr event kind for structured workout records.
const KindWorkout = 1301

// Tag names carried by workout events. Tags are order-insensitive within an
// event; the first tag with a matching name wins.
const (
	TagExercise = "exercise"
	TagDistance = "distance"
	TagDuration = "duration"
	TagCharity  = "charity"
)

// RawEvent is an immutable, signed, content-addressed record as delivered by
// a relay. The ID is derived from the event contents, so the same logical
// event fetched from two different relays is byte-identical and deduplicates
// by ID alone. The pipeline treats RawEvent as read-only input.
type RawEvent struct {
	ID        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Tag returns the values of the first tag with the given name, or nil if the
// event carries no such tag.
func (e *RawEvent) Tag(name string) []string {
	for _, t := range e.Tags {
		if len(t) > 1 && t[0] == name {
			return t[1:]
		}
	}
	return nil
}
