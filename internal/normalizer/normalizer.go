// Package normalizer converts the free-form tag set of a raw workout event
// into a strongly-typed activity record. All parsing happens here, once, at
// the boundary; downstream components never re-scan raw tag arrays.
package normalizer

import (
	"strconv"
	"strings"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// MilesToKm converts statute miles to kilometers.
const MilesToKm = 1.60934

var activitySynonyms = map[string]models.ActivityType{
	"run":     models.ActivityRunning,
	"running": models.ActivityRunning,
	"jog":     models.ActivityRunning,
	"jogging": models.ActivityRunning,
	"walk":    models.ActivityWalking,
	"walking": models.ActivityWalking,
	"hike":    models.ActivityWalking,
	"hiking":  models.ActivityWalking,
	"cycle":   models.ActivityCycling,
	"cycling": models.ActivityCycling,
	"bike":    models.ActivityCycling,
	"biking":  models.ActivityCycling,
}

// ParseActivityType maps a free-text exercise name through the synonym table.
// Unrecognized names map to ActivityOther.
func ParseActivityType(name string) models.ActivityType {
	if at, ok := activitySynonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return at
	}
	return models.ActivityOther
}

// Normalize parses a raw workout event into an ActivityRecord. It returns
// nil when the event cannot be parsed into a minimally valid shape: no id,
// no author, wrong kind, or no exercise tag. Malformed distance and duration
// values normalize to zero rather than failing the whole record. The
// function is side-effect free.
func Normalize(ev *models.RawEvent) *models.ActivityRecord {
	if ev == nil || ev.ID == "" || ev.Pubkey == "" {
		return nil
	}
	if ev.Kind != 0 && ev.Kind != models.KindWorkout {
		return nil
	}

	exercise := ev.Tag(models.TagExercise)
	if len(exercise) == 0 || strings.TrimSpace(exercise[0]) == "" {
		return nil
	}

	rec := &models.ActivityRecord{
		SourceEventID: ev.ID,
		Pubkey:        ev.Pubkey,
		Activity:      ParseActivityType(exercise[0]),
		DistanceKm:    ParseDistance(ev.Tag(models.TagDistance)),
		CharityID:     models.DefaultCharityID,
	}

	if duration := ev.Tag(models.TagDuration); len(duration) > 0 {
		rec.DurationSeconds = ParseDuration(duration[0])
	}
	if charity := ev.Tag(models.TagCharity); len(charity) > 0 {
		if id := strings.TrimSpace(charity[0]); id != "" {
			rec.CharityID = id
		}
	}

	return rec
}

// ParseDistance parses a distance tag's values: a numeric value followed by
// an optional unit. Miles are converted to kilometers; the default unit is
// kilometers. Malformed or negative values normalize to 0.
func ParseDistance(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	distance, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil || distance < 0 {
		return 0
	}

	if len(values) > 1 {
		switch strings.ToLower(strings.TrimSpace(values[1])) {
		case "mi", "mile", "miles":
			distance *= MilesToKm
		}
	}
	return distance
}

// ParseDuration parses a duration string in HH:MM:SS, MM:SS, or bare
// integer-seconds form. Malformed values normalize to 0; it never fails.
func ParseDuration(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
