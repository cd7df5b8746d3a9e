// Package validator applies per-activity plausibility rules to normalized
// workout records. Records are self-reported and unverifiable, so the rules
// are heuristic bounds on pace, distance and duration rather than hard
// physics.
package validator

import (
	"fmt"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// maxSedentaryDurationSeconds bounds how long a zero-distance workout may
// last before it is treated as implausible.
const maxSedentaryDurationSeconds = 1800

// Limits holds the plausibility bounds for one activity type. Pace bounds
// are inclusive.
type Limits struct {
	MinPaceSecPerKm    float64
	MaxPaceSecPerKm    float64
	MaxDistanceKm      float64
	MaxDurationSeconds int
}

// DefaultLimits returns the hand-tuned plausibility bounds per activity.
func DefaultLimits() map[models.ActivityType]Limits {
	return map[models.ActivityType]Limits{
		models.ActivityRunning: {
			MinPaceSecPerKm:    120,
			MaxPaceSecPerKm:    1800,
			MaxDistanceKm:      200,
			MaxDurationSeconds: 172800,
		},
		models.ActivityWalking: {
			MinPaceSecPerKm:    180,
			MaxPaceSecPerKm:    3600,
			MaxDistanceKm:      100,
			MaxDurationSeconds: 86400,
		},
		models.ActivityCycling: {
			MinPaceSecPerKm:    30,
			MaxPaceSecPerKm:    600,
			MaxDistanceKm:      500,
			MaxDurationSeconds: 172800,
		},
	}
}

// Validator gates activity records before aggregation.
type Validator struct {
	limits map[models.ActivityType]Limits
}

// New creates a Validator with the given per-activity limits.
func New(limits map[models.ActivityType]Limits) *Validator {
	return &Validator{limits: limits}
}

// NewDefault creates a Validator with DefaultLimits.
func NewDefault() *Validator {
	return New(DefaultLimits())
}

// Validate applies the plausibility rules in order; the first matching rule
// rejects the record with a reason. Rejection is a normal outcome, never an
// error.
func (v *Validator) Validate(rec *models.ActivityRecord) models.Verdict {
	limits, ok := v.limits[rec.Activity]
	if !ok {
		return reject(fmt.Sprintf("no limits configured for activity %q", rec.Activity))
	}

	if rec.DistanceKm == 0 && rec.DurationSeconds > maxSedentaryDurationSeconds {
		return reject(fmt.Sprintf("zero distance with implausible duration %ds", rec.DurationSeconds))
	}
	if rec.DistanceKm > 0 && rec.DurationSeconds == 0 {
		return reject("distance without duration")
	}
	if rec.DistanceKm > limits.MaxDistanceKm {
		return reject(fmt.Sprintf("distance %.1fkm exceeds %.0fkm limit", rec.DistanceKm, limits.MaxDistanceKm))
	}
	if rec.DurationSeconds > limits.MaxDurationSeconds {
		return reject(fmt.Sprintf("duration %ds exceeds %ds limit", rec.DurationSeconds, limits.MaxDurationSeconds))
	}
	if pace := rec.PaceSecPerKm(); pace > 0 && (pace < limits.MinPaceSecPerKm || pace > limits.MaxPaceSecPerKm) {
		return reject(fmt.Sprintf("pace %.0fs/km outside plausible range [%.0f, %.0f]",
			pace, limits.MinPaceSecPerKm, limits.MaxPaceSecPerKm))
	}

	return models.Verdict{Accepted: true}
}

func reject(reason string) models.Verdict {
	return models.Verdict{Accepted: false, Reason: reason}
}
