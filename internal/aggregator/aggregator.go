// Package aggregator merges raw workout events into canonical per-user and
// per-charity totals. Aggregate is a pure function of its inputs: no ambient
// state survives between passes, so every refresh is a full recompute and
// two passes over the same events produce identical totals regardless of
// event order.
package aggregator

import (
	"fmt"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/normalizer"
	"github.com/bohemia111/RUNSTR-sub012/internal/validator"
)

// Result holds the output of one aggregation pass. Totals contains a bucket
// for every (roster pubkey, scoring activity) pair, pre-seeded at zero, so
// participants with no qualifying workouts still appear.
type Result struct {
	Totals    map[models.TotalsKey]*models.Totals
	Charities map[models.CharityKey]*models.CharityTotals
	Flagged   []models.FlaggedWorkout
}

// Aggregate processes raw events into totals. Events are deduplicated by id
// as a defensive second pass behind the collector's own dedup. Events that
// fail to normalize, come from authors outside the roster, or carry an
// unscored activity type are silently skipped; events the fraud filter
// rejects land on the flagged list. Order of events does not affect the
// result.
//
// A roster entry with an empty pubkey is a contract violation and panics.
func Aggregate(events []models.RawEvent, roster []models.Participant, v *validator.Validator) *Result {
	res := &Result{
		Totals:    make(map[models.TotalsKey]*models.Totals),
		Charities: make(map[models.CharityKey]*models.CharityTotals),
	}

	known := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		if p.Pubkey == "" {
			panic(fmt.Sprintf("aggregator: roster entry %q has empty pubkey", p.DisplayName))
		}
		known[p.Pubkey] = struct{}{}
		for _, at := range models.ScoringActivityTypes() {
			key := models.TotalsKey{Pubkey: p.Pubkey, Activity: at}
			if _, ok := res.Totals[key]; !ok {
				res.Totals[key] = &models.Totals{}
			}
		}
	}

	seen := make(map[string]struct{}, len(events))
	for i := range events {
		ev := &events[i]
		if ev.ID != "" {
			if _, dup := seen[ev.ID]; dup {
				continue
			}
			seen[ev.ID] = struct{}{}
		}

		rec := normalizer.Normalize(ev)
		if rec == nil {
			continue
		}
		if _, ok := known[rec.Pubkey]; !ok {
			continue
		}
		if !models.IsScoringActivity(rec.Activity) {
			continue
		}

		verdict := v.Validate(rec)
		if !verdict.Accepted {
			res.Flagged = append(res.Flagged, models.FlaggedWorkout{
				SourceEventID:   rec.SourceEventID,
				Pubkey:          rec.Pubkey,
				Activity:        rec.Activity,
				Reason:          verdict.Reason,
				DistanceKm:      rec.DistanceKm,
				DurationSeconds: rec.DurationSeconds,
			})
			continue
		}

		totals := res.Totals[models.TotalsKey{Pubkey: rec.Pubkey, Activity: rec.Activity}]
		totals.DistanceKm += rec.DistanceKm
		totals.DurationSeconds += rec.DurationSeconds
		totals.WorkoutCount++

		ck := models.CharityKey{CharityID: rec.CharityID, Activity: rec.Activity}
		charity := res.Charities[ck]
		if charity == nil {
			charity = &models.CharityTotals{Contributors: make(map[string]struct{})}
			res.Charities[ck] = charity
		}
		charity.DistanceKm += rec.DistanceKm
		charity.Contributors[rec.Pubkey] = struct{}{}
	}

	return res
}
