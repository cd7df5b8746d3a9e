// Package leaderboard projects aggregated totals into ordered, ranked views.
// Output is deterministic: ties are broken by roster order for participants
// and by charity id for charities, never by map iteration order.
package leaderboard

import (
	"sort"

	"github.com/bohemia111/RUNSTR-sub012/internal/aggregator"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// Project turns an aggregation result into a ranked leaderboard and charity
// ranking for one activity type. Every roster participant appears, including
// those with zero totals; filtering them out is the caller's choice. Ranks
// run 1..N with no gaps and no shared ranks.
func Project(res *aggregator.Result, roster []models.Participant, activity models.ActivityType) ([]models.LeaderboardEntry, []models.CharityRanking) {
	entries := make([]models.LeaderboardEntry, 0, len(roster))
	for _, p := range roster {
		totals := res.Totals[models.TotalsKey{Pubkey: p.Pubkey, Activity: activity}]
		if totals == nil {
			totals = &models.Totals{}
		}
		entry := models.LeaderboardEntry{
			Pubkey:          p.Pubkey,
			DisplayName:     p.DisplayName,
			PictureURL:      p.PictureURL,
			TotalDistanceKm: totals.DistanceKm,
			DurationSeconds: totals.DurationSeconds,
			WorkoutCount:    totals.WorkoutCount,
			CharityID:       p.CharityID,
		}
		if p.CharityID != "" {
			entry.CharityName = models.CharityName(p.CharityID)
		}
		entries = append(entries, entry)
	}

	// Stable sort keeps roster order on equal distances.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalDistanceKm > entries[j].TotalDistanceKm
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, projectCharities(res, activity)
}

func projectCharities(res *aggregator.Result, activity models.ActivityType) []models.CharityRanking {
	rankings := make([]models.CharityRanking, 0)
	for key, totals := range res.Charities {
		if key.Activity != activity {
			continue
		}
		rankings = append(rankings, models.CharityRanking{
			CharityID:        key.CharityID,
			CharityName:      models.CharityName(key.CharityID),
			DistanceKm:       totals.DistanceKm,
			ParticipantCount: len(totals.Contributors),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].DistanceKm != rankings[j].DistanceKm {
			return rankings[i].DistanceKm > rankings[j].DistanceKm
		}
		return rankings[i].CharityID < rankings[j].CharityID
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}
