package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/client"
	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard <activity>",
	Aliases: []string{"lb"},
	Short:   "Show the leaderboard for an activity",
	Long:    "Show the current cached leaderboard standings for running, walking or cycling",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, token := serverAndToken(cmd)
		c := client.New(server, token)

		resp, err := c.Leaderboard(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch leaderboard: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(resp)
		}

		if !resp.Ready {
			output.Info("No %s leaderboard yet; the first refresh has not completed", resp.Activity)
			return nil
		}

		snap := resp.Snapshot
		if snap.Partial {
			output.Warn("Standings are partial: some relay queries failed or timed out")
		}

		table := output.NewTable([]string{"Rank", "Name", "Distance (km)", "Duration", "Workouts", "Charity"})
		for _, e := range snap.Entries {
			name := e.DisplayName
			if name == "" {
				name = shortPubkey(e.Pubkey)
			}
			table.AddRow([]string{
				fmt.Sprintf("%d", e.Rank),
				name,
				fmt.Sprintf("%.2f", e.TotalDistanceKm),
				formatSeconds(e.DurationSeconds),
				fmt.Sprintf("%d", e.WorkoutCount),
				e.CharityName,
			})
		}
		table.Render()

		if len(snap.CharityRankings) > 0 {
			fmt.Println()
			output.Info("Charity standings")
			charities := output.NewTable([]string{"Rank", "Charity", "Distance (km)", "Contributors"})
			for _, c := range snap.CharityRankings {
				charities.AddRow([]string{
					fmt.Sprintf("%d", c.Rank),
					c.CharityName,
					fmt.Sprintf("%.2f", c.DistanceKm),
					fmt.Sprintf("%d", c.ParticipantCount),
				})
			}
			charities.Render()
		}

		output.Info("Last updated: %s", snap.LastUpdated.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

func shortPubkey(pubkey string) string {
	if len(pubkey) <= 12 {
		return pubkey
	}
	return pubkey[:8] + "…" + pubkey[len(pubkey)-4:]
}

func formatSeconds(totalSec int) string {
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	return fmt.Sprintf("%dh%02dm", h, m)
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}
