package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/client"
	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh <activity>",
	Short: "Trigger a leaderboard refresh",
	Long:  "Run a full collection and aggregation pass for an activity and wait for the result (requires a moderation token)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, token := serverAndToken(cmd)
		c := client.New(server, token)

		output.Info("Refreshing %s leaderboard...", args[0])
		resp, err := c.Refresh(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(resp)
		}

		snap := resp.Snapshot
		if snap.Partial {
			output.Warn("Refresh completed on partial data (%d/%d queries succeeded)",
				snap.Stats.Succeeded, snap.Stats.Queries)
		} else {
			output.Success("Refresh completed (%d queries)", snap.Stats.Queries)
		}
		output.Info("%d participants ranked, %d charities", len(snap.Entries), len(snap.CharityRankings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
