package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/client"
	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
)

var flaggedCmd = &cobra.Command{
	Use:   "flagged",
	Short: "List workouts rejected by the fraud filter",
	Long:  "List workouts excluded from the standings during the most recent aggregation passes (requires a moderation token)",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, token := serverAndToken(cmd)
		c := client.New(server, token)

		flagged, err := c.Flagged(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list flagged workouts: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(flagged)
		}

		if len(flagged) == 0 {
			output.Info("No flagged workouts")
			return nil
		}

		table := output.NewTable([]string{"Event", "Pubkey", "Activity", "Distance (km)", "Duration (s)", "Reason"})
		for _, f := range flagged {
			table.AddRow([]string{
				shortPubkey(f.SourceEventID),
				shortPubkey(f.Pubkey),
				string(f.Activity),
				fmt.Sprintf("%.2f", f.DistanceKm),
				fmt.Sprintf("%d", f.DurationSeconds),
				f.Reason,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flaggedCmd)
}
