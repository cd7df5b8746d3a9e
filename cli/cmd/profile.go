package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage CLI profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Save a profile and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, token := serverAndToken(cmd)
		if err := cfg.SaveProfile(args[0], server, token); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		output.Success("Profile %q saved (server: %s)", args[0], server)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Profiles) == 0 {
			output.Info("No profiles saved")
			return nil
		}
		table := output.NewTable([]string{"Name", "Server", "Current"})
		for name, p := range cfg.Profiles {
			current := ""
			if name == cfg.CurrentProfile {
				current = "*"
			}
			table.AddRow([]string{name, p.ServerURL, current})
		}
		table.Render()
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
