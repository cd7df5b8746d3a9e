package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/client"
	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "Manage the competition roster",
}

var participantsRegisterCmd = &cobra.Command{
	Use:   "register <pubkey>",
	Short: "Register a participant",
	Long:  "Add a pubkey to the competition roster (requires a moderation token)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, token := serverAndToken(cmd)
		c := client.New(server, token)

		name, _ := cmd.Flags().GetString("name")
		picture, _ := cmd.Flags().GetString("picture")
		charity, _ := cmd.Flags().GetString("charity")

		p, err := c.RegisterParticipant(cmd.Context(), models.RegisterParticipantRequest{
			Pubkey:      args[0],
			DisplayName: name,
			PictureURL:  picture,
			CharityID:   charity,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		output.Success("Registered %s", p.Pubkey)
		return nil
	},
}

func init() {
	participantsRegisterCmd.Flags().String("name", "", "display name")
	participantsRegisterCmd.Flags().String("picture", "", "profile picture URL")
	participantsRegisterCmd.Flags().String("charity", "", "charity id (defaults to the sitewide charity)")

	participantsCmd.AddCommand(participantsRegisterCmd)
	rootCmd.AddCommand(participantsCmd)
}
