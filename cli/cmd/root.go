package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "runstr",
	Short: "RUNSTR leaderboard CLI",
	Long: `runstr is the command-line interface for the RUNSTR charity
leaderboard service.

View leaderboards, inspect flagged workouts, trigger refreshes, manage
the participant roster, and seed demo data into local relays.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.runstr/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
	rootCmd.PersistentFlags().String("server", "", "leaderboard service base URL")
	rootCmd.PersistentFlags().String("token", os.Getenv("RUNSTR_TOKEN"), "moderation bearer token")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// serverAndToken resolves the target server and token: explicit flags win,
// then the selected profile, then the local default.
func serverAndToken(cmd *cobra.Command) (string, string) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")

	if cfg != nil && (server == "" || token == "") {
		profileName, _ := cmd.Flags().GetString("profile")
		if p, err := cfg.GetProfile(profileName); err == nil {
			if server == "" {
				server = p.ServerURL
			}
			if token == "" {
				token = p.Token
			}
		}
	}

	if server == "" {
		server = "http://localhost:8084"
	}
	return server, token
}
