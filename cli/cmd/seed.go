package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/bohemia111/RUNSTR-sub012/cli/internal/client"
	"github.com/bohemia111/RUNSTR-sub012/cli/internal/seeder"
	"github.com/bohemia111/RUNSTR-sub012/cli/pkg/output"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/relay"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo relays with synthetic workout data",
	Long: `Generate a synthetic participant roster and workout events, register
the roster with the leaderboard service, and serve the events from
in-process relays on NATS. The command keeps serving until interrupted,
so a running leaderboard service can collect against it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		relayNames, _ := cmd.Flags().GetString("relays")
		participants, _ := cmd.Flags().GetInt("participants")
		eventsPer, _ := cmd.Flags().GetInt("events")
		seed, _ := cmd.Flags().GetInt64("seed")
		register, _ := cmd.Flags().GetBool("register")

		cfg := seeder.DefaultConfig()
		if participants > 0 {
			cfg.Participants = participants
		}
		if eventsPer > 0 {
			cfg.EventsPerParticipant = eventsPer
		}
		if seed != 0 {
			cfg.Seed = seed
		}

		gen := seeder.NewGenerator(cfg)
		roster := gen.Participants()

		// Start in-process relays
		conn, err := nats.Connect(natsURL, nats.Name("runstr-seeder"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer conn.Close()

		var servers []*relay.Server
		for _, name := range strings.Split(relayNames, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			srv := relay.NewServer(conn, name)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("failed to start relay %q: %w", name, err)
			}
			defer srv.Stop()
			servers = append(servers, srv)
		}
		if len(servers) == 0 {
			return errors.New("at least one relay name is required")
		}

		// Generate and distribute events
		var all []models.RawEvent
		for _, p := range roster {
			all = append(all, gen.Events(p)...)
		}
		gen.Distribute(all, servers)

		total := 0
		for _, srv := range servers {
			output.Info("Relay %q serving %d events", srv.Name(), srv.Len())
			total += srv.Len()
		}
		output.Success("Generated %d participants, %d events (%d stored including duplicates)",
			len(roster), len(all), total)

		// Register the roster with the leaderboard service
		if register {
			server, token := serverAndToken(cmd)
			c := client.New(server, token)
			registered := 0
			for _, p := range roster {
				_, err := c.RegisterParticipant(cmd.Context(), models.RegisterParticipantRequest{
					Pubkey:      p.Pubkey,
					DisplayName: p.DisplayName,
					PictureURL:  p.PictureURL,
					CharityID:   p.CharityID,
				})
				if err != nil {
					if strings.Contains(err.Error(), "participant_exists") {
						continue
					}
					return fmt.Errorf("failed to register %s: %w", p.Pubkey, err)
				}
				registered++
			}
			output.Success("Registered %d participants with %s", registered, server)
		}

		output.Info("Serving relay queries; press Ctrl-C to stop")
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		output.Info("Stopping relays")
		// Give in-flight queries a moment to drain.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("nats", nats.DefaultURL, "NATS server URL")
	seedCmd.Flags().String("relays", "damus,primal,nostr-band", "comma-separated relay names to serve")
	seedCmd.Flags().Int("participants", 0, "number of participants to generate")
	seedCmd.Flags().Int("events", 0, "events per participant")
	seedCmd.Flags().Int64("seed", 0, "random seed (0 = time-based)")
	seedCmd.Flags().Bool("register", true, "register generated participants with the leaderboard service")

	rootCmd.AddCommand(seedCmd)
}
