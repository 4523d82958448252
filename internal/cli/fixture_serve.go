package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/rosterview/internal/fixture"
	"github.com/rshade/rosterview/internal/logging"
)

func newFixtureServeCmd(state *appState) *cobra.Command {
	var apiVersion string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve teams and profiles from a YAML file",
		Long: `Runs a local backend that serves /getAllTeams, /getProfile/{id} and
/loginRecruiter. Without --data it serves a built-in sample: log in with
recruiter@example.com / password.`,
		Example: `  rosterview fixture serve
  rosterview fixture serve --data teams.yaml --latency 500ms --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := state.cfg.Fixture
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("data") {
				cfg.DataFile, _ = flags.GetString("data")
			}
			if flags.Changed("latency") {
				cfg.Latency, _ = flags.GetDuration("latency")
			}

			data := fixture.SampleData()
			if cfg.DataFile != "" {
				var err error
				if data, err = fixture.LoadData(cfg.DataFile); err != nil {
					return err
				}
			}

			srv := fixture.NewServer(data,
				fixture.WithSigningKey(cfg.SigningKey),
				fixture.WithTokenTTL(cfg.TokenTTL),
				fixture.WithLatency(cfg.Latency),
				fixture.WithAPIVersion(apiVersion),
				fixture.WithLogger(logging.ComponentLogger(logger, "fixture")),
			)

			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Fixture backend listening on http://%s (%d teams)\n", ln.Addr(), len(data.Teams))
			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().String("data", "", "YAML file with teams, profiles and accounts")
	cmd.Flags().Duration("latency", 0, "artificial delay for team and profile responses")
	cmd.Flags().StringVar(&apiVersion, "api-version", "1.0.0", "value of the X-Api-Version response header")

	return cmd
}
