package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/rosterview/internal/config"
	"github.com/rshade/rosterview/internal/logging"
)

// annotationTUI marks commands that may take over the terminal.
const annotationTUI = "rosterview/tui"

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// appState is shared by every subcommand of one root command.
type appState struct {
	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the rosterview CLI.
// It loads configuration, wires up logging and tracing, and registers the
// browse, login, logout, config and fixture subcommands.
func NewRootCmd(ver string) *cobra.Command {
	state := &appState{}

	cmd := &cobra.Command{
		Use:           "rosterview",
		Short:         "Browse hackathon teams and member profiles",
		Long:          "rosterview: browse innovation challenge teams, their rosters and member profiles from the terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			state.cfg = cfg

			result := setupLogging(cmd, cfg)
			state.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, state.logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.rosterview/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "backend base URL (overrides config file and environment)")
	cmd.AddCommand(
		newBrowseCmd(state),
		newLoginCmd(state),
		newLogoutCmd(state),
		newConfigCmd(state),
		newFixtureCmd(state),
	)

	return cmd
}

const rootCmdExample = `  # Sign in against the backend
  rosterview login --email recruiter@example.com

  # Browse teams interactively
  rosterview browse

  # Print one team's roster with every profile
  rosterview browse --team 1 --prefetch --plain

  # Run a local fixture backend for demos
  rosterview fixture serve --latency 300ms

  # Initialize configuration
  rosterview config init`

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL, _ = cmd.Flags().GetString("api-url")
		if err = cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--api-url: %w", err)
		}
	}
	return cfg, nil
}

// newConfigCmd creates the config command group.
func newConfigCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(state), newConfigShowCmd(state))
	return cmd
}

// newFixtureCmd creates the fixture command group.
func newFixtureCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{Use: "fixture", Short: "Local stand-in backend for demos and tests"}
	cmd.AddCommand(newFixtureServeCmd(state))
	return cmd
}
