package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/rosterview/internal/config"
)

// newConfigInitCmd creates the config init command. It writes the built-in
// defaults, not the effective configuration, to the config path.
func newConfigInitCmd(state *appState) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.rosterview/config.yaml (or the --config path) with default values.
Secrets such as ROSTERVIEW_TOKEN are never written.`,
		Example: `  # Create configuration
  rosterview config init

  # Create configuration, overwriting existing
  rosterview config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			cfg.SetConfigPath(state.cfg.ConfigPath())

			if !force {
				_, err := os.Stat(cfg.ConfigPath())
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
				}
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized successfully\n")
			cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// newConfigShowCmd prints the effective configuration.
func newConfigShowCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := state.cfg.YAML()
			if err != nil {
				return err
			}
			cmd.Printf("# %s\n%s", state.cfg.ConfigPath(), data)
			return nil
		},
	}
}
