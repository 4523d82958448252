package config

import (
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the rosterview home directory.
const HomeEnvVar = "ROSTERVIEW_HOME"

// RosterviewDir returns $ROSTERVIEW_HOME, falling back to ~/.rosterview and
// then to a directory under the system temp dir when no home is known.
func RosterviewDir() string {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "rosterview")
	}
	return filepath.Join(home, ".rosterview")
}

// DefaultConfigPath returns the global config file location.
func DefaultConfigPath() string {
	return filepath.Join(RosterviewDir(), "config.yaml")
}
