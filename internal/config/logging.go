package config

import (
	"io"

	"github.com/rshade/rosterview/internal/logging"
)

// ToLoggingConfig converts the file form into a logging.Config.
//
// The interactive browser owns the terminal, so tui=true always sends logs to
// the log file and drops them when the file cannot be opened. Otherwise logs
// go to stderr.
func (lc LoggingConfig) ToLoggingConfig(tui bool) logging.Config {
	cfg := logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: logging.OutputStderr,
		File:   lc.File,
	}
	if tui {
		cfg.Output = logging.OutputFile
		cfg.Fallback = io.Discard
	}
	return cfg
}
