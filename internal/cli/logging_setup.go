package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/rosterview/internal/config"
	"github.com/rshade/rosterview/internal/logging"
	"github.com/rshade/rosterview/internal/tui"
)

// setupLogging configures logging from the loaded configuration and CLI
// flags, and stores the logger and a trace id in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogPathResult {
	interactive := takesOverTerminal(cmd)
	loggingCfg := cfg.Logging.ToLoggingConfig(interactive)

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		if !interactive {
			loggingCfg.Format = logging.FormatConsole
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && debug {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}

// takesOverTerminal reports whether cmd will run the interactive browser.
func takesOverTerminal(cmd *cobra.Command) bool {
	if _, ok := cmd.Annotations[annotationTUI]; !ok {
		return false
	}
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.DetectOutputMode(cmd.OutOrStdout(), plain) == tui.OutputModeInteractive
}
