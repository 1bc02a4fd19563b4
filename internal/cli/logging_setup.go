package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/userfeed/internal/config"
	"github.com/rshade/userfeed/internal/logging"
	"github.com/rshade/userfeed/internal/tui"
)

// setupLogging builds the logger for this invocation and stores it, with a
// fresh trace id, in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug, interactive bool) logging.LogPathResult {
	lc := cfg.ToLoggingConfig(debug, interactive)
	result := logging.NewLoggerWithPath(lc)

	if result.FallbackUsed && interactive {
		// stderr belongs to the TUI; losing logs beats corrupting the screen.
		lc.Output = logging.OutputDiscard
		result = logging.NewLoggerWithPath(lc)
	}
	logger = logging.ComponentLogger(result.Logger, "cli")

	switch {
	case result.UsingFile && !interactive:
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	case result.FallbackUsed:
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")
	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.CommandPath()).Msg("command finished")
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}

// wantsInteractive reports whether cmd is about to take over the terminal.
func wantsInteractive(cmd *cobra.Command) bool {
	if cmd.Name() != "browse" {
		return false
	}
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.DetectOutputMode(plain, false, false) == tui.OutputModeInteractive
}
