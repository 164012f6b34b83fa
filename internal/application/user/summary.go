package user

import (
	"fmt"
	"log/slog"
	"strings"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// LogSummary reports the final counters of a run. The success rate line is
// only emitted when at least one row was processed.
func LogSummary(logger *slog.Logger, stats domain.Stats) {
	rule := strings.Repeat("=", 60)

	logger.Info(rule)
	logger.Info("PROCESSING SUMMARY")
	logger.Info(rule)
	logger.Info(fmt.Sprintf("Total rows processed: %d", stats.TotalProcessed))
	logger.Info(fmt.Sprintf("Successful creations: %d", stats.SuccessfulCreations))
	logger.Info(fmt.Sprintf("Failed creations: %d", stats.FailedCreations))
	logger.Info(fmt.Sprintf("Skipped rows: %d", stats.SkippedRows))
	logger.Info(fmt.Sprintf("Validation failures: %d", stats.ValidationFailures))

	if rate, ok := stats.SuccessRate(); ok {
		logger.Info(fmt.Sprintf("Success rate: %.1f%%", rate))
	}

	logger.Info(rule)
}

// ExitCode maps a finished run to the process exit status.
func ExitCode(stats domain.Stats, interrupted bool) int {
	if interrupted {
		return ExitInterrupted
	}
	if stats.FailedCreations > 0 {
		return ExitFailure
	}
	return ExitOK
}
