package user_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

func TestLogSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	app.LogSummary(slog.New(slog.NewTextHandler(&buf, nil)), domain.Stats{
		TotalProcessed:      3,
		SuccessfulCreations: 1,
		SkippedRows:         2,
		ValidationFailures:  2,
	})

	out := buf.String()
	for _, want := range []string{
		"Total rows processed: 3",
		"Successful creations: 1",
		"Failed creations: 0",
		"Skipped rows: 2",
		"Validation failures: 2",
		"Success rate: 33.3%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary, got %s", want, out)
		}
	}
}

func TestLogSummaryOmitsRateForEmptyRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	app.LogSummary(slog.New(slog.NewTextHandler(&buf, nil)), domain.Stats{})

	if strings.Contains(buf.String(), "Success rate") {
		t.Fatalf("did not expect success rate, got %s", buf.String())
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	if got := app.ExitCode(domain.Stats{SuccessfulCreations: 2, SkippedRows: 1}, false); got != app.ExitOK {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := app.ExitCode(domain.Stats{FailedCreations: 1}, false); got != app.ExitFailure {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := app.ExitCode(domain.Stats{FailedCreations: 1}, true); got != app.ExitInterrupted {
		t.Fatalf("expected 130, got %d", got)
	}
}
