package user_test

import (
	"testing"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

func TestStatsCounting(t *testing.T) {
	t.Parallel()

	var s domain.Stats
	s.RecordProcessed()
	s.RecordBlank()
	s.RecordProcessed()
	s.RecordValidationFailure()
	s.RecordProcessed()
	s.RecordSuccess()
	s.RecordProcessed()
	s.RecordFailure()

	if s.TotalProcessed != s.SuccessfulCreations+s.FailedCreations+s.SkippedRows {
		t.Fatalf("processed must equal success+failed+skipped: %+v", s)
	}
	if s.SkippedRows != 2 || s.ValidationFailures != 1 {
		t.Fatalf("blank rows must be skipped but not counted as validation failures: %+v", s)
	}
}

func TestStatsSuccessRate(t *testing.T) {
	t.Parallel()

	if _, ok := (domain.Stats{}).SuccessRate(); ok {
		t.Fatal("expected no success rate for an empty run")
	}

	rate, ok := domain.Stats{TotalProcessed: 3, SuccessfulCreations: 1}.SuccessRate()
	if !ok {
		t.Fatal("expected a success rate")
	}
	if rate < 33.3 || rate > 33.4 {
		t.Fatalf("unexpected rate %f", rate)
	}
}
