package user

// Stats holds the counters of one processing run. Counters only grow.
type Stats struct {
	TotalProcessed      int64 `json:"total_processed"`
	SuccessfulCreations int64 `json:"successful_creations"`
	FailedCreations     int64 `json:"failed_creations"`
	SkippedRows         int64 `json:"skipped_rows"`
	ValidationFailures  int64 `json:"validation_failures"`
}

func (s *Stats) RecordProcessed() {
	s.TotalProcessed++
}

// RecordBlank counts a blank row as skipped without counting it as a
// validation failure.
func (s *Stats) RecordBlank() {
	s.SkippedRows++
}

func (s *Stats) RecordValidationFailure() {
	s.ValidationFailures++
	s.SkippedRows++
}

func (s *Stats) RecordSuccess() {
	s.SuccessfulCreations++
}

func (s *Stats) RecordFailure() {
	s.FailedCreations++
}

// SuccessRate returns successful creations as a percentage of processed rows.
// The second value is false when nothing was processed.
func (s Stats) SuccessRate() (float64, bool) {
	if s.TotalProcessed == 0 {
		return 0, false
	}
	return float64(s.SuccessfulCreations) / float64(s.TotalProcessed) * 100, true
}

// Outcome is the result of submitting one row.
type Outcome struct {
	Success bool
	Reason  string
}
