package user

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/file"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type RowSubmitter interface {
	CreateUser(ctx context.Context, row domain.Row, rowNumber int) domain.Outcome
	Close() error
}

type ProcessorConfig struct {
	// RowDelay is the pause after each submitted row. Zero disables it.
	RowDelay time.Duration
}

// Processor imports one CSV file at a time, submitting every valid row. It
// owns the submitter: Close must be called once the processor is done.
type Processor struct {
	source    ImportSource
	submitter RowSubmitter
	cfg       ProcessorConfig
	logger    *slog.Logger

	stats       domain.Stats
	interrupted bool

	closeOnce sync.Once
	closeErr  error
}

func NewProcessor(source ImportSource, submitter RowSubmitter, cfg ProcessorConfig, logger *slog.Logger) *Processor {
	if cfg.RowDelay < 0 {
		cfg.RowDelay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		source:    source,
		submitter: submitter,
		cfg:       cfg,
		logger:    logger,
	}
}

// ProcessFile runs one pass over the file and returns the run's stats.
// Structural problems (missing, empty, headerless file or missing columns)
// are logged and return zero stats. Read errors mid-file and cancellation
// stop the pass and return the stats accumulated so far.
func (p *Processor) ProcessFile(ctx context.Context, sourcePath string) domain.Stats {
	p.stats = domain.Stats{}
	p.interrupted = false

	reader, err := p.source.Open(ctx, sourcePath)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrSourceNotFound):
			p.logger.Error("CSV file not found", "path", sourcePath)
		case errors.Is(err, file.ErrEmptySource):
			p.logger.Error("CSV file is empty", "path", sourcePath)
		default:
			p.logger.Error("Unexpected error processing file", "path", sourcePath, "error", err)
		}
		return p.stats
	}
	defer reader.Close()

	p.logger.Info("Processing CSV file", "path", sourcePath)

	rows, err := file.NewCSVReader(reader)
	if err != nil {
		if errors.Is(err, file.ErrNoHeader) {
			p.logger.Error("CSV file has no headers", "path", sourcePath)
		} else {
			p.logReadError(err)
		}
		return p.stats
	}

	if err := rows.RequireHeaders(domain.RequiredFields); err != nil {
		var missing *file.MissingHeadersError
		if errors.As(err, &missing) {
			p.logger.Error("Missing required headers in CSV", "missing", missing.Missing)
		} else {
			p.logger.Error("Unexpected error processing file", "error", err)
		}
		return p.stats
	}

	p.logger.Info("CSV headers found", "headers", rows.Header())

	for {
		if ctx.Err() != nil {
			p.markInterrupted()
			return p.stats
		}

		row, rowNumber, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.logReadError(err)
			return p.stats
		}

		if !p.processRow(ctx, row, rowNumber) {
			continue
		}

		if p.cfg.RowDelay > 0 && !sleepWithContext(ctx, p.cfg.RowDelay) {
			p.markInterrupted()
			return p.stats
		}
	}

	return p.stats
}

// processRow classifies one record and reports whether it was submitted.
func (p *Processor) processRow(ctx context.Context, row domain.Row, rowNumber int) bool {
	p.stats.RecordProcessed()

	if row.IsBlank() {
		p.logger.Warn("Skipping empty row", "row", rowNumber)
		p.stats.RecordBlank()
		return false
	}

	result := domain.ValidateUserData(row)
	if !result.Valid {
		p.logger.Warn("Validation failed",
			"row", rowNumber,
			"errors", strings.Join(result.Errors, "; "),
			"row_data", map[string]string(row),
		)
		p.stats.RecordValidationFailure()
		return false
	}

	if p.submitter.CreateUser(ctx, row, rowNumber).Success {
		p.stats.RecordSuccess()
	} else {
		p.stats.RecordFailure()
	}
	return true
}

func (p *Processor) logReadError(err error) {
	var parseErr *csv.ParseError
	switch {
	case errors.As(err, &parseErr):
		p.logger.Error("CSV parsing error", "error", err)
	case errors.Is(err, file.ErrInvalidEncoding):
		p.logger.Error("File encoding error", "error", err)
	default:
		p.logger.Error("Unexpected error processing file", "error", err)
	}
}

func (p *Processor) markInterrupted() {
	p.interrupted = true
	p.logger.Warn("Processing interrupted", "processed", p.stats.TotalProcessed)
}

// Stats returns the counters of the last run.
func (p *Processor) Stats() domain.Stats {
	return p.stats
}

// Interrupted reports whether the last run stopped on context cancellation.
func (p *Processor) Interrupted() bool {
	return p.interrupted
}

// Close releases the submitter session. It is safe to call more than once.
func (p *Processor) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.submitter.Close()
	})
	return p.closeErr
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
