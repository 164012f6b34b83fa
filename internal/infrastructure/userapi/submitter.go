package userapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/bassosimone/errclass"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

const (
	maxErrorBodyChars = 200
	maxResponseBytes  = 1 << 20
)

// Poster sends a JSON body and returns the final response after any retries.
type Poster interface {
	PostJSON(ctx context.Context, url string, body []byte) (*http.Response, error)
}

type SubmitterConfig struct {
	Endpoint string
	// DryRun logs the request that would be sent and reports success
	// without touching the network.
	DryRun bool
}

// Submitter creates one remote user per row. It never returns an error: every
// failure is logged and folded into the returned Outcome.
type Submitter struct {
	poster Poster
	cfg    SubmitterConfig
	logger *slog.Logger
}

func NewSubmitter(poster Poster, cfg SubmitterConfig, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{poster: poster, cfg: cfg, logger: logger}
}

func (s *Submitter) CreateUser(ctx context.Context, row domain.Row, rowNumber int) (out domain.Outcome) {
	email := row.Field(domain.FieldEmail)

	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("unexpected error: %v", r)
			s.logger.Error("Unexpected error creating user", "email", email, "row", rowNumber, "error", fmt.Sprint(r))
			out = domain.Outcome{Success: false, Reason: reason}
		}
	}()

	payload, err := json.Marshal(row.Cleaned())
	if err != nil {
		s.logger.Error("Unexpected error creating user", "email", email, "row", rowNumber, "error", err)
		return domain.Outcome{Reason: fmt.Sprintf("encode payload: %v", err)}
	}

	if s.cfg.DryRun {
		s.logger.Info("Dry run, request not sent", "email", email, "row", rowNumber, "endpoint", s.cfg.Endpoint, "payload", string(payload))
		return domain.Outcome{Success: true, Reason: "dry run"}
	}

	resp, err := s.poster.PostJSON(ctx, s.cfg.Endpoint, payload)
	if err != nil {
		return s.transportFailure(err, email, rowNumber)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		s.logger.Info("User created successfully", "email", email, "row", rowNumber)
		return domain.Outcome{Success: true, Reason: http.StatusText(resp.StatusCode)}
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		s.logger.Warn("could not read error response body", "row", rowNumber, "error", readErr)
	}
	reason := fmt.Sprintf("API returned status %d - %s", resp.StatusCode, errorDetail(body))
	s.logger.Error("Failed to create user", "email", email, "row", rowNumber, "status", resp.StatusCode, "detail", reason)
	return domain.Outcome{Reason: reason}
}

// Close releases the underlying poster when it holds resources.
func (s *Submitter) Close() error {
	if closer, ok := s.poster.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Submitter) transportFailure(err error, email string, rowNumber int) domain.Outcome {
	class := errclass.New(err)

	switch {
	case isTimeout(err):
		s.logger.Error("Timeout creating user", "email", email, "row", rowNumber, "errClass", class)
		return domain.Outcome{Reason: "timeout"}
	case isConnectionError(err):
		s.logger.Error("Connection error creating user", "email", email, "row", rowNumber, "errClass", class, "error", err)
		return domain.Outcome{Reason: "connection error"}
	default:
		s.logger.Error("Request failed for user", "email", email, "row", rowNumber, "errClass", class, "error", err)
		return domain.Outcome{Reason: fmt.Sprintf("request failed: %v", err)}
	}
}

// errorDetail reports the top-level "message" field of a JSON object body.
// Non-JSON bodies fall back to their first characters.
func errorDetail(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil || decoded == nil {
		return "Response: " + truncateChars(string(body), maxErrorBodyChars)
	}
	if msg, ok := decoded["message"]; ok {
		return fmt.Sprint(msg)
	}
	return "No error details provided"
}

func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}
