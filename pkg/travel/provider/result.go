package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"trip-assistant-be/pkg/travel"
)

// Status is the typed outcome of one adapter call
type Status string

const (
	StatusOK              Status = "ok"
	StatusProviderError   Status = "provider_error"
	StatusTimeout         Status = "timeout"
	StatusNoData          Status = "no_data"
	StatusValidationError Status = "validation_error"
)

// Result is what an adapter hands back to the fallback runner. Payload is
// non-empty exactly when Status is StatusOK; use OK and Failed to build one.
type Result struct {
	Status     Status `json:"status"`
	Payload    string `json:"payload,omitempty"`
	ProviderID string `json:"provider_id"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	Reason     string `json:"reason,omitempty"`
}

// OK wraps a successful payload. An empty payload is reported as no_data.
func OK(providerID, payload string, elapsed time.Duration) Result {
	if strings.TrimSpace(payload) == "" {
		return Failed(providerID, StatusNoData, "provider returned no results", elapsed)
	}
	return Result{
		Status:     StatusOK,
		Payload:    payload,
		ProviderID: providerID,
		ElapsedMS:  elapsed.Milliseconds(),
	}
}

// Failed builds a non-ok result. Passing StatusOK is treated as a provider error.
func Failed(providerID string, status Status, reason string, elapsed time.Duration) Result {
	if status == StatusOK || status == "" {
		status = StatusProviderError
	}
	return Result{
		Status:     status,
		ProviderID: providerID,
		ElapsedMS:  elapsed.Milliseconds(),
		Reason:     reason,
	}
}

// FromError classifies err into a failed Result
func FromError(providerID string, err error, elapsed time.Duration) Result {
	switch {
	case errors.Is(err, travel.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Failed(providerID, StatusTimeout, err.Error(), elapsed)
	case errors.Is(err, travel.ErrValidation), errors.Is(err, travel.ErrParseFailure):
		return Failed(providerID, StatusValidationError, err.Error(), elapsed)
	default:
		return Failed(providerID, StatusProviderError, err.Error(), elapsed)
	}
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Err maps a failed result back onto the package sentinel errors
func (r Result) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusTimeout:
		return travel.ErrTimeout
	case StatusValidationError:
		return travel.ErrValidation
	default:
		return travel.ErrProvider
	}
}
