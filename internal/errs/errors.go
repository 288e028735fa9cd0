// Package errs defines the error taxonomy shared by every outward-facing
// component: network fetches, backend generation calls, submission, and the
// application tracker.
package errs

import (
	"errors"
	"fmt"
)

// NetworkError indicates a transient connectivity failure (timeouts, refused
// connections, DNS). Eligible for retry.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// APIError indicates a backend service rejected a request: auth failure,
// quota, malformed response. Retryable only when Transient is set (rate
// limits, 5xx responses).
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Transient  bool
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ConfigurationError indicates missing or invalid credentials/settings.
// Never retried; the affected component degrades instead of aborting.
type ConfigurationError struct {
	Component string
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

// StateViolationError indicates a tracker status transition was requested out
// of order. A programming-contract violation isolated to one job.
type StateViolationError struct {
	JobID string
	From  string
	To    string
}

func (e *StateViolationError) Error() string {
	return fmt.Sprintf("invalid status transition for job %s: %s -> %s", e.JobID, e.From, e.To)
}

// NotFoundError indicates an operation referenced an unknown job_id.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application not found for job %s", e.JobID)
}

// IsRetryable reports whether err is eligible for retry with backoff:
// network errors and transient API errors. Configuration and contract
// violations are never retryable.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient
	}
	return false
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStateViolation reports whether err wraps a StateViolationError.
func IsStateViolation(err error) bool {
	var sv *StateViolationError
	return errors.As(err, &sv)
}
