// Package apierrors classifies request failures so the mutation dispatcher
// can decide between retrying and failing fast.
package apierrors

import (
	"context"
	"errors"
	"fmt"
)

// Category determines how a failure is handled by retry logic.
type Category int

const (
	// Recoverable failures are retried with exponential backoff:
	// 5xx responses, 408/429 and transport-level errors.
	Recoverable Category = iota

	// Irrecoverable failures fail immediately: the remaining 4xx responses.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	case Irrecoverable:
		return "irrecoverable"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Error wraps a request failure with its category and, for HTTP failures,
// the status code and response body.
type Error struct {
	Category   Category
	StatusCode int    // 0 for transport-level failures
	Body       string // response body, for diagnostics
	Underlying error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *Error) Unwrap() error { return e.Underlying }

// FromStatus builds a classified error for a non-2xx response.
func FromStatus(op string, status int, body string) *Error {
	return &Error{
		Category:   categoryForStatus(status),
		StatusCode: status,
		Body:       body,
		Underlying: fmt.Errorf("%s: status %d", op, status),
	}
}

// FromTransport builds a classified error for a network-level failure.
// Transport errors are always recoverable; they may be transient.
func FromTransport(op string, err error) *Error {
	return &Error{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s: %w", op, err),
	}
}

func categoryForStatus(status int) Category {
	switch {
	case status >= 400 && status < 500:
		switch status {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	default:
		// 5xx and anything unexpected: be conservative and retry.
		return Recoverable
	}
}

// IsIrrecoverable reports whether err should not be retried. Caller
// cancellation is treated as irrecoverable so a dead context never loops.
func IsIrrecoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category == Irrecoverable
	}
	return false
}

// StatusOf extracts the HTTP status from a classified error chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
