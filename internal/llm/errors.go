package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind classifies a model API failure for presentation purposes. The
// application never retries; the kind only changes the message shown.
type ErrorKind string

const (
	ErrKindAuth      ErrorKind = "auth"
	ErrKindRateLimit ErrorKind = "rate-limit"
	ErrKindNetwork   ErrorKind = "network"
	ErrKindProvider  ErrorKind = "provider"
)

// APIError wraps a failure returned by the hosted model API.
type APIError struct {
	Kind ErrorKind
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API error (%s): %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyError maps a provider failure onto an APIError. Providers do not
// expose typed errors, so classification is by message inspection.
func classifyError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &APIError{Kind: ErrKindNetwork, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &APIError{Kind: ErrKindNetwork, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return &APIError{Kind: ErrKindAuth, Err: err}
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "429"):
		return &APIError{Kind: ErrKindRateLimit, Err: err}
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout"):
		return &APIError{Kind: ErrKindNetwork, Err: err}
	default:
		return &APIError{Kind: ErrKindProvider, Err: err}
	}
}
