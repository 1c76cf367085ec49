// Package svcerr holds the sentinel errors shared by the service layer.
// Handlers map them to HTTP statuses with errors.Is.
package svcerr

import (
	"errors"

	"github.com/petnest/petnest/internal/domain/rules"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrNotPending        = rules.ErrNotPending
	ErrInvalidDecision   = rules.ErrDecisionNotAllowed
	ErrReasonRequired    = rules.ErrReasonRequired
	ErrSellerNotVerified = errors.New("seller is not verified")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInUse             = errors.New("still in use")
	ErrRateLimited       = errors.New("rate limited")
	ErrUnavailable       = errors.New("dependency is not configured")
)

// RateLimitError carries the retry hint for ErrRateLimited.
type RateLimitError struct {
	RetryAfterSec int64
}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
