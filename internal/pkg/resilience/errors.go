package resilience

import (
	"context"

	"autohub/internal/pkg/apperr"

	"github.com/pkg/errors"
)

var (
	// ErrOverloaded is returned when the bulkhead has no free permit.
	ErrOverloaded = &apperr.Error{Kind: apperr.KindOverloaded, Msg: "too many concurrent calls"}
	// ErrCircuitOpen is returned while the breaker short-circuits calls.
	ErrCircuitOpen = &apperr.Error{Kind: apperr.KindServiceUnavailable, Msg: "circuit breaker is open"}
)

// IsBusinessError reports whether err is a regular domain answer from the
// downstream rather than a fault of the call itself.
func IsBusinessError(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound, apperr.KindInsufficientStock, apperr.KindInvalidRelease,
		apperr.KindValidation, apperr.KindConflict:
		return true
	}
	return false
}

// DefaultIsFailure counts every non-business error as a failure.
func DefaultIsFailure(err error) bool {
	return err != nil && !IsBusinessError(err)
}

// DefaultIsRetryable retries failures that a second attempt could fix.
func DefaultIsRetryable(err error) bool {
	if !DefaultIsFailure(err) {
		return false
	}
	if errors.Is(err, ErrOverloaded) || errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func classify(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(err, apperr.KindServiceUnavailable, name+": call timed out")
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperr.Wrap(err, apperr.KindServiceUnavailable, name+": downstream call failed")
}
