// internal/pkg/apperr/errors.go
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error into the platform taxonomy.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInsufficientStock
	KindInvalidRelease
	KindServiceUnavailable
	KindValidation
	KindOverloaded
	KindConflict
)

func (k Kind) String() string {
	return Code(k)
}

// Error is a typed failure. Fields carries per-field validation messages.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a typed error with a stack trace attached.
func New(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg})
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// Wrap classifies err under kind. The original error stays reachable through Unwrap.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Msg: msg, Err: err})
}

// Validation builds a KindValidation error carrying field messages.
func Validation(msg string, fields map[string]string) error {
	return errors.WithStack(&Error{Kind: KindValidation, Msg: msg, Fields: fields})
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// FieldsOf returns the validation fields of err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message returns the human readable message of the typed error in err's chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

// HTTPStatus maps a kind to its external status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindInvalidRelease, KindConflict:
		return http.StatusConflict
	case KindOverloaded:
		return http.StatusTooManyRequests
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code maps a kind to its stable error code.
func Code(kind Kind) string {
	switch kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindInvalidRelease:
		return "INVALID_RELEASE"
	case KindConflict:
		return "CONFLICT"
	case KindOverloaded:
		return "OVERLOADED"
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// KindFromCode is the inverse of Code.
func KindFromCode(code string) (Kind, bool) {
	for k := KindInternal; k <= KindConflict; k++ {
		if Code(k) == code {
			return k, true
		}
	}
	return KindInternal, false
}

// KindFromStatus classifies a downstream HTTP status code.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusTooManyRequests:
		return KindOverloaded
	case status >= 500:
		return KindServiceUnavailable
	default:
		return KindInternal
	}
}
