package domain

import "errors"

// Error kinds. Every usecase error wraps exactly one of them.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrPolicyViolation = errors.New("policy violation")
	ErrSync            = errors.New("sync error")
)

const (
	KindValidation      = "VALIDATION_ERROR"
	KindNotFound        = "NOT_FOUND"
	KindConflict        = "CONFLICT"
	KindPolicyViolation = "POLICY_VIOLATION"
	KindSync            = "SYNC_ERROR"
	KindInternal        = "INTERNAL_ERROR"
)

var (
	// ErrInvalidTransition status change not allowed by the state machine
	ErrInvalidTransition = errorf(ErrValidation, "invalid status transition")

	// ErrCancellationNotAllowed cancellation disabled by the contractor's policy
	ErrCancellationNotAllowed = errorf(ErrPolicyViolation, "cancellation is not allowed")
)

// KindOf returns the kind name of err, KindInternal if it wraps none
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrPolicyViolation):
		return KindPolicyViolation
	case errors.Is(err, ErrSync):
		return KindSync
	default:
		return KindInternal
	}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func errorf(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
