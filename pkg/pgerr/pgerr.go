// Package pgerr classifies PostgreSQL errors returned through lib/pq.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsExclusionViolation(err error) bool {
	return code(err) == codeExclusionViolation
}

// IsSerializationFailure true for errors after which the transaction may be retried
func IsSerializationFailure(err error) bool {
	c := code(err)
	return c == codeSerializationFailure || c == codeDeadlockDetected
}
