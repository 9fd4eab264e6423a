package syncstate

import "errors"

var (
	// ErrRecordNotFound no row with the given key
	ErrRecordNotFound = errors.New("syncstate.repository: record not found")

	ErrBuildQuery = errors.New("syncstate.repository: failed to build query")
	ErrExecQuery  = errors.New("syncstate.repository: failed to execute query")
)
