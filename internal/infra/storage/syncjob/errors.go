package syncjob

import "errors"

var (
	// ErrLeaseLost the job is no longer held by this claim
	ErrLeaseLost = errors.New("syncjob.repository: job lease lost")

	ErrBuildQuery = errors.New("syncjob.repository: failed to build query")
	ErrExecQuery  = errors.New("syncjob.repository: failed to execute query")
	ErrScanRow    = errors.New("syncjob.repository: failed to scan row")
)
