package schedule

import "errors"

var (
	// ErrConfigNotFound contractor has no schedule configuration
	ErrConfigNotFound = errors.New("schedule.repository: schedule config not found")

	// ErrServiceNotFound service does not exist
	ErrServiceNotFound = errors.New("schedule.repository: service not found")

	// ErrServiceOwnership service id belongs to another contractor
	ErrServiceOwnership = errors.New("schedule.repository: service belongs to another contractor")

	ErrBuildQuery = errors.New("schedule.repository: failed to build query")
	ErrExecQuery  = errors.New("schedule.repository: failed to execute query")
	ErrScanRow    = errors.New("schedule.repository: failed to scan row")
	ErrEncoding   = errors.New("schedule.repository: failed to encode json column")
)
