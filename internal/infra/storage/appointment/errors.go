package appointment

import "errors"

var (
	// ErrAppointmentNotFound appointment with the given id does not exist
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap the exclusion constraint rejected the blocked range
	ErrOverlap = errors.New("appointment.repository: overlapping appointment")

	// ErrStaleStatus status changed since the appointment was read
	ErrStaleStatus = errors.New("appointment.repository: status changed concurrently")

	ErrBuildQuery = errors.New("appointment.repository: failed to build query")
	ErrExecQuery  = errors.New("appointment.repository: failed to execute query")
	ErrScanRow    = errors.New("appointment.repository: failed to scan row")
)
