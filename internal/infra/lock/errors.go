package lock

import "errors"

var (
	// ErrLockTimeout lock was not acquired before the context was done
	ErrLockTimeout = errors.New("lock: timed out waiting for contractor lock")

	// ErrLockBackend lock storage is unavailable
	ErrLockBackend = errors.New("lock: backend error")
)
