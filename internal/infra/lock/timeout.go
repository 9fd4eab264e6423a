package lock

import (
	"context"
	"time"
)

// Locker per-contractor lock
type Locker interface {
	Lock(ctx context.Context, contractorID int64) (func(), error)
}

// TimeoutLocker bounds how long a request waits for the contractor lock
type TimeoutLocker struct {
	inner   Locker
	timeout time.Duration
}

// WithTimeout timeout <= 0 leaves only the caller's deadline
func WithTimeout(inner Locker, timeout time.Duration) *TimeoutLocker {
	return &TimeoutLocker{inner: inner, timeout: timeout}
}

func (l *TimeoutLocker) Lock(ctx context.Context, contractorID int64) (func(), error) {
	if l.timeout <= 0 {
		return l.inner.Lock(ctx, contractorID)
	}

	// ожидание ограничено, удержание нет
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.inner.Lock(waitCtx, contractorID)
}
