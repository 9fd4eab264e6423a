// Package lock serializes booking commits per contractor.
package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker in-process per-contractor mutex. Enough for a single instance,
// several instances need RedisLocker.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[int64]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[int64]*entry)}
}

// Lock blocks until the contractor is free or ctx is done
func (l *LocalLocker) Lock(ctx context.Context, contractorID int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[contractorID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[contractorID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(contractorID, e)
		return nil, fmt.Errorf("%w: contractor=%d: %v", ErrLockTimeout, contractorID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(contractorID, e)
		})
	}, nil
}

func (l *LocalLocker) release(contractorID int64, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, contractorID)
	}
}
