// Package userlock serializes work for a single user across goroutines and,
// with the redis implementation, across processes.
package userlock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Locker interface {
	// Lock blocks until the caller holds the lock for userID or ctx is done.
	// The returned unlock func is idempotent.
	Lock(ctx context.Context, userID uuid.UUID) (func(), error)
}

type entry struct {
	ch   chan struct{}
	refs int
}

type localLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

// NewLocal returns an in-process keyed mutex. Entries are dropped once no
// goroutine holds or waits on them.
func NewLocal() Locker {
	return &localLocker{locks: map[uuid.UUID]*entry{}}
}

func (l *localLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(userID, e)
		})
	}, nil
}

func (l *localLocker) release(userID uuid.UUID, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, userID)
	}
}
