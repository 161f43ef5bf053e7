package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type memoryPassLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMemoryPassLock returns a process-local per-user lock.
func NewMemoryPassLock() domain.PassLock {
	return &memoryPassLock{
		slots: make(map[string]chan struct{}),
	}
}

func (l *memoryPassLock) slot(userID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[userID] = ch
	}
	return ch
}

func (l *memoryPassLock) Acquire(ctx context.Context, userID string) (func(), error) {
	ch := l.slot(userID)

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
