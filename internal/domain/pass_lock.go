package domain

import "context"

// PassLock serialises scheduling passes for a single user. Acquire blocks
// until the lock is held or ctx is done.
type PassLock interface {
	Acquire(ctx context.Context, userID string) (release func(), err error)
}
