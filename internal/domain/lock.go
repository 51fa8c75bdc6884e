package domain

import "context"

// PassLock guards against two reconcile passes running at the same time,
// possibly in different processes.
type PassLock interface {
	// TryAcquire returns ErrLockNotAcquired when another holder owns the lock.
	TryAcquire(ctx context.Context) (release func(context.Context) error, err error)
}
