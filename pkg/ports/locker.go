package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held lock. Implementations must be safe to call once.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes session access across processes. A single
// process serving a single rep does not need one; a fleet sharing a redis
// store does.
type DistributedLocker interface {
	// Lock acquires the lock for the key, expiring after ttl as a liveness
	// backstop. Returns the release function, or an error if the lock is held.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
