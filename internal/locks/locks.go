// Package locks serializes mutations to one logical rank sequence. Every
// ordering mutation (create, reorder, delete) must hold the lock for each
// sequence it touches so two writers cannot commit shift sets computed from
// stale snapshots.
package locks

import (
	"context"
	"errors"
	"sort"
)

var ErrLockNotAcquired = errors.New("sequence lock not acquired")

// Unlock releases a held lock. Safe to call exactly once.
type Unlock func()

// SequenceLocker provides mutual exclusion per (collection, app) pair.
type SequenceLocker interface {
	Lock(ctx context.Context, collection, app string) (Unlock, error)
}

// LockAll acquires the locks for every given app in sorted order, so two
// multi-sequence operations can never deadlock against each other. On error
// the already-acquired locks are released.
func LockAll(ctx context.Context, locker SequenceLocker, collection string, apps []string) (Unlock, error) {
	sorted := make([]string, len(apps))
	copy(sorted, apps)
	sort.Strings(sorted)

	unlocks := make([]Unlock, 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, app := range sorted {
		unlock, err := locker.Lock(ctx, collection, app)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
