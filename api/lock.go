// Package api
// Author: momentics <momentics@gmail.com>
//
// Lockable capability shared by all spin primitives.

package api

// Lockable is the uniform capability consumed by scoped-acquisition guards.
// It is a superset of sync.Locker.
type Lockable interface {
	// Lock acquires, spinning until the lock is available.
	Lock()
	// TryLock performs one non-blocking acquisition attempt.
	TryLock() bool
	// Unlock releases the lock.
	Unlock()
}
