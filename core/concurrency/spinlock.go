// File: core/concurrency/spinlock.go
// Package concurrency implements spin primitives and the snapshot channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Primitive spinlocks for sections held for a few instructions only. Long
// critical sections under a spinlock burn CPU on every waiter.

package concurrency

import (
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/core/atomics"
)

// Ensure compile-time interface compliance.
var _ api.Lockable = (*PrimitiveSpinLock)(nil)

// AtomicFlag is a test-and-set flag.
type AtomicFlag struct {
	set atomics.Bool
}

// TestAndSet sets the flag and returns its previous state.
func (f *AtomicFlag) TestAndSet() bool { return f.set.Swap(true) }

// Test reports the current state.
func (f *AtomicFlag) Test() bool { return f.set.Load() }

// Clear resets the flag.
func (f *AtomicFlag) Clear() { f.set.Store(false) }

// PrimitiveSpinLock is a non-reentrant busy-wait lock. Locking it twice from
// the same goroutine via Lock deadlocks; use LockAs to have that reported as
// ErrLockMisuse instead.
type PrimitiveSpinLock struct {
	locked AtomicFlag
	holder atomics.Value[Owner]
}

// Lock spins until TryLock succeeds.
func (l *PrimitiveSpinLock) Lock() {
	var s spinner
	for !l.TryLock() {
		s.spin()
	}
}

// TryLock performs a single test-and-set.
func (l *PrimitiveSpinLock) TryLock() bool {
	return !l.locked.TestAndSet()
}

// Unlock releases the lock. It does not check the caller.
func (l *PrimitiveSpinLock) Unlock() {
	l.holder.Store(NoOwner)
	l.locked.Clear()
}

// IsLocked reports whether the lock is currently held.
func (l *PrimitiveSpinLock) IsLocked() bool {
	return l.locked.Test()
}

// LockAs acquires on behalf of o and records o as holder. A second LockAs by
// the same owner returns ErrLockMisuse rather than spinning forever.
func (l *PrimitiveSpinLock) LockAs(o Owner) error {
	if o == NoOwner {
		return api.ErrInvalidArgument.With("owner", o)
	}
	if l.holder.Load() == o {
		return api.ErrLockMisuse.With("owner", o).With("reason", "relock of non-reentrant lock")
	}
	l.Lock()
	l.holder.Store(o)
	return nil
}

// UnlockAs releases a lock taken with LockAs. Releasing on behalf of a
// goroutine that does not hold it returns ErrLockMisuse and leaves the lock
// untouched.
func (l *PrimitiveSpinLock) UnlockAs(o Owner) error {
	if h := l.holder.Load(); h != o || o == NoOwner {
		return api.ErrLockMisuse.With("owner", o).With("holder", h)
	}
	l.Unlock()
	return nil
}
