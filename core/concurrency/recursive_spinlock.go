// File: core/concurrency/recursive_spinlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reentrant spinlock keyed by Owner tokens.

package concurrency

import (
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/core/atomics"
)

// RecursiveSpinLock may be acquired repeatedly by its current owner. It stays
// held until every Lock has been matched by an Unlock.
type RecursiveSpinLock struct {
	owner atomics.Value[Owner]
	// holders is only touched by the current owner.
	holders int
}

// Lock acquires for o, spinning while another owner holds the lock.
// Passing NoOwner panics.
func (l *RecursiveSpinLock) Lock(o Owner) {
	if o == NoOwner {
		panic(api.ErrInvalidArgument.With("owner", o))
	}
	if l.owner.Load() != o {
		var s spinner
		for !l.owner.CompareAndSwap(NoOwner, o) {
			s.spin()
		}
	}
	l.holders++
}

// TryLock makes one non-blocking attempt. A successful TryLock counts as a
// hold and must be matched by Unlock.
func (l *RecursiveSpinLock) TryLock(o Owner) bool {
	if o == NoOwner {
		return false
	}
	if l.owner.Load() != o && !l.owner.CompareAndSwap(NoOwner, o) {
		return false
	}
	l.holders++
	return true
}

// Unlock drops one hold. The lock is released when the count reaches zero.
// Unlocking on behalf of a non-owner returns ErrLockMisuse.
func (l *RecursiveSpinLock) Unlock(o Owner) error {
	if cur := l.owner.Load(); cur != o || o == NoOwner {
		return api.ErrLockMisuse.With("owner", o).With("holder", cur)
	}
	l.holders--
	if l.holders == 0 {
		l.owner.Store(NoOwner)
	}
	return nil
}

// IsLocked reports whether any owner holds the lock.
func (l *RecursiveSpinLock) IsLocked() bool {
	return l.owner.Load() != NoOwner
}

// Holders returns the nesting depth. Only meaningful to the owner.
func (l *RecursiveSpinLock) Holders() int {
	return l.holders
}

// For binds the lock to o, yielding an api.Lockable usable with Acquire and
// WithLock. Misuse through the adapter panics with *api.Error.
func (l *RecursiveSpinLock) For(o Owner) api.Lockable {
	return ownedLock{l: l, o: o}
}

type ownedLock struct {
	l *RecursiveSpinLock
	o Owner
}

func (h ownedLock) Lock()         { h.l.Lock(h.o) }
func (h ownedLock) TryLock() bool { return h.l.TryLock(h.o) }
func (h ownedLock) Unlock() {
	if err := h.l.Unlock(h.o); err != nil {
		panic(err)
	}
}
