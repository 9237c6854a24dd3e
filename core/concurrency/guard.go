// File: core/concurrency/guard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scoped acquisition over any api.Lockable.

package concurrency

import "github.com/momentics/hioload-rt/api"

// Guard holds a lock from Acquire until Release.
//
//	g := concurrency.Acquire(&lock)
//	defer g.Release()
type Guard struct {
	l    api.Lockable
	held bool
}

// Acquire locks l and returns a guard owning the hold.
func Acquire(l api.Lockable) Guard {
	l.Lock()
	return Guard{l: l, held: true}
}

// Release unlocks once; later calls are no-ops.
func (g *Guard) Release() {
	if !g.held {
		return
	}
	g.held = false
	g.l.Unlock()
}

// Held reports whether the guard still owns the lock.
func (g *Guard) Held() bool { return g.held }

// WithLock runs fn under l and releases on every exit path, panics included.
func WithLock(l api.Lockable, fn func()) {
	g := Acquire(l)
	defer g.Release()
	fn()
}
