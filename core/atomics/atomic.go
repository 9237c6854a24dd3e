// File: core/atomics/atomic.go
// Package atomics wraps sync/atomic behind a lock-free-only constraint.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Value[T] accepts only types with native word-sized atomic instructions.
// Anything else fails to compile, so no wrapper can silently fall back to a
// hidden lock.

package atomics

import "sync/atomic"

// LockFree is the set of types whose atomic operations never take a lock.
type LockFree interface {
	~int | ~uint | ~int32 | ~uint32 | ~int64 | ~uint64 | ~uintptr
}

// Value is an atomic T stored in one 64-bit word. The zero value holds T(0).
type Value[T LockFree] struct {
	_ noCopy
	v atomic.Uint64
}

// NewValue returns a Value initialised to v.
func NewValue[T LockFree](v T) *Value[T] {
	a := &Value[T]{}
	a.Store(v)
	return a
}

// Load atomically loads the value.
func (a *Value[T]) Load() T { return T(a.v.Load()) }

// Store atomically stores v.
func (a *Value[T]) Store(v T) { a.v.Store(uint64(v)) }

// Swap stores v and returns the previous value.
func (a *Value[T]) Swap(v T) T { return T(a.v.Swap(uint64(v))) }

// CompareAndSwap executes the compare-and-swap for the value.
func (a *Value[T]) CompareAndSwap(old, new T) bool {
	return a.v.CompareAndSwap(uint64(old), uint64(new))
}

// Add adds delta and returns the new value. Signed deltas wrap as in two's
// complement, so negative values decrement.
func (a *Value[T]) Add(delta T) T {
	for {
		old := a.v.Load()
		next := uint64(T(old) + delta)
		if a.v.CompareAndSwap(old, next) {
			return T(next)
		}
	}
}

// Clone returns an independent Value holding a snapshot of a.
func (a *Value[T]) Clone() *Value[T] {
	return NewValue(a.Load())
}

// Bool is an atomic boolean.
type Bool = atomic.Bool

// noCopy trips `go vet` copylocks when a Value is copied by value; use Clone.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
