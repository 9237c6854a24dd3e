// File: pool/locked_pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/core/concurrency"
)

// Ensure compile-time interface compliance.
var _ api.MemoryResource = (*LockedPool)(nil)

// LockedPool serializes a MemoryPool behind a spinlock so several goroutines
// can share it. Critical sections are a few slice operations, short enough
// for spinning.
type LockedPool struct {
	mu   concurrency.PrimitiveSpinLock
	pool *MemoryPool
}

// NewLocked creates a pool shared under a spinlock.
func NewLocked(opts ...Option) (*LockedPool, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &LockedPool{pool: p}, nil
}

// AllocateBlock lends out a buffer of at least size bytes.
func (l *LockedPool) AllocateBlock(size int) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Allocate(size)
}

// Allocate implements api.MemoryResource.
func (l *LockedPool) Allocate(bytes, alignment int) (unsafe.Pointer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, err := l.pool.AllocateAligned(bytes, alignment)
	if err != nil {
		return nil, err
	}
	return b.Ptr, nil
}

// Deallocate implements api.MemoryResource. Invalid frees are logged and
// passed to the hook after the lock is released.
func (l *LockedPool) Deallocate(ptr unsafe.Pointer, _, _ int) error {
	l.mu.Lock()
	err := l.pool.deallocate(ptr)
	l.mu.Unlock()
	l.pool.reportInvalid(err)
	return err
}

// Release returns a buffer by handle, reporting invalid frees like Deallocate.
func (l *LockedPool) Release(h Handle) error {
	l.mu.Lock()
	err := l.pool.release(h)
	l.mu.Unlock()
	l.pool.reportInvalid(err)
	return err
}

// IsEqual reports whether other is this LockedPool.
func (l *LockedPool) IsEqual(other api.MemoryResource) bool {
	o, ok := other.(*LockedPool)
	return ok && o == l
}

// Stats returns a consistent snapshot of pool counters.
func (l *LockedPool) Stats() api.PoolStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Stats()
}
