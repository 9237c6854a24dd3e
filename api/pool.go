// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: memory resources backed by recycled buffers.

package api

import "unsafe"

// MemoryResource is the polymorphic-allocator extension point. Pool-backed
// containers are constructed by passing a MemoryResource instance.
type MemoryResource interface {
	// Allocate returns storage of at least bytes bytes aligned to alignment,
	// which must be a power of two.
	Allocate(bytes, alignment int) (unsafe.Pointer, error)

	// Deallocate returns storage obtained from Allocate. Unknown pointers
	// fail with ErrInvalidFree.
	Deallocate(ptr unsafe.Pointer, bytes, alignment int) error

	// IsEqual reports whether memory allocated from one resource can be
	// deallocated through the other.
	IsEqual(other MemoryResource) bool
}

// PoolStats aggregates allocation/reuse stats of a memory pool.
type PoolStats struct {
	Free          int
	Used          int
	Grown         int64
	Allocations   int64
	Deallocations int64
	InvalidFrees  int64
	ReservedBytes int64
}
