// File: pool/resource.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"github.com/momentics/hioload-rt/api"
)

// Ensure compile-time interface compliance.
var _ api.MemoryResource = (*Resource)(nil)

// Resource exposes a MemoryPool as an api.MemoryResource so pool-backed
// containers can be constructed against the generic interface.
type Resource struct {
	pool *MemoryPool
}

// NewResource wraps p.
func NewResource(p *MemoryPool) *Resource {
	return &Resource{pool: p}
}

// Pool returns the underlying pool.
func (r *Resource) Pool() *MemoryPool { return r.pool }

// Allocate implements api.MemoryResource.
func (r *Resource) Allocate(bytes, alignment int) (unsafe.Pointer, error) {
	b, err := r.pool.AllocateAligned(bytes, alignment)
	if err != nil {
		return nil, err
	}
	return b.Ptr, nil
}

// Deallocate implements api.MemoryResource. Size and alignment are not
// needed to find the buffer.
func (r *Resource) Deallocate(ptr unsafe.Pointer, _, _ int) error {
	return r.pool.Deallocate(ptr)
}

// IsEqual reports whether other is backed by the same pool.
func (r *Resource) IsEqual(other api.MemoryResource) bool {
	o, ok := other.(*Resource)
	return ok && o.pool == r.pool
}
