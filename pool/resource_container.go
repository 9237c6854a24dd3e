// File: pool/resource_container.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ResourceContainer is the free/used list used by MemoryPool.

package pool

import (
	"unsafe"

	"github.com/momentics/hioload-rt/api"
)

// ResourceContainer holds DynamicMemory buffers in insertion order, with a
// slot index for O(1) removal by handle.
type ResourceContainer struct {
	resources []*DynamicMemory
	index     map[uint32]int
}

// NewResourceContainer reserves room for reserve buffers.
func NewResourceContainer(reserve int) *ResourceContainer {
	return &ResourceContainer{
		resources: make([]*DynamicMemory, 0, reserve),
		index:     make(map[uint32]int, reserve),
	}
}

// PushBack appends m.
func (c *ResourceContainer) PushBack(m *DynamicMemory) {
	c.index[m.slot] = len(c.resources)
	c.resources = append(c.resources, m)
}

// PopBack removes and returns the last buffer, nil when empty.
func (c *ResourceContainer) PopBack() *DynamicMemory {
	if len(c.resources) == 0 {
		return nil
	}
	return c.Pop(len(c.resources) - 1)
}

// Pop removes and returns the buffer at position i. The last buffer takes
// its place, so order is only preserved for PopBack.
func (c *ResourceContainer) Pop(i int) *DynamicMemory {
	last := len(c.resources) - 1
	m := c.resources[i]
	if i != last {
		moved := c.resources[last]
		c.resources[i] = moved
		c.index[moved.slot] = i
	}
	c.resources[last] = nil
	c.resources = c.resources[:last]
	delete(c.index, m.slot)
	return m
}

// FindAndPop removes the buffer whose address is p. A miss is an invalid
// free: p was never handed out or was already returned.
func (c *ResourceContainer) FindAndPop(p unsafe.Pointer) (*DynamicMemory, error) {
	for i, m := range c.resources {
		if m.Matches(p) {
			return c.Pop(i), nil
		}
	}
	return nil, api.ErrInvalidFree.With("addr", uintptr(p))
}

// PopHandle removes the buffer whose current loan is h. A handle from an
// earlier loan of the same buffer is an invalid free.
func (c *ResourceContainer) PopHandle(h Handle) (*DynamicMemory, error) {
	i, ok := c.index[h.Slot()]
	if !ok || c.resources[i].Handle() != h {
		return nil, api.ErrInvalidFree.With("handle", uint64(h))
	}
	return c.Pop(i), nil
}

// Contains reports whether a buffer with address p is held.
func (c *ResourceContainer) Contains(p unsafe.Pointer) bool {
	for _, m := range c.resources {
		if m.Matches(p) {
			return true
		}
	}
	return false
}

// Has reports whether the buffer in h's slot is held, whatever its loan.
func (c *ResourceContainer) Has(h Handle) bool {
	_, ok := c.index[h.Slot()]
	return ok
}

// Create appends a new buffer in slot reserving size bytes.
func (c *ResourceContainer) Create(slot uint32, size int) *DynamicMemory {
	m := newDynamicMemory(slot, size)
	c.PushBack(m)
	return m
}

// Len returns the number of held buffers.
func (c *ResourceContainer) Len() int { return len(c.resources) }

// Empty reports whether no buffers are held.
func (c *ResourceContainer) Empty() bool { return len(c.resources) == 0 }

// Each visits buffers in order until fn returns false.
func (c *ResourceContainer) Each(fn func(m *DynamicMemory) bool) {
	for _, m := range c.resources {
		if !fn(m) {
			return
		}
	}
}
