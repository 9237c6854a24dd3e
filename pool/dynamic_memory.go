// File: pool/dynamic_memory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// DynamicMemory owns one contiguous byte buffer recycled by MemoryPool.

package pool

import "unsafe"

// Handle identifies one loan of a buffer for O(1) release: the buffer's slot
// in the high 32 bits, the loan's generation in the low 32 bits. A buffer
// lent out again gets a new generation, so a stale handle never matches the
// current loan. Zero is never issued.
type Handle uint64

func makeHandle(slot, gen uint32) Handle { return Handle(slot)<<32 | Handle(gen) }

// Slot returns the buffer slot encoded in h.
func (h Handle) Slot() uint32 { return uint32(h >> 32) }

// Generation returns the loan generation encoded in h.
func (h Handle) Generation() uint32 { return uint32(h) }

// DynamicMemory is a single resizable buffer. Its identity is the address
// returned by the last Allocate.
type DynamicMemory struct {
	slot   uint32
	gen    uint32
	data   []byte
	offset int
	size   int
}

func newDynamicMemory(slot uint32, reserve int) *DynamicMemory {
	return &DynamicMemory{
		slot: slot,
		data: make([]byte, 0, max(reserve, 1)),
	}
}

// Allocate resizes the buffer to hold size bytes starting at an address
// aligned to align and returns that address. Capacity is reused when large
// enough; otherwise the buffer is reallocated and the address changes.
// Each call starts a new loan generation.
func (m *DynamicMemory) Allocate(size, align int) unsafe.Pointer {
	extra := 0
	if align > 1 {
		extra = align - 1
	}
	// Keep at least one byte past the aligned start so the returned pointer
	// never points one past the allocation.
	need := max(size+extra, extra+1)
	if cap(m.data) < need {
		m.data = make([]byte, need)
	} else {
		m.data = m.data[:need]
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(m.data)))
	m.offset = int(alignUp(base, uintptr(max(align, 1))) - base)
	m.size = size
	m.gen++
	if m.gen == 0 {
		m.gen = 1
	}
	return m.Addr()
}

// Addr returns the address handed out by the last Allocate.
func (m *DynamicMemory) Addr() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(m.data)), m.offset)
}

// Bytes returns the allocated region.
func (m *DynamicMemory) Bytes() []byte {
	return m.data[m.offset : m.offset+m.size : m.offset+m.size]
}

// Size returns the size requested by the last Allocate.
func (m *DynamicMemory) Size() int { return m.size }

// Cap returns the reserved capacity in bytes.
func (m *DynamicMemory) Cap() int { return cap(m.data) }

// Handle returns the handle of the current loan. Every Allocate issues a
// new one.
func (m *DynamicMemory) Handle() Handle { return makeHandle(m.slot, m.gen) }

// Slot returns the buffer's stable slot number.
func (m *DynamicMemory) Slot() uint32 { return m.slot }

// Matches reports whether p is the address this buffer handed out.
func (m *DynamicMemory) Matches(p unsafe.Pointer) bool {
	return p != nil && p == m.Addr()
}

func alignUp(p, align uintptr) uintptr {
	return (p + align - 1) &^ (align - 1)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
