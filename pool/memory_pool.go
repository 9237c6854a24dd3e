// File: pool/memory_pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MemoryPool recycles fixed-size byte buffers instead of asking the general
// heap for every request. A buffer is always in exactly one of the free and
// used lists.
//
// MemoryPool is not synchronized. Use one pool per goroutine or wrap it in a
// LockedPool.

package pool

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
)

// Block is one allocation handed out by the pool.
type Block struct {
	Handle Handle
	Ptr    unsafe.Pointer
	Bytes  []byte
}

// MemoryPool serves Allocate/Deallocate from its free and used lists.
type MemoryPool struct {
	objectSize int
	free       *ResourceContainer
	used       *ResourceContainer
	lastSlot   uint32

	grown         int64
	allocations   int64
	deallocations int64
	invalidFrees  int64
	reserved      int64

	log       *zap.Logger
	onInvalid func(error)
}

// New creates a pool and pre-populates the free list.
func New(opts ...Option) (*MemoryPool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.objectSize < 0 || cfg.initialFree < 0 || cfg.reserved < 0 {
		return nil, api.ErrInvalidArgument.
			With("object_size", cfg.objectSize).
			With("initial_free", cfg.initialFree).
			With("reserved", cfg.reserved)
	}

	p := &MemoryPool{
		objectSize: cfg.objectSize,
		free:       NewResourceContainer(cfg.reserved),
		used:       NewResourceContainer(cfg.reserved),
		log:        cfg.logger,
		onInvalid:  cfg.onInvalid,
	}
	for i := 0; i < cfg.initialFree; i++ {
		p.addFree(p.objectSize)
	}
	p.log.Debug("memory pool created",
		zap.Int("object_size", cfg.objectSize),
		zap.Int("initial_free", cfg.initialFree),
		zap.Int("reserved", cfg.reserved))
	return p, nil
}

// Allocate lends out a buffer of at least size bytes.
func (p *MemoryPool) Allocate(size int) (Block, error) {
	return p.AllocateAligned(size, 1)
}

// AllocateAligned lends out a buffer of at least size bytes whose first byte
// is aligned to align, a power of two. When the free list is empty it grows
// by one buffer of max(size, object size).
func (p *MemoryPool) AllocateAligned(size, align int) (Block, error) {
	if size < 0 || !isPowerOfTwo(align) {
		return Block{}, api.ErrInvalidArgument.With("size", size).With("align", align)
	}
	if p.free.Empty() {
		p.addFree(max(size, p.objectSize))
		p.grown++
		p.log.Debug("memory pool grew",
			zap.Int("size", max(size, p.objectSize)),
			zap.Int("used", p.used.Len()))
	}

	m := p.free.PopBack()
	before := m.Cap()
	ptr := m.Allocate(size, align)
	p.reserved += int64(m.Cap() - before)
	p.used.PushBack(m)
	p.allocations++

	return Block{Handle: m.Handle(), Ptr: ptr, Bytes: m.Bytes()}, nil
}

// Deallocate returns the buffer whose address is ptr. The used list is
// scanned linearly; an unknown address fails with ErrInvalidFree.
func (p *MemoryPool) Deallocate(ptr unsafe.Pointer) error {
	err := p.deallocate(ptr)
	p.reportInvalid(err)
	return err
}

// Release returns the buffer lent out under h in O(1). An unknown handle, or
// one from a loan that was already released, fails with ErrInvalidFree.
func (p *MemoryPool) Release(h Handle) error {
	err := p.release(h)
	p.reportInvalid(err)
	return err
}

// deallocate and release only touch pool state; reportInvalid does the
// logging and hook call, so LockedPool can run it after unlocking.
func (p *MemoryPool) deallocate(ptr unsafe.Pointer) error {
	m, err := p.used.FindAndPop(ptr)
	if err != nil {
		p.invalidFrees++
		return err
	}
	p.free.PushBack(m)
	p.deallocations++
	return nil
}

func (p *MemoryPool) release(h Handle) error {
	m, err := p.used.PopHandle(h)
	if err != nil {
		p.invalidFrees++
		return err
	}
	p.free.PushBack(m)
	p.deallocations++
	return nil
}

// Owns reports whether ptr is currently lent out by this pool.
func (p *MemoryPool) Owns(ptr unsafe.Pointer) bool {
	return p.used.Contains(ptr)
}

// ObjectSize returns the nominal buffer size.
func (p *MemoryPool) ObjectSize() int { return p.objectSize }

// FreeLen returns the free list length.
func (p *MemoryPool) FreeLen() int { return p.free.Len() }

// UsedLen returns the used list length.
func (p *MemoryPool) UsedLen() int { return p.used.Len() }

// Stats reports list sizes and counters.
func (p *MemoryPool) Stats() api.PoolStats {
	return api.PoolStats{
		Free:          p.free.Len(),
		Used:          p.used.Len(),
		Grown:         p.grown,
		Allocations:   p.allocations,
		Deallocations: p.deallocations,
		InvalidFrees:  p.invalidFrees,
		ReservedBytes: p.reserved,
	}
}

func (p *MemoryPool) addFree(size int) {
	p.lastSlot++
	m := p.free.Create(p.lastSlot, size)
	p.reserved += int64(m.Cap())
}

func (p *MemoryPool) reportInvalid(err error) {
	if err == nil {
		return
	}
	p.log.Warn("invalid free", zap.Error(err))
	if p.onInvalid != nil {
		p.onInvalid(err)
	}
}
