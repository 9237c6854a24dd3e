// File: core/concurrency/fifo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fifo is a wait-free "publish latest" channel for sharing large values
// between one control writer and one real-time reader. The reader always gets
// the newest published value and silently skips the ones it missed, which
// suits "control edits a big config, real-time side wants the newest" and is
// wrong for message passing where every update must be delivered.
//
// The latest published slot and the reader's claimed slot live in one atomic
// word. The writer only ever writes into a slot that is neither claimed nor
// published, so a claimed slot is never touched until the next Pull moves the
// claim, and a Pull can never observe a half-written value.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-rt/api"
)

// Ensure compile-time interface compliance.
var _ api.Channel[any] = (*Fifo[any])(nil)

const (
	// DefaultSlots is the slot count used when FifoConfig.Slots is zero.
	DefaultSlots = 5
	// MinSlots is the smallest usable slot count: one claimed by the reader,
	// one published, one being written.
	MinSlots = 3

	noClaim = -1
)

// FifoConfig parameterises a Fifo.
type FifoConfig[T any] struct {
	// Slots is the fixed slot count. Zero selects DefaultSlots.
	Slots int
	// Copy, when set, replaces plain assignment for Push and Fill. Use it to
	// deep-copy reference fields into the slot's existing storage so pushes
	// do not allocate and slots do not alias the writer's data.
	Copy func(dst, src *T)
}

// Fifo is a fixed-capacity ring of value slots with a single writer and a
// single reader.
type Fifo[T any] struct {
	// state packs latest<<32 | (claim+1).
	state atomic.Uint64
	_     cpu.CacheLinePad

	// writePos is the slot the writer fills next. Written by the writer only;
	// atomic so diagnostics may read it from any goroutine.
	writePos atomic.Int32
	pushes   atomic.Uint64
	_        cpu.CacheLinePad

	pulls atomic.Uint64
	_     cpu.CacheLinePad

	slots  []T
	copier func(dst, src *T)
}

// NewFifo allocates a Fifo. Slots below MinSlots fail with ErrInvalidArgument.
func NewFifo[T any](cfg FifoConfig[T]) (*Fifo[T], error) {
	n := cfg.Slots
	if n == 0 {
		n = DefaultSlots
	}
	if n < MinSlots || n > 1<<16 {
		return nil, api.ErrInvalidArgument.With("slots", n)
	}
	f := &Fifo[T]{
		slots:  make([]T, n),
		copier: cfg.Copy,
	}
	// Before the first push a Pull yields the last slot, like reading one
	// position behind writePos 0.
	f.state.Store(pack(n-1, noClaim))
	return f, nil
}

// Push publishes a copy of value.
func (f *Fifo[T]) Push(value T) {
	f.PushFrom(&value)
}

// PushFrom publishes a copy of *src without an intermediate copy.
func (f *Fifo[T]) PushFrom(src *T) {
	w := int(f.writePos.Load())
	f.assign(&f.slots[w], src)

	for {
		old := f.state.Load()
		_, claim := unpack(old)
		if f.state.CompareAndSwap(old, pack(w, claim)) {
			// The claim can only move to w from here on, so skipping both
			// keeps the next write slot private to the writer.
			f.writePos.Store(int32(f.nextFree(w, claim)))
			break
		}
	}
	f.pushes.Add(1)
}

// Pull claims the most recently published slot and returns it. The pointer
// is valid until the next Pull on this Fifo.
func (f *Fifo[T]) Pull() *T {
	for {
		old := f.state.Load()
		latest, claim := unpack(old)
		if latest == claim || f.state.CompareAndSwap(old, pack(latest, latest)) {
			f.pulls.Add(1)
			return &f.slots[latest]
		}
	}
}

// Fill sets every slot to value. Not safe once the Fifo is shared.
func (f *Fifo[T]) Fill(value T) {
	for i := range f.slots {
		f.assign(&f.slots[i], &value)
	}
}

// Slots returns the slot count.
func (f *Fifo[T]) Slots() int { return len(f.slots) }

// WritePosition returns the slot the next Push writes into.
func (f *Fifo[T]) WritePosition() int { return int(f.writePos.Load()) }

// ReadPosition returns the slot currently claimed by the reader, or -1.
func (f *Fifo[T]) ReadPosition() int {
	_, claim := unpack(f.state.Load())
	return claim
}

// LatestPosition returns the most recently published slot.
func (f *Fifo[T]) LatestPosition() int {
	latest, _ := unpack(f.state.Load())
	return latest
}

// Stats returns push/pull counters.
func (f *Fifo[T]) Stats() api.ChannelStats {
	return api.ChannelStats{
		Pushes: f.pushes.Load(),
		Pulls:  f.pulls.Load(),
	}
}

func (f *Fifo[T]) assign(dst, src *T) {
	if f.copier != nil {
		f.copier(dst, src)
		return
	}
	*dst = *src
}

// nextFree advances from pos, skipping the claimed and the published slot.
func (f *Fifo[T]) nextFree(published, claim int) int {
	n := len(f.slots)
	pos := published
	for {
		pos++
		if pos == n {
			pos = 0
		}
		if pos != claim && pos != published {
			return pos
		}
	}
}

func pack(latest, claim int) uint64 {
	return uint64(uint32(latest))<<32 | uint64(uint32(claim+1))
}

func unpack(s uint64) (latest, claim int) {
	return int(uint32(s >> 32)), int(uint32(s)) - 1
}
