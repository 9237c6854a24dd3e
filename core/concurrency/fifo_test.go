package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/hioload-rt/api"
)

func newIntFifo(t *testing.T, slots int) *Fifo[int] {
	t.Helper()
	f, err := NewFifo(FifoConfig[int]{Slots: slots})
	if err != nil {
		t.Fatalf("NewFifo(%d): %v", slots, err)
	}
	return f
}

func TestFifo_PullReturnsLatest(t *testing.T) {
	f := newIntFifo(t, 5)
	for v := 1; v <= 6; v++ {
		f.Push(v)
	}
	if got := *f.Pull(); got != 6 {
		t.Fatalf("Pull = %d, want 6", got)
	}
	// Repeated pulls without pushes keep returning the same slot.
	if got := *f.Pull(); got != 6 {
		t.Fatalf("second Pull = %d, want 6", got)
	}
	if st := f.Stats(); st.Pushes != 6 || st.Pulls != 2 {
		t.Fatalf("Stats = %+v", st)
	}
}

func TestFifo_FillBeforeFirstPush(t *testing.T) {
	f := newIntFifo(t, 0)
	if f.Slots() != DefaultSlots {
		t.Fatalf("Slots = %d, want %d", f.Slots(), DefaultSlots)
	}
	f.Fill(42)
	if got := *f.Pull(); got != 42 {
		t.Fatalf("Pull = %d, want filled 42", got)
	}
	if f.ReadPosition() != DefaultSlots-1 {
		t.Fatalf("ReadPosition = %d, want %d", f.ReadPosition(), DefaultSlots-1)
	}
}

func TestFifo_WriterSkipsClaimedSlot(t *testing.T) {
	for _, n := range []int{3, 4, 5, 8} {
		f := newIntFifo(t, n)
		if f.ReadPosition() != -1 {
			t.Fatalf("n=%d: fresh fifo has claim %d", n, f.ReadPosition())
		}
		f.Push(100)
		snap := f.Pull()
		claimed := f.ReadPosition()

		for i := 0; i < 3*n; i++ {
			if f.WritePosition() == claimed {
				t.Fatalf("n=%d: writer positioned on claimed slot %d", n, claimed)
			}
			f.Push(i)
			if *snap != 100 {
				t.Fatalf("n=%d: claimed snapshot overwritten with %d", n, *snap)
			}
		}
		if got := *f.Pull(); got != 3*n-1 {
			t.Fatalf("n=%d: Pull = %d, want %d", n, got, 3*n-1)
		}
	}
}

func TestFifo_RejectsTooFewSlots(t *testing.T) {
	for _, n := range []int{-1, 1, 2} {
		if _, err := NewFifo(FifoConfig[int]{Slots: n}); !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("slots=%d: got %v, want ErrInvalidArgument", n, err)
		}
	}
}

type sample struct {
	Values []float64
}

func TestFifo_CopierReusesSlotStorage(t *testing.T) {
	var copies int
	f, err := NewFifo(FifoConfig[sample]{
		Slots: 3,
		Copy: func(dst, src *sample) {
			copies++
			dst.Values = append(dst.Values[:0], src.Values...)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	src := sample{Values: []float64{1, 2, 3}}
	f.PushFrom(&src)
	src.Values[0] = 99

	got := f.Pull()
	if got.Values[0] != 1 {
		t.Fatalf("slot aliases writer data: %v", got.Values)
	}
	if copies != 1 {
		t.Fatalf("copier called %d times, want 1", copies)
	}
}

// stamped carries the same sequence number in every field so a torn read is
// visible as a mismatch.
type stamped struct {
	Seq  uint64
	Tags [16]uint64
}

func TestFifo_ConcurrentStress(t *testing.T) {
	for _, n := range []int{3, 5} {
		f, err := NewFifo(FifoConfig[stamped]{Slots: n})
		if err != nil {
			t.Fatal(err)
		}
		const pushes = 200000
		var (
			done atomic.Bool
			wg   sync.WaitGroup
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			var s stamped
			for seq := uint64(1); seq <= pushes; seq++ {
				s.Seq = seq
				for i := range s.Tags {
					s.Tags[i] = seq
				}
				f.PushFrom(&s)
			}
			done.Store(true)
		}()

		var last uint64
		for !done.Load() || last < pushes {
			snap := f.Pull()
			claimed := f.ReadPosition()
			seq := snap.Seq
			if seq < last {
				t.Fatalf("n=%d: sequence went backwards: %d after %d", n, seq, last)
			}
			for i, tag := range snap.Tags {
				if tag != seq {
					t.Fatalf("n=%d: torn snapshot: tag[%d]=%d seq=%d", n, i, tag, seq)
				}
			}
			if f.ReadPosition() != claimed {
				t.Fatalf("n=%d: claim moved without a Pull", n)
			}
			// Re-read after giving the writer time to lap the ring.
			for i := 0; i < 64; i++ {
				_ = f.WritePosition()
			}
			if snap.Seq != seq || snap.Tags[len(snap.Tags)-1] != seq {
				t.Fatalf("n=%d: claimed slot rewritten while held", n)
			}
			last = seq
		}
		wg.Wait()
		if got := f.Pull().Seq; got != pushes {
			t.Fatalf("n=%d: final Pull seq = %d, want %d", n, got, pushes)
		}
	}
}
