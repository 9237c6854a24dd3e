package pool

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/momentics/hioload-rt/api"
)

func TestLockedPool_ConcurrentAllocateRelease(t *testing.T) {
	lp, err := NewLocked(WithObjectSize(64), WithInitialFree(4))
	if err != nil {
		t.Fatalf("NewLocked: %v", err)
	}
	const workers, rounds = 8, 500
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				ptr, err := lp.Allocate(32, 8)
				if err != nil {
					t.Error(err)
					return
				}
				buf := unsafe.Slice((*byte)(ptr), 32)
				for j := range buf {
					buf[j] = id
				}
				for j := range buf {
					if buf[j] != id {
						t.Errorf("buffer shared between goroutines")
						return
					}
				}
				if err := lp.Deallocate(ptr, 32, 8); err != nil {
					t.Error(err)
					return
				}
			}
		}(byte(w))
	}
	wg.Wait()

	s := lp.Stats()
	if s.Used != 0 || s.Allocations != workers*rounds || s.Deallocations != workers*rounds {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.Free > workers+4 {
		t.Fatalf("free list grew beyond peak demand: %d", s.Free)
	}
}

func TestLockedPool_IsEqual(t *testing.T) {
	a, _ := NewLocked(WithInitialFree(0))
	b, _ := NewLocked(WithInitialFree(0))
	if !a.IsEqual(a) || a.IsEqual(b) {
		t.Fatal("LockedPool equality must be identity")
	}
	if a.IsEqual(NewResource(a.pool)) {
		t.Fatal("LockedPool must not equal an unsynchronized Resource")
	}
}

func TestLockedPool_InvalidFreeHookRunsUnlocked(t *testing.T) {
	var lp *LockedPool
	var hookStats []api.PoolStats
	lp, err := NewLocked(WithObjectSize(64), WithInitialFree(1),
		WithInvalidFreeHook(func(error) {
			// Stats takes the pool lock; this deadlocks if the hook runs under it.
			hookStats = append(hookStats, lp.Stats())
		}))
	if err != nil {
		t.Fatalf("NewLocked: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		blk, err := lp.AllocateBlock(8)
		if err != nil {
			done <- err
			return
		}
		_ = lp.Release(blk.Handle)
		errRelease := lp.Release(blk.Handle)
		errDealloc := lp.Deallocate(blk.Ptr, 8, 1)
		if !errors.Is(errRelease, api.ErrInvalidFree) || !errors.Is(errDealloc, api.ErrInvalidFree) {
			done <- fmt.Errorf("release: %v, deallocate: %v", errRelease, errDealloc)
			return
		}
		done <- nil
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected result: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("invalid-free hook ran while the pool lock was held")
	}
	if len(hookStats) != 2 || hookStats[1].InvalidFrees != 2 {
		t.Fatalf("hook stats = %+v", hookStats)
	}
}
