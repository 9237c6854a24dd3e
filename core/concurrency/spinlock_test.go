package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/hioload-rt/api"
)

func TestPrimitiveSpinLock_MutualExclusion(t *testing.T) {
	var (
		lock    PrimitiveSpinLock
		counter int
		inside  atomic.Int32
		wg      sync.WaitGroup
	)
	workers := 8
	iterations := 5000

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				lock.Lock()
				if inside.Add(1) != 1 {
					t.Error("two goroutines inside the critical section")
				}
				counter++
				inside.Add(-1)
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != workers*iterations {
		t.Fatalf("counter = %d, want %d", counter, workers*iterations)
	}
	if lock.IsLocked() {
		t.Fatal("lock still held after all workers finished")
	}
}

func TestPrimitiveSpinLock_TryLock(t *testing.T) {
	var lock PrimitiveSpinLock
	if !lock.TryLock() {
		t.Fatal("TryLock on free lock failed")
	}
	if lock.TryLock() {
		t.Fatal("TryLock on held lock succeeded")
	}
	lock.Unlock()
	if !lock.TryLock() {
		t.Fatal("TryLock after Unlock failed")
	}
	lock.Unlock()
}

func TestPrimitiveSpinLock_LockMisuse(t *testing.T) {
	var lock PrimitiveSpinLock
	a, b := NewOwner(), NewOwner()

	if err := lock.LockAs(a); err != nil {
		t.Fatalf("LockAs: %v", err)
	}
	if err := lock.LockAs(a); !errors.Is(err, api.ErrLockMisuse) {
		t.Fatalf("relock by holder: got %v, want ErrLockMisuse", err)
	}
	if err := lock.UnlockAs(b); !errors.Is(err, api.ErrLockMisuse) {
		t.Fatalf("unlock by non-holder: got %v, want ErrLockMisuse", err)
	}
	if !lock.IsLocked() {
		t.Fatal("failed UnlockAs released the lock")
	}
	if err := lock.UnlockAs(a); err != nil {
		t.Fatalf("UnlockAs: %v", err)
	}
	if err := lock.LockAs(NoOwner); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("LockAs(NoOwner): got %v, want ErrInvalidArgument", err)
	}
}

func TestNewOwnerIsUnique(t *testing.T) {
	seen := make(map[Owner]bool)
	for i := 0; i < 100; i++ {
		o := NewOwner()
		if o == NoOwner || seen[o] {
			t.Fatalf("duplicate or zero owner %d", o)
		}
		seen[o] = true
	}
}

func TestGuard_ReleaseOnce(t *testing.T) {
	var lock PrimitiveSpinLock
	g := Acquire(&lock)
	if !lock.IsLocked() || !g.Held() {
		t.Fatal("Acquire did not lock")
	}
	g.Release()
	g.Release()
	if lock.IsLocked() {
		t.Fatal("lock held after Release")
	}
	// A second Release must not have unlocked someone else's hold.
	lock.Lock()
	g.Release()
	if !lock.IsLocked() {
		t.Fatal("stale guard released a foreign hold")
	}
	lock.Unlock()
}

func TestWithLock_ReleasesOnPanic(t *testing.T) {
	var lock PrimitiveSpinLock
	func() {
		defer func() { _ = recover() }()
		WithLock(&lock, func() { panic("boom") })
	}()
	if lock.IsLocked() {
		t.Fatal("lock leaked by panicking critical section")
	}
}

func TestAtomicFlag(t *testing.T) {
	var f AtomicFlag
	if f.TestAndSet() {
		t.Fatal("first TestAndSet returned true")
	}
	if !f.TestAndSet() || !f.Test() {
		t.Fatal("flag not set")
	}
	f.Clear()
	if f.Test() {
		t.Fatal("flag still set after Clear")
	}
}
