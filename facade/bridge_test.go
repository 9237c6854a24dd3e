package facade_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/facade"
)

type mixer struct {
	Gain   float64
	Muted  bool
	Routes [8]int
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timeout waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func testConfig() *facade.Config {
	cfg := facade.DefaultConfig()
	cfg.ObjectSize = 4096
	cfg.InitialFree = 2
	cfg.Reserved = 16
	cfg.Period = 100 * time.Microsecond
	return cfg
}

func TestBridgeLifecycle(t *testing.T) {
	var gain atomic.Uint64
	var torn atomic.Bool
	b, err := facade.New(mixer{Gain: 1}, func(m *mixer) bool {
		for _, r := range m.Routes {
			if r != m.Routes[0] {
				torn.Store(true)
			}
		}
		gain.Store(uint64(m.Gain))
		return true
	}, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				b.Update(func(m *mixer) {
					for j := range m.Routes {
						m.Routes[j] = i
					}
				})
			}
		}()
	}
	wg.Wait()
	b.Update(func(m *mixer) { m.Gain = 7 })
	waitFor(t, func() bool { return gain.Load() == 7 })
	if torn.Load() {
		t.Fatal("real-time side observed a partially written value")
	}

	stats := b.Control().Stats()
	if stats["bridge.updates"] != int64(801) {
		t.Fatalf("bridge.updates = %v", stats["bridge.updates"])
	}
	if stats["debug.loop.state"] != "running" {
		t.Fatalf("loop.state = %v", stats["debug.loop.state"])
	}

	if err := b.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if b.LoopStats().State != api.LoopStopped {
		t.Fatalf("state = %v", b.LoopStats().State)
	}
	if err := b.Stop(); err != nil {
		t.Fatalf("Stop after Shutdown: %v", err)
	}
}

func TestBridgePoolReportsInvalidFree(t *testing.T) {
	b, err := facade.New(mixer{}, func(*mixer) bool { return false }, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	blk, err := b.Allocate(128)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Release(blk.Handle); err != nil {
		t.Fatal(err)
	}
	if err := b.Release(blk.Handle); !errors.Is(err, api.ErrInvalidFree) {
		t.Fatalf("double release: got %v, want ErrInvalidFree", err)
	}
	if err := b.Deallocate(blk.Ptr); !errors.Is(err, api.ErrInvalidFree) {
		t.Fatalf("stale deallocate: got %v, want ErrInvalidFree", err)
	}
	if n := b.Control().Events().Count(api.ErrCodeInvalidFree); n != 2 {
		t.Fatalf("invalid free events = %d, want 2", n)
	}
	if b.Pool().Stats().InvalidFrees != 2 {
		t.Fatal("pool did not count invalid frees")
	}
}

func TestBridgeRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Slots = 2
	if _, err := facade.New(mixer{}, func(*mixer) bool { return false }, cfg); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("slots 2: got %v, want ErrInvalidArgument", err)
	}

	cfg = testConfig()
	cfg.CPU = 1 << 20
	b, err := facade.New(mixer{}, func(*mixer) bool { return false }, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("bad cpu: got %v, want ErrInvalidArgument", err)
	}
	if b.Control().Events().Len() != 1 {
		t.Fatal("start failure not recorded")
	}
}
