// File: facade/bridge.go
// Unified facade layer for hioload-rt.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bridge aggregates the real-time data sharing components behind one type:
// the shared value and its snapshot channel, a spinlock-guarded memory pool,
// the pinned block loop that consumes snapshots, and the control plane
// (config, metrics, debug probes, diagnostic event log).

package facade

import (
	"sync"
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/adapters"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/core/concurrency"
	rt "github.com/momentics/hioload-rt/internal/concurrency"
	"github.com/momentics/hioload-rt/pool"
)

// Config holds parameters immutable per run.
type Config struct {
	Slots            int           // Snapshot channel slot count
	ObjectSize       int           // Nominal pool buffer size
	InitialFree      int           // Pool buffers created up front
	Reserved         int           // Pool list capacity hint
	Period           time.Duration // Block period; zero runs unpaced with adaptive backoff
	CPU              int           // CPU to pin the block loop to; -1 disables pinning
	EventLogCapacity int           // Retained diagnostic events
	Logger           *zap.Logger   // Nil disables logging
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Slots:            concurrency.DefaultSlots,
		ObjectSize:       pool.DefaultObjectSize,
		InitialFree:      pool.DefaultInitialFree,
		Reserved:         pool.DefaultReserved,
		Period:           time.Millisecond,
		CPU:              -1,
		EventLogCapacity: control.DefaultEventLogCapacity,
	}
}

// Bridge connects a control side that edits a T with a real-time side that
// processes the newest T once per block.
type Bridge[T any] struct {
	shared  *concurrency.SharedWithRealTime[T]
	writeMu sync.Mutex // one Fifo writer at a time
	pool    *pool.LockedPool
	loop    *rt.BlockLoop[T]
	control *adapters.ControlAdapter
	config  *Config
	log     *zap.Logger

	mu      sync.Mutex
	started bool
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Bridge[struct{}])(nil)

// New constructs a Bridge publishing initial and running process on the
// real-time side once started.
func New[T any](initial T, process rt.Process[T], cfg *Config) (*Bridge[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := control.OrNop(cfg.Logger)
	b := &Bridge[T]{
		config:  cfg,
		log:     log,
		control: adapters.NewControlAdapter(log, cfg.EventLogCapacity),
	}

	shared, err := concurrency.NewShared(initial, concurrency.FifoConfig[T]{Slots: cfg.Slots})
	if err != nil {
		return nil, err
	}
	b.shared = shared

	b.pool, err = pool.NewLocked(
		pool.WithObjectSize(cfg.ObjectSize),
		pool.WithInitialFree(cfg.InitialFree),
		pool.WithReserved(cfg.Reserved),
		pool.WithLogger(log),
		pool.WithInvalidFreeHook(func(err error) { b.control.ReportError("pool", err) }),
	)
	if err != nil {
		return nil, err
	}

	b.loop = rt.NewBlockLoop[T](shared, process,
		rt.WithPeriod(cfg.Period),
		rt.WithCPU(cfg.CPU),
		rt.WithLogger(log))

	b.registerProbes()
	// Expose configuration values via Control for observability.
	b.control.SetConfig(map[string]any{
		"slots":        cfg.Slots,
		"object_size":  cfg.ObjectSize,
		"initial_free": cfg.InitialFree,
		"period":       cfg.Period.String(),
		"cpu":          cfg.CPU,
	})
	return b, nil
}

func (b *Bridge[T]) registerProbes() {
	b.control.RegisterDebugProbe("loop.blocks", func() any { return b.loop.Blocks() })
	b.control.RegisterDebugProbe("loop.state", func() any { return b.loop.State().String() })
	b.control.RegisterDebugProbe("fifo.pushes", func() any { return b.shared.Channel().Stats().Pushes })
	b.control.RegisterDebugProbe("fifo.pulls", func() any { return b.shared.Channel().Stats().Pulls })
	b.control.RegisterDebugProbe("pool", func() any { return b.pool.Stats() })
}

// Update mutates the control-side value with fn and publishes the result.
// Safe for concurrent callers.
func (b *Bridge[T]) Update(fn func(v *T)) {
	b.writeMu.Lock()
	fn(b.shared.Data())
	b.shared.Push()
	b.writeMu.Unlock()
	b.control.AddMetric("bridge.updates", 1)
}

// Allocate lends out a pool buffer of at least size bytes.
func (b *Bridge[T]) Allocate(size int) (pool.Block, error) {
	return b.pool.AllocateBlock(size)
}

// Release returns a buffer by handle. Invalid releases are also filed in the
// diagnostic event log.
func (b *Bridge[T]) Release(h pool.Handle) error {
	return b.pool.Release(h)
}

// Deallocate returns a buffer by address.
func (b *Bridge[T]) Deallocate(ptr unsafe.Pointer) error {
	return b.pool.Deallocate(ptr, 0, 0)
}

// Start launches the real-time block loop. Subsequent calls have no effect.
// A stopped Bridge cannot be restarted.
func (b *Bridge[T]) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	if err := b.loop.Start(); err != nil {
		b.control.ReportError("loop", err)
		return err
	}
	b.started = true
	return nil
}

// Stop halts the block loop and waits for the running block. Calling Stop
// on a non-started Bridge is a no-op.
func (b *Bridge[T]) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return nil
	}
	b.loop.Stop()
	b.started = false
	b.log.Info("bridge stopped", zap.Any("pool", b.pool.Stats()))
	return nil
}

// Shutdown implements api.GracefulShutdown by delegating to Stop().
func (b *Bridge[T]) Shutdown() error {
	return b.Stop()
}

// Control returns the control plane.
func (b *Bridge[T]) Control() *adapters.ControlAdapter { return b.control }

// Pool returns the shared memory pool.
func (b *Bridge[T]) Pool() *pool.LockedPool { return b.pool }

// LoopStats reports real-time loop progress.
func (b *Bridge[T]) LoopStats() api.LoopStats { return b.loop.Stats() }
