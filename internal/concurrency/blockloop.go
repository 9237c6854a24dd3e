// File: internal/concurrency/blockloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BlockLoop drives the real-time side of a shared value: one goroutine locked
// to its OS thread, optionally pinned to a CPU, fetching the latest snapshot
// at the top of every block and handing it to the process callback.

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
)

// Snapshot is the real-time view of a shared value.
// core/concurrency.SharedWithRealTime and GUIToRealTime satisfy it.
type Snapshot[T any] interface {
	BlockStarted()
	RT() *T
}

// Process handles one block. It reports whether it did useful work; an idle
// block makes an unpaced loop back off.
type Process[T any] func(rt *T) bool

const (
	minBackoffNs = 1
	maxBackoffNs = 1_000_000
)

// BlockLoop runs Process once per block on a dedicated OS thread.
type BlockLoop[T any] struct {
	src     Snapshot[T]
	process Process[T]
	period  time.Duration
	cpu     int
	log     *zap.Logger

	state     atomic.Int32
	started   atomic.Bool
	blocks    atomic.Uint64
	startedAt atomic.Int64
	backoffNs int64

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// LoopOption customizes a BlockLoop.
type LoopOption func(*loopConfig)

type loopConfig struct {
	period time.Duration
	cpu    int
	log    *zap.Logger
}

// WithPeriod paces the loop with a ticker. Zero selects adaptive backoff.
func WithPeriod(d time.Duration) LoopOption {
	return func(c *loopConfig) { c.period = d }
}

// WithCPU pins the loop's OS thread to cpu. Negative disables pinning.
func WithCPU(cpu int) LoopOption {
	return func(c *loopConfig) { c.cpu = cpu }
}

// WithLogger attaches a logger for lifecycle events.
func WithLogger(l *zap.Logger) LoopOption {
	return func(c *loopConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// NewBlockLoop creates an idle loop over src.
func NewBlockLoop[T any](src Snapshot[T], process Process[T], opts ...LoopOption) *BlockLoop[T] {
	cfg := loopConfig{cpu: -1, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BlockLoop[T]{
		src:       src,
		process:   process,
		period:    cfg.period,
		cpu:       cfg.cpu,
		log:       cfg.log,
		backoffNs: minBackoffNs,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the loop goroutine and waits until its thread is set up.
// A loop starts at most once; pinning failures are returned and leave the
// loop stopped.
func (l *BlockLoop[T]) Start() error {
	if !l.state.CompareAndSwap(int32(api.LoopIdle), int32(api.LoopRunning)) {
		return api.ErrInvalidArgument.With("state", l.State().String())
	}
	ready := make(chan error, 1)
	l.started.Store(true)
	go l.run(ready)
	if err := <-ready; err != nil {
		l.log.Warn("block loop failed to start", zap.Int("cpu", l.cpu), zap.Error(err))
		return err
	}
	l.log.Info("block loop started",
		zap.Int("cpu", l.cpu),
		zap.Duration("period", l.period))
	return nil
}

// Stop signals the loop and waits for the current block to finish. Safe to
// call more than once and before Start.
func (l *BlockLoop[T]) Stop() {
	if l.state.CompareAndSwap(int32(api.LoopIdle), int32(api.LoopStopped)) {
		return
	}
	l.state.CompareAndSwap(int32(api.LoopRunning), int32(api.LoopStopping))
	l.stopOnce.Do(func() { close(l.stopCh) })
	if l.started.Load() {
		<-l.done
	}
}

// Blocks returns the number of completed blocks.
func (l *BlockLoop[T]) Blocks() uint64 { return l.blocks.Load() }

// State returns the lifecycle state.
func (l *BlockLoop[T]) State() api.LoopState { return api.LoopState(l.state.Load()) }

// Stats reports loop progress.
func (l *BlockLoop[T]) Stats() api.LoopStats {
	s := api.LoopStats{Blocks: l.Blocks(), State: l.State()}
	if ns := l.startedAt.Load(); ns != 0 {
		s.StartedAt = time.Unix(0, ns)
	}
	return s
}

func (l *BlockLoop[T]) run(ready chan<- error) {
	runtime.LockOSThread()
	defer func() {
		l.state.Store(int32(api.LoopStopped))
		close(l.done)
		l.log.Info("block loop stopped", zap.Uint64("blocks", l.blocks.Load()))
	}()
	// The thread is not unlocked: when run returns the goroutine exits and
	// the runtime discards the pinned thread instead of reusing it.
	if l.cpu >= 0 {
		if err := affinity.SetAffinity(l.cpu); err != nil {
			ready <- err
			return
		}
	}
	l.startedAt.Store(time.Now().UnixNano())
	ready <- nil

	if l.period > 0 {
		l.runPaced()
		return
	}
	l.runAdaptive()
}

func (l *BlockLoop[T]) runPaced() {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.block()
		}
	}
}

func (l *BlockLoop[T]) runAdaptive() {
	for {
		select {
		case <-l.stopCh:
			return
		default:
		}
		if l.block() {
			l.backoffNs = minBackoffNs
		} else {
			l.backoff()
		}
	}
}

func (l *BlockLoop[T]) block() bool {
	l.src.BlockStarted()
	busy := l.process(l.src.RT())
	l.blocks.Add(1)
	return busy
}

func (l *BlockLoop[T]) backoff() {
	if l.backoffNs < 1000 {
		time.Sleep(time.Microsecond)
	} else {
		runtime.Gosched()
	}
	l.backoffNs = min(l.backoffNs*2, maxBackoffNs)
}
