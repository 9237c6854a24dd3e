// File: core/concurrency/shared.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ergonomic wrappers pairing a control-side value with a Fifo.
//
// Control side: mutate Data(), then Push(). Real-time side: call
// BlockStarted() once at the top of each work unit and read RT() until the
// next BlockStarted(); no synchronisation is touched in between.

package concurrency

// SharedWithRealTime owns the authoritative value and its snapshot channel.
type SharedWithRealTime[T any] struct {
	data T
	fifo *Fifo[T]
	rt   *T
}

// NewShared creates the shared value and publishes initial once, so the real
// time side always has a snapshot to read.
func NewShared[T any](initial T, cfg FifoConfig[T]) (*SharedWithRealTime[T], error) {
	f, err := NewFifo(cfg)
	if err != nil {
		return nil, err
	}
	s := &SharedWithRealTime[T]{data: initial, fifo: f}
	s.Push()
	return s, nil
}

// Data returns the control-side value. Never touch it from the real-time side.
func (s *SharedWithRealTime[T]) Data() *T { return &s.data }

// Push publishes the current control-side value.
func (s *SharedWithRealTime[T]) Push() { s.fifo.PushFrom(&s.data) }

// BlockStarted fetches the latest snapshot for the current work unit.
func (s *SharedWithRealTime[T]) BlockStarted() { s.rt = s.fifo.Pull() }

// RT returns the snapshot fetched by the last BlockStarted, nil before the
// first call.
func (s *SharedWithRealTime[T]) RT() *T { return s.rt }

// GetRealTime is BlockStarted followed by RT.
func (s *SharedWithRealTime[T]) GetRealTime() *T {
	s.BlockStarted()
	return s.rt
}

// Channel exposes the underlying Fifo for diagnostics.
func (s *SharedWithRealTime[T]) Channel() *Fifo[T] { return s.fifo }

// GUIToRealTime is the non-owning variant: the control-side value belongs to
// the caller.
type GUIToRealTime[T any] struct {
	data *T
	fifo *Fifo[T]
	rt   *T
}

// NewGUIToRealTime binds to data and publishes it once.
func NewGUIToRealTime[T any](data *T, cfg FifoConfig[T]) (*GUIToRealTime[T], error) {
	f, err := NewFifo(cfg)
	if err != nil {
		return nil, err
	}
	g := &GUIToRealTime[T]{data: data, fifo: f}
	g.Push()
	return g, nil
}

// Data returns the caller-owned control-side value.
func (g *GUIToRealTime[T]) Data() *T { return g.data }

// Push publishes the current control-side value.
func (g *GUIToRealTime[T]) Push() { g.fifo.PushFrom(g.data) }

// BlockStarted fetches the latest snapshot for the current work unit.
func (g *GUIToRealTime[T]) BlockStarted() { g.rt = g.fifo.Pull() }

// RT returns the snapshot fetched by the last BlockStarted.
func (g *GUIToRealTime[T]) RT() *T { return g.rt }

// GetRealTime is BlockStarted followed by RT.
func (g *GUIToRealTime[T]) GetRealTime() *T {
	g.BlockStarted()
	return g.rt
}

// Channel exposes the underlying Fifo for diagnostics.
func (g *GUIToRealTime[T]) Channel() *Fifo[T] { return g.fifo }
