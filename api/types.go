// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "time"

// LoopState enumerates the lifecycle of a real-time block loop.
type LoopState int32

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopStopping
	LoopStopped
)

func (s LoopState) String() string {
	switch s {
	case LoopRunning:
		return "running"
	case LoopStopping:
		return "stopping"
	case LoopStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// LoopStats reports progress of a real-time block loop.
type LoopStats struct {
	Blocks    uint64
	State     LoopState
	StartedAt time.Time
}
