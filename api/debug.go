// Package api
// Author: momentics
//
// Live debug support: probes and the diagnostic event history.

package api

import "time"

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}

// DiagnosticEvent is one recorded programming-error report, such as an
// invalid free or a lock misuse.
type DiagnosticEvent struct {
	At     time.Time
	Code   ErrorCode
	Source string
	Detail string
}
