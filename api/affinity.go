// Package api
// Author: momentics@gmail.com
//
// CPU affinity and thread pinning definitions.

package api

// AffinityScope describes what entity a binding applies to.
type AffinityScope int

const (
	// ScopeThread binds the current OS thread (goroutine locked to it).
	ScopeThread AffinityScope = iota
	// ScopeProcess binds the whole process.
	ScopeProcess
)

// Affinity controls execution on particular CPUs.
type Affinity interface {
	// Pin locks the current goroutine to its OS thread and binds it to cpuID.
	Pin(cpuID int) error
	// Unpin removes affinity and releases the OS thread.
	Unpin() error
	// Get returns the CPU the adapter is bound to, -1 if unbound.
	Get() (cpuID int, err error)
}

// AffinityDescriptor is an immutable snapshot of a binding.
type AffinityDescriptor struct {
	CPUID  int
	Scope  AffinityScope
	Pinned bool
}
