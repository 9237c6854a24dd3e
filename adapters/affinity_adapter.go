// File: adapters/affinity_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Adapter implementing the api.Affinity interface on top of the affinity
//   package. Pin locks the calling goroutine to its OS thread before binding.

package adapters

import (
	"runtime"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
)

var _ api.Affinity = (*AffinityAdapter)(nil)

// AffinityAdapter tracks the binding of the goroutine that uses it. Use one
// adapter per goroutine.
type AffinityAdapter struct {
	currentCPU int
	pinned     bool
	scope      api.AffinityScope
}

// NewAffinityAdapter creates an unbound adapter with thread scope.
func NewAffinityAdapter() *AffinityAdapter {
	return &AffinityAdapter{
		currentCPU: -1,
		scope:      api.ScopeThread,
	}
}

// Pin locks the calling goroutine to its OS thread and binds it to cpuID.
// Pinning again moves the binding without a second thread lock.
func (a *AffinityAdapter) Pin(cpuID int) error {
	if !a.pinned {
		runtime.LockOSThread()
	}
	if err := affinity.SetAffinity(cpuID); err != nil {
		if !a.pinned {
			runtime.UnlockOSThread()
		}
		return err
	}
	a.currentCPU = cpuID
	a.pinned = true
	return nil
}

// Unpin restores the process CPU set and releases the OS thread.
func (a *AffinityAdapter) Unpin() error {
	if !a.pinned {
		return nil
	}
	if err := affinity.ResetAffinity(); err != nil {
		return err
	}
	runtime.UnlockOSThread()
	a.pinned = false
	a.currentCPU = -1
	return nil
}

// Get returns the bound CPU, -1 if unbound.
func (a *AffinityAdapter) Get() (int, error) {
	return a.currentCPU, nil
}

// Scope returns the binding scope.
func (a *AffinityAdapter) Scope() api.AffinityScope {
	return a.scope
}

// ImmutableDescriptor returns a snapshot of the current binding state.
func (a *AffinityAdapter) ImmutableDescriptor() api.AffinityDescriptor {
	return api.AffinityDescriptor{
		CPUID:  a.currentCPU,
		Scope:  a.scope,
		Pinned: a.pinned,
	}
}
