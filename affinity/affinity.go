// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.
//
// Every call applies to the calling OS thread. Callers must hold the thread
// with runtime.LockOSThread, otherwise the Go scheduler may move the
// goroutine off the pinned thread.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-rt/api"
)

// SetAffinity pins the current OS thread to a given logical CPU.
// On unsupported platforms returns ErrNotSupported.
func SetAffinity(cpuID int) error {
	if err := checkCPU(cpuID); err != nil {
		return err
	}
	return setAffinityPlatform(cpuID)
}

// GetAffinity returns the CPUs the current OS thread may run on.
func GetAffinity() ([]int, error) {
	return getAffinityPlatform()
}

// ResetAffinity lets the current OS thread run on every CPU the process was
// started with.
func ResetAffinity() error {
	return resetAffinityPlatform(runtime.NumCPU())
}

func checkCPU(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return api.ErrInvalidArgument.With("cpu", cpuID).With("num_cpu", runtime.NumCPU())
	}
	return nil
}
