//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-rt/api"
)

func setAffinityPlatform(cpuID int) error {
	return api.ErrNotSupported.With("os", runtime.GOOS)
}

func getAffinityPlatform() ([]int, error) {
	return nil, api.ErrNotSupported.With("os", runtime.GOOS)
}

func resetAffinityPlatform(int) error {
	return api.ErrNotSupported.With("os", runtime.GOOS)
}
