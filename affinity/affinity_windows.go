//go:build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"syscall"

	"github.com/momentics/hioload-rt/api"
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

func setMask(mask uintptr) (uintptr, error) {
	hThread, _, _ := procGetCurrentThread.Call()
	prev, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if prev == 0 {
		return 0, fmt.Errorf("affinity: SetThreadAffinityMask: %w", err)
	}
	return prev, nil
}

func setAffinityPlatform(cpuID int) error {
	_, err := setMask(uintptr(1) << cpuID)
	return err
}

func getAffinityPlatform() ([]int, error) {
	return nil, api.ErrNotSupported.With("op", "get_affinity")
}

func resetAffinityPlatform(numCPU int) error {
	mask := ^uintptr(0)
	if numCPU < 64 {
		mask = uintptr(1)<<numCPU - 1
	}
	_, err := setMask(mask)
	return err
}
