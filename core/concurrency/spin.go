// File: core/concurrency/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Busy-wait backoff shared by the spin primitives.

package concurrency

import "runtime"

const (
	activeSpins = 32
	maxBackoff  = 16
)

// spinner retries a tight loop first, then yields with exponential backoff
// so a spinning goroutine cannot starve the holder when GOMAXPROCS is small.
type spinner struct {
	spins   int
	backoff int
}

func (s *spinner) spin() {
	if s.spins < activeSpins {
		s.spins++
		return
	}
	if s.backoff == 0 {
		s.backoff = 1
	}
	for i := 0; i < s.backoff; i++ {
		runtime.Gosched()
	}
	if s.backoff < maxBackoff {
		s.backoff <<= 1
	}
}
