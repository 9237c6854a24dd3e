// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency holds the non-blocking primitives shared between a
// control goroutine and a latency-critical real-time goroutine:
//   - PrimitiveSpinLock and RecursiveSpinLock with Acquire/WithLock guards
//   - Fifo, a single-writer/single-reader "publish latest" channel
//   - SharedWithRealTime and GUIToRealTime wrappers around Fifo
//
// Nothing here blocks in the OS or allocates on the real-time path.
package concurrency
