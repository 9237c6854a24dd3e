// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Real-time execution helpers: the pinned block loop that consumes shared
// snapshots on a dedicated OS thread.
package concurrency
