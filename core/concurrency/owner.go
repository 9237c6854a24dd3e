// File: core/concurrency/owner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync/atomic"

// Owner identifies a lock holder. Go exposes no goroutine identity, so each
// execution context that takes reentrant locks obtains a token once and
// passes it on every call.
type Owner uint64

// NoOwner marks an unheld lock.
const NoOwner Owner = 0

var ownerSeq atomic.Uint64

// NewOwner returns a fresh token. Tokens come from a monotonically
// increasing counter and are never reused, so a released token can not be
// mistaken for a later holder.
func NewOwner() Owner {
	return Owner(ownerSeq.Add(1))
}
