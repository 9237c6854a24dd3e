// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Reload hook sets for config changes. Each owner holds its own set.

package control

import "sync"

// ReloadHooks is a list of listeners notified on config change.
type ReloadHooks struct {
	mu    sync.Mutex
	hooks []func()
}

// NewReloadHooks creates an empty hook set.
func NewReloadHooks() *ReloadHooks {
	return &ReloadHooks{}
}

// Register adds a new component reload listener.
func (h *ReloadHooks) Register(fn func()) {
	h.mu.Lock()
	h.hooks = append(h.hooks, fn)
	h.mu.Unlock()
}

// Len returns the number of registered hooks.
func (h *ReloadHooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hooks)
}

// Trigger dispatches all hooks asynchronously.
func (h *ReloadHooks) Trigger() {
	for _, fn := range h.list() {
		go fn()
	}
}

// TriggerSync invokes all hooks on the calling goroutine, in registration order.
func (h *ReloadHooks) TriggerSync() {
	for _, fn := range h.list() {
		fn()
	}
}

func (h *ReloadHooks) list() []func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]func(){}, h.hooks...)
}
