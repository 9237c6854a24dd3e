// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration store with dynamic update, hot-reload propagation, and a
// lock-free snapshot for the real-time side.

package control

import (
	"sync"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/core/concurrency"
)

// ConfigSnapshot is an immutable view of the store at one version.
type ConfigSnapshot struct {
	Version uint64
	Values  map[string]any
}

// Get returns the value for key.
func (s *ConfigSnapshot) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Float returns key as float64. JSON numbers decode as float64; integer
// values set from Go are converted.
func (s *ConfigSnapshot) Float(key string, def float64) float64 {
	switch v := s.Values[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// ConfigStore is a dynamic key/value map. Control-side calls are
// synchronized; the real-time side reads published snapshots without locks.
type ConfigStore struct {
	mu      sync.Mutex
	config  map[string]any
	version uint64
	shared  *concurrency.SharedWithRealTime[ConfigSnapshot]
	hooks   *ReloadHooks
	log     *zap.Logger
}

// ConfigOption customizes a ConfigStore.
type ConfigOption func(*ConfigStore)

// WithConfigLogger attaches a logger.
func WithConfigLogger(l *zap.Logger) ConfigOption {
	return func(cs *ConfigStore) {
		if l != nil {
			cs.log = l
		}
	}
}

// WithReloadHooks shares an existing hook set instead of a private one.
func WithReloadHooks(h *ReloadHooks) ConfigOption {
	return func(cs *ConfigStore) {
		if h != nil {
			cs.hooks = h
		}
	}
}

// NewConfigStore initializes an empty store and publishes version 0.
func NewConfigStore(opts ...ConfigOption) *ConfigStore {
	cs := &ConfigStore{
		config: make(map[string]any),
		hooks:  NewReloadHooks(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	shared, err := concurrency.NewShared(ConfigSnapshot{Values: map[string]any{}}, concurrency.FifoConfig[ConfigSnapshot]{})
	if err != nil {
		// Default slot count is always valid.
		panic(err)
	}
	cs.shared = shared
	return cs
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cloneMap(cs.config)
}

// Version returns the number of applied updates.
func (cs *ConfigStore) Version() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.version
}

// SetConfig merges new values, publishes a snapshot, and dispatches reload.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.version++
	data := cs.shared.Data()
	data.Version = cs.version
	data.Values = cloneMap(cs.config)
	cs.shared.Push()
	version := cs.version
	cs.mu.Unlock()

	cs.log.Debug("config updated", zap.Uint64("version", version), zap.Int("keys", len(newCfg)))
	cs.hooks.Trigger()
}

// LoadJSON merges a JSON object into the store.
func (cs *ConfigStore) LoadJSON(data []byte) error {
	var cfg map[string]any
	if err := sonnet.Unmarshal(data, &cfg); err != nil {
		return api.ErrInvalidArgument.With("json", err.Error())
	}
	cs.SetConfig(cfg)
	return nil
}

// MarshalJSON exports the current values.
func (cs *ConfigStore) MarshalJSON() ([]byte, error) {
	return sonnet.Marshal(cs.GetSnapshot())
}

// OnReload registers a listener called after every change.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.hooks.Register(fn)
}

// Hooks returns the reload hook set.
func (cs *ConfigStore) Hooks() *ReloadHooks { return cs.hooks }

// RealTime fetches the newest snapshot. Call from a single real-time
// goroutine only; the result stays valid until its next call.
func (cs *ConfigStore) RealTime() *ConfigSnapshot {
	return cs.shared.GetRealTime()
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
