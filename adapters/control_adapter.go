// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"errors"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

var _ api.Control = (*ControlAdapter)(nil)

// ControlAdapter bundles config, metrics, debug probes and the diagnostic
// event log behind api.Control.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
	events  *control.EventLog
}

// NewControlAdapter creates the control plane. A nil logger disables logging.
func NewControlAdapter(log *zap.Logger, eventCapacity int) *ControlAdapter {
	log = control.OrNop(log)
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(control.WithConfigLogger(log)),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
		events:  control.NewEventLog(eventCapacity, log),
	}
	control.RegisterPlatformProbes(adapter.debug)
	adapter.debug.RegisterProbe("events.total", func() any { return adapter.events.Total() })
	adapter.debug.RegisterProbe("events.dropped", func() any { return adapter.events.Dropped() })
	return adapter
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

// Stats merges metrics with probe output under the "debug." prefix.
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats))
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

func (c *ControlAdapter) AddMetric(key string, delta int64) int64 {
	return c.metrics.Add(key, delta)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// ReportError files err in the event log and bumps the "errors.<code>" counter.
func (c *ControlAdapter) ReportError(source string, err error) {
	if err == nil {
		return
	}
	c.events.RecordError(source, err)
	code := api.ErrCodeInternal
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	c.metrics.Add("errors."+code.String(), 1)
}

// Config returns the underlying config store.
func (c *ControlAdapter) Config() *control.ConfigStore { return c.config }

// Events returns the diagnostic event log.
func (c *ControlAdapter) Events() *control.EventLog { return c.events }
