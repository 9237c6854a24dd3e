// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection layer.
//
// Provides:
//   - A config store whose snapshots reach the real-time side through a
//     publish-latest channel
//   - Explicitly owned reload hook sets
//   - Metrics and debug probe registries
//   - A bounded diagnostic event log
package control
