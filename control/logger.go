// control/logger.go
// Author: momentics <momentics@gmail.com>
//
// Logger construction shared by the runtime components.

package control

import "go.uber.org/zap"

// NewLogger builds a production JSON logger, or a development console
// logger when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
