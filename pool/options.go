// File: pool/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "go.uber.org/zap"

const (
	// DefaultObjectSize is the nominal buffer size.
	DefaultObjectSize = 1 << 20
	// DefaultInitialFree is the number of buffers created up front.
	DefaultInitialFree = 8
	// DefaultReserved is the list capacity reserved for free and used.
	DefaultReserved = 1024
)

// Option customizes MemoryPool initialization.
type Option func(*config)

type config struct {
	objectSize  int
	initialFree int
	reserved    int
	logger      *zap.Logger
	onInvalid   func(error)
}

func defaultConfig() config {
	return config{
		objectSize:  DefaultObjectSize,
		initialFree: DefaultInitialFree,
		reserved:    DefaultReserved,
		logger:      zap.NewNop(),
	}
}

// WithObjectSize sets the nominal buffer size used when the free list grows.
func WithObjectSize(n int) Option {
	return func(c *config) { c.objectSize = n }
}

// WithInitialFree sets how many buffers are created by New.
func WithInitialFree(n int) Option {
	return func(c *config) { c.initialFree = n }
}

// WithReserved sets the capacity hint of the free and used lists.
func WithReserved(n int) Option {
	return func(c *config) { c.reserved = n }
}

// WithLogger attaches a logger for growth and invalid-free reports.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInvalidFreeHook registers fn to observe every invalid free. The error
// is still returned to the caller.
func WithInvalidFreeHook(fn func(error)) Option {
	return func(c *config) { c.onInvalid = fn }
}
