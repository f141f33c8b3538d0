package h5support

import (
	"sync"

	"go.uber.org/zap"
)

// Option configures a File at open or create time.
type Option func(*options)

type options struct {
	logger *zap.Logger
	bounds VersionBounds
	lock   sync.Locker
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
		bounds: DefaultVersionBounds(),
		lock:   &sync.Mutex{},
	}
}

// WithLogger routes diagnostics (leak sweeps, skipped children) to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithVersionBounds sets the format-compatibility window negotiated when
// creating a file or opening one read-write.
func WithVersionBounds(b VersionBounds) Option {
	return func(o *options) {
		o.bounds = b
	}
}

// WithLock makes the file serialize its calls on the given lock instead of
// a private one. Pass the same lock to every File when the gateway is
// non-reentrant process-wide rather than per file.
func WithLock(l sync.Locker) Option {
	return func(o *options) {
		if l != nil {
			o.lock = l
		}
	}
}
