package vfs

import (
	"github.com/andy123456789088/VFS/log"
)

// Options configures an archive instance.
type Options struct {
	// SaveAfterChange triggers Save automatically after every successful
	// tree mutation (writes, removals). When disabled the caller must
	// call Save explicitly.
	SaveAfterChange bool

	Logger *log.Logger
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		Logger: log.Discard(),
	}
}

// WithSaveAfterChange enables or disables automatic persistence after
// successful mutations.
func WithSaveAfterChange(enabled bool) Option {
	return func(o *Options) error {
		o.SaveAfterChange = enabled
		return nil
	}
}

// WithLogger replaces the default (discarding) logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) error {
		o.Logger = logger
		return nil
	}
}

// WithLogLevel installs a terminal logger at the given level.
func WithLogLevel(level log.Level) Option {
	return func(o *Options) error {
		o.Logger = log.New("vfs", level)
		return nil
	}
}
