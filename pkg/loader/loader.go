// Package loader populates hierarchical configuration from files and
// command-line arguments. Each loader follows one lifecycle: Clear resets to
// a fresh empty config, LoadConfig clears, populates, and returns it.
// Loaders are re-runnable but not incremental, and a single instance is not
// safe for concurrent loads.
package loader

import (
	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/telemetry"
)

// Loader loads a configuration from one source.
type Loader interface {
	// Clear discards accumulated state.
	Clear()
	// LoadConfig clears, populates, and returns the configuration.
	LoadConfig() (*config.Config, error)
}

// Option adjusts loader construction.
type Option func(*options)

type options struct {
	logger      telemetry.StructuredLogger
	profileBase string
}

// WithLogger attaches a structured logger to the loader.
func WithLogger(logger telemetry.StructuredLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProfileBase sets the base directory used to resolve named profiles in
// load_subconfig calls.
func WithProfileBase(dir string) Option {
	return func(o *options) {
		o.profileBase = dir
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base carries the accumulating config shared by all loaders.
type base struct {
	cfg  *config.Config
	opts options
}

func (b *base) Clear() {
	b.cfg = config.New()
}

// Config returns the accumulating configuration.
func (b *base) Config() *config.Config {
	return b.cfg
}

func (b *base) emit(entry telemetry.Entry) {
	if b.opts.logger == nil {
		return
	}
	// Best effort; a broken log writer must not abort a load.
	_ = b.opts.logger.Emit(entry)
}
