package datalog

import (
	"github.com/PotentialStyx/wpilog/metrics"
	"github.com/PotentialStyx/wpilog/monitoring"
)

// options defines all configuration options for the writer.
type options struct {
	logger      monitoring.Logger
	metrics     *metrics.Registry
	extraHeader []byte
	bufferSize  int
}

// Option is a function that configures the writer options.
type Option func(*options)

// WithLogger sets the logger used for pipeline lifecycle events.
func WithLogger(l monitoring.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records writer counters in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(o *options) {
		o.metrics = reg
	}
}

// WithExtraHeader sets the opaque extra header written after the version.
func WithExtraHeader(b []byte) Option {
	return func(o *options) {
		o.extraHeader = b
	}
}

// WithBufferSize sets the size of the buffer in front of the sink.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		logger:     monitoring.Nop(),
		bufferSize: 64 * 1024,
	}
}
