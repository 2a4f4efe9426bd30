package quality

import (
	"go.uber.org/zap"

	"gosubgroup/internal/logging"
)

// Option configures a measure
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for run lifecycle events
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNop(o.logger)
	return o
}
