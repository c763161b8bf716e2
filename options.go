package wiring

import "go.uber.org/zap"

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger used for debug output about construction and
// injection. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Injector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithLiteralProvider installs the provider consulted for scalar di.inject
// fields.
func WithLiteralProvider(p LiteralProvider) Option {
	return func(i *Injector) {
		i.literals = p
	}
}
