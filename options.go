package tablerank

import (
	"go.uber.org/zap"

	"github.com/tablerank/tablerank/internal/cache"
	"github.com/tablerank/tablerank/internal/stats"
	"github.com/tablerank/tablerank/internal/store"
)

// Option configures a Service.
type Option interface {
	apply(*options)
}

// options holds the service configuration.
type options struct {
	store          store.Store
	cache          cache.Cache
	stats          stats.Collector
	logger         *zap.Logger
	maxRateRetries int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:          stats.NewNoop(),
		logger:         zap.NewNop(),
		maxRateRetries: 3,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the durable storage backend to use. Required.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithCache enables the look-aside cache. If not set, every operation
// bypasses the cache path entirely and goes straight to the store.
func WithCache(c cache.Cache) Option {
	return optionFunc(func(o *options) {
		o.cache = c
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithMaxRateRetries sets how many times a conflicted rating update is
// retried before giving up. Default is 3.
func WithMaxRateRetries(n int) Option {
	return optionFunc(func(o *options) {
		o.maxRateRetries = n
	})
}
