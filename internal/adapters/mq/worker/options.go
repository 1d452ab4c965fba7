// Package worker drains the milestone queue and delivers notifications.
package worker

import (
	"github.com/inmeta/pitwall/pkg/logger"
)

// Option applies a configuration option to the DeliveryWorker.
type Option func(*DeliveryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *DeliveryWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *DeliveryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
