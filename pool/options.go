// SPDX-License-Identifier: MIT

package pool

import (
	"github.com/sirupsen/logrus"
)

// DefaultQueueFactor sizes the work queue as DefaultQueueFactor × workers
// when no explicit capacity is given.
const DefaultQueueFactor = 10

const panicQueueCapacityInvalid = "pool: WithQueueCapacity: capacity must be > 0"

// Option configures a Pool at construction time.
type Option func(*options)

type options struct {
	queueCapacity int
	logger        logrus.FieldLogger
}

// WithQueueCapacity fixes the capacity of the shared work queue.
// Panics on a non-positive capacity (programmer error).
func WithQueueCapacity(capacity int) Option {
	if capacity <= 0 {
		panic(panicQueueCapacityInvalid)
	}

	return func(o *options) { o.queueCapacity = capacity }
}

// WithLogger routes worker diagnostics (recovered panics, discarded work)
// to l. A nil logger keeps the default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(workers int, opts ...Option) options {
	o := options{logger: logrus.StandardLogger()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.queueCapacity == 0 {
		o.queueCapacity = DefaultQueueFactor * workers
	}

	return o
}
