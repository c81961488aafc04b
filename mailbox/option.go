// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mailbox

import (
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/mailbox/log"
	"github.com/tochemey/mailbox/message"
)

// DefaultInboxSize is the number of requests the engine inbox buffers
// before senders block.
const DefaultInboxSize = 256

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of an engine.
	Apply(engine *Engine)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Engine)

func (f OptionFunc) Apply(e *Engine) {
	f(e)
}

// WithLogger sets the engine logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(e *Engine) {
		e.logger = logger
	})
}

// WithName sets the engine name. It labels the logs and the metrics.
func WithName(name string) Option {
	return OptionFunc(func(e *Engine) {
		e.name = name
	})
}

// WithSizeLimit sets the initial per queue size limit in bytes.
// Use Unlimited to disable evictions. Ignored by unbounded engines.
func WithSizeLimit(bytes uint64) Option {
	return OptionFunc(func(e *Engine) {
		e.initialLimit = bytes
	})
}

// WithSizer sets how the size of a message is measured
func WithSizer(sizer message.Sizer) Option {
	return OptionFunc(func(e *Engine) {
		e.sizer = sizer
	})
}

// WithVerbose turns verbose logging on from the start
func WithVerbose() Option {
	return OptionFunc(func(e *Engine) {
		e.verbose.Store(true)
	})
}

// WithInboxSize sets the capacity of the engine inbox.
// Zero makes every send wait for the engine to pick it up.
func WithInboxSize(size int) Option {
	return OptionFunc(func(e *Engine) {
		e.inboxSize = size
	})
}

// WithUnboundedMailboxes builds an engine whose queues never evict.
// Such an engine does not understand MAILBOX-SIZE-LIMIT.
func WithUnboundedMailboxes() Option {
	return OptionFunc(func(e *Engine) {
		e.unbounded = true
	})
}

// WithDebugDump writes a snapshot of every queue into dir at each interval.
func WithDebugDump(dir string, interval time.Duration) Option {
	return OptionFunc(func(e *Engine) {
		e.dumpEnabled = true
		e.dumpDir = dir
		e.dumpInterval = interval
	})
}

// WithMetrics enables the engine metrics on the global otel meter provider
func WithMetrics() Option {
	return OptionFunc(func(e *Engine) {
		e.metricsEnabled = true
	})
}

// WithMeterProvider enables the engine metrics on the given meter provider
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(e *Engine) {
		e.metricsEnabled = true
		e.meterProvider = provider
	})
}
