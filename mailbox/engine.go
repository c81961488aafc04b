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
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailbox/errors"
	"github.com/tochemey/mailbox/internal/metric"
	"github.com/tochemey/mailbox/internal/strconvx"
	"github.com/tochemey/mailbox/internal/validation"
	"github.com/tochemey/mailbox/log"
	"github.com/tochemey/mailbox/message"
)

// Engine protocol commands
const (
	VerboseCommand   = "VERBOSE"
	TermCommand      = "$TERM"
	SizeLimitCommand = "MAILBOX-SIZE-LIMIT"
	StoreCommand     = "STORE"
	QueryCommand     = "QUERY"
)

// DefaultName is the engine name used when none is set
const DefaultName = "mailbox"

// Engine holds the mailboxes of a broker. Every request is handled by a
// single goroutine, one at a time and in arrival order, so the directory
// and its queues need no locking.
type Engine struct {
	name      string
	logger    log.Logger
	verbose   *atomic.Bool
	running   *atomic.Bool
	unbounded bool

	sizer        message.Sizer
	initialLimit uint64
	limit        *SizeLimit
	directory    *Directory

	inboxSize int
	inbox     chan *request
	// halted is closed once the engine stops reading its inbox
	halted   chan struct{}
	haltOnce sync.Once
	// done is closed once the engine has released its resources
	done chan struct{}

	dumpEnabled  bool
	dumpDir      string
	dumpInterval time.Duration
	scheduler    *scheduler

	metricsEnabled     bool
	meterProvider      otelmetric.MeterProvider
	metricRegistration otelmetric.Registration

	counters *counters
}

// Spawn starts an engine. It returns once the engine goroutine is ready.
// Cancelling ctx interrupts the engine: it stops after the request in
// progress, if any.
func Spawn(ctx context.Context, opts ...Option) (*Engine, error) {
	engine := &Engine{
		name:         DefaultName,
		logger:       log.DefaultLogger,
		verbose:      atomic.NewBool(false),
		running:      atomic.NewBool(false),
		sizer:        message.ContentSizer,
		initialLimit: Unlimited,
		inboxSize:    DefaultInboxSize,
		halted:       make(chan struct{}),
		done:         make(chan struct{}),
		counters:     newCounters(),
	}

	for _, opt := range opts {
		opt.Apply(engine)
	}

	if err := engine.validate(); err != nil {
		return nil, err
	}

	if engine.logger == nil {
		engine.logger = log.DiscardLogger
	}
	engine.logger = engine.logger.With("component", "mailbox", "name", engine.name)

	if engine.unbounded {
		engine.initialLimit = Unlimited
	}
	engine.limit = NewSizeLimit(engine.initialLimit)
	engine.directory = NewDirectory(engine.limit, engine.sizer)
	engine.inbox = make(chan *request, engine.inboxSize)

	if engine.metricsEnabled {
		if err := engine.registerMetrics(); err != nil {
			return nil, err
		}
	}

	if engine.dumpEnabled {
		if err := engine.startDumpScheduler(ctx); err != nil {
			engine.unregisterMetrics()
			return nil, err
		}
	}

	ready := make(chan struct{})
	engine.running.Store(true)
	go engine.run(ctx, ready)
	<-ready

	return engine, nil
}

// Name returns the engine name
func (e *Engine) Name() string {
	return e.name
}

// IsRunning returns true when the engine still accepts requests
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Done is closed once the engine has terminated and released its resources
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Tell sends a request and returns as soon as the engine inbox accepted it.
func (e *Engine) Tell(ctx context.Context, frames ...Frame) error {
	return e.send(ctx, newRequest(ctx, frames, false))
}

// Ask sends a request and waits for its reply. The reply of a command that
// does not answer, or of a QUERY on an empty mailbox, is nil.
func (e *Engine) Ask(ctx context.Context, frames ...Frame) (*message.Message, error) {
	req := newRequest(ctx, frames, true)
	if err := e.send(ctx, req); err != nil {
		return nil, err
	}

	select {
	case msg := <-req.reply:
		return msg, nil
	case <-e.halted:
		// the reply may have been written right before the engine halted
		select {
		case msg := <-req.reply:
			return msg, nil
		default:
			return nil, gerrors.ErrEngineTerminated
		}
	case <-ctx.Done():
		if req.abandon() {
			return nil, ctx.Err()
		}
		// the engine took a message for this request, it is owed to the caller
		select {
		case msg := <-req.reply:
			return msg, nil
		case <-e.halted:
			select {
			case msg := <-req.reply:
				return msg, nil
			default:
				return nil, gerrors.ErrEngineTerminated
			}
		}
	}
}

// Verbose turns verbose logging on
func (e *Engine) Verbose(ctx context.Context) error {
	return e.Tell(ctx, TextFrame(VerboseCommand))
}

// SetSizeLimit sends MAILBOX-SIZE-LIMIT. limit is "max" or a decimal byte
// count; an invalid value is logged by the engine and the limit is kept.
func (e *Engine) SetSizeLimit(ctx context.Context, limit string) error {
	return e.Tell(ctx, TextFrame(SizeLimitCommand), TextFrame(limit))
}

// Store enqueues msg into the mailbox of address. The engine owns msg from then on.
func (e *Engine) Store(ctx context.Context, address string, msg *message.Message) error {
	return e.Tell(ctx, TextFrame(StoreCommand), TextFrame(address), MessageFrame(msg))
}

// Query removes and returns the oldest message of address, nil when there is none.
func (e *Engine) Query(ctx context.Context, address string) (*message.Message, error) {
	return e.Ask(ctx, TextFrame(QueryCommand), TextFrame(address))
}

// Shutdown terminates the engine and waits until it has released its
// resources or ctx is done. Shutting down a terminated engine is a no-op.
func (e *Engine) Shutdown(ctx context.Context) error {
	if err := e.Tell(ctx, TextFrame(TermCommand)); err != nil && !errors.Is(err, gerrors.ErrEngineTerminated) {
		return err
	}

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// send hands req to the engine goroutine
func (e *Engine) send(ctx context.Context, req *request) error {
	select {
	case <-e.halted:
		return gerrors.ErrEngineTerminated
	default:
	}

	select {
	case e.inbox <- req:
		return nil
	case <-e.halted:
		return gerrors.ErrEngineTerminated
	case <-ctx.Done():
		return ctx.Err()
	}
}

// validate checks the options
func (e *Engine) validate() error {
	chain := validation.New(validation.AllErrors()).
		AddAssertion(e.inboxSize >= 0, gerrors.ErrInvalidInboxSize).
		AddAssertion(e.sizer != nil, gerrors.ErrUndefinedSizer)

	if e.dumpEnabled {
		chain.
			AddValidator(validation.NewEmptyStringValidator("dumpDir", e.dumpDir, gerrors.ErrDumpDirRequired)).
			AddValidator(validation.NewPositiveDurationValidator("dumpInterval", e.dumpInterval, gerrors.ErrInvalidDumpInterval))
	}

	return chain.Validate()
}

// run is the engine loop
func (e *Engine) run(ctx context.Context, ready chan<- struct{}) {
	defer e.cleanup()
	close(ready)

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("mailbox engine interrupted")
			return
		case req := <-e.inbox:
			if terminate := e.handle(req); terminate {
				return
			}
		}
	}
}

// halt stops the engine from accepting requests
func (e *Engine) halt() {
	e.haltOnce.Do(func() {
		e.running.Store(false)
		close(e.halted)
	})
}

// cleanup runs on the engine goroutine once the loop exited
func (e *Engine) cleanup() {
	e.halt()
	if e.scheduler != nil {
		e.scheduler.Stop(context.Background())
	}
	e.unregisterMetrics()
	e.logger.Debugf("mailbox engine terminated with %d queues", e.directory.Len())
	close(e.done)
}

// handle processes one request and reports whether the engine must terminate.
func (e *Engine) handle(req *request) (terminate bool) {
	if req.dump {
		e.dump()
		req.respond(nil)
		return false
	}

	reader := newFrameReader(req.frames)
	frame, ok := reader.next()
	if !ok {
		e.logger.Error(gerrors.ErrEmptyCommand)
		req.respond(nil)
		return false
	}

	command, ok := frame.Text()
	if !ok {
		e.logger.Errorf("command=(%s) %v", frame, gerrors.ErrInvalidFrame)
		req.respond(nil)
		return false
	}

	if e.verbose.Load() {
		e.logger.Debugf("API command=%s", command)
	}

	var reply *message.Message
	switch {
	case command == VerboseCommand:
		e.verbose.Store(true)
	case command == TermCommand:
		terminate = true
	case command == SizeLimitCommand && !e.unbounded:
		e.handleSizeLimit(reader)
	case command == StoreCommand:
		e.handleStore(reader)
	case command == QueryCommand:
		reply = e.handleQuery(reader, req)
	default:
		e.logger.Error(gerrors.NewErrUnknownCommand(command))
	}

	// drain the argument frames nobody asked for
	if rest := reader.remaining(); len(rest) > 0 {
		e.logger.Errorf("%v %s", gerrors.NewErrTrailingFrames(command, len(rest)), renderFrames(rest))
	}

	req.respond(reply)
	return terminate
}

// handleSizeLimit applies MAILBOX-SIZE-LIMIT <limit>
func (e *Engine) handleSizeLimit(reader *frameReader) {
	input, ok := e.readText(reader, SizeLimitCommand, "limit")
	if !ok {
		return
	}

	if err := e.limit.Parse(input); err != nil {
		e.logger.Errorf("%v, keeping limit=(%s)", err, e.limit)
		return
	}

	if e.verbose.Load() {
		e.logger.Debugf("mailbox size limit set to %s", e.limit)
	}
}

// handleStore applies STORE <address> <message>
func (e *Engine) handleStore(reader *frameReader) {
	address, ok := e.readText(reader, StoreCommand, "address")
	if !ok {
		return
	}

	frame, ok := reader.next()
	if !ok {
		e.logger.Error(gerrors.NewErrMissingFrame(StoreCommand, "message"))
		return
	}

	msg, ok := frame.Message()
	if !ok {
		e.logger.Error(gerrors.NewErrInvalidFrame(StoreCommand, "message"))
		return
	}

	queue, created := e.directory.GetOrCreate(address)
	if created {
		e.counters.queues.Inc()
	}

	before := queue.Occupied()
	evicted, freed := queue.Enqueue(msg)
	e.counters.occupiedBytes.Add(queue.Occupied())
	e.counters.occupiedBytes.Sub(before)
	e.counters.stored.Inc()

	if evicted > 0 {
		e.counters.evicted.Add(uint64(evicted))
		e.counters.evictedBytes.Add(freed)
		if e.verbose.Load() {
			e.logger.Debugf("mailbox=(%s) evicted %d messages, freed %d bytes", address, evicted, freed)
		}
	}
}

// handleQuery applies QUERY <address> and returns the message to reply with
func (e *Engine) handleQuery(reader *frameReader, req *request) *message.Message {
	address, ok := e.readText(reader, QueryCommand, "address")
	if !ok {
		return nil
	}

	if req.reply == nil {
		e.logger.Errorf("command=(%s) address=(%s) %v", QueryCommand, address, gerrors.ErrNoReplyPath)
		return nil
	}

	queue, ok := e.directory.Lookup(address)
	if !ok || queue.Len() == 0 {
		return nil
	}

	// a caller that stopped waiting must not cost a message
	if !req.claim() {
		if e.verbose.Load() {
			e.logger.Debugf("mailbox=(%s) query abandoned by its caller", address)
		}
		return nil
	}

	before := queue.Occupied()
	msg, ok := queue.Dequeue()
	if !ok {
		return nil
	}

	e.counters.occupiedBytes.Sub(before - queue.Occupied())
	e.counters.delivered.Inc()
	return msg
}

// readText reads a text argument frame, logging when it is missing or mistyped
func (e *Engine) readText(reader *frameReader, command, argument string) (string, bool) {
	frame, ok := reader.next()
	if !ok {
		e.logger.Error(gerrors.NewErrMissingFrame(command, argument))
		return "", false
	}

	text, ok := frame.Text()
	if !ok {
		e.logger.Error(gerrors.NewErrInvalidFrame(command, argument))
		return "", false
	}
	return text, true
}

// dump writes the debug snapshot of the directory
func (e *Engine) dump() {
	path, err := writeDumpFile(e.dumpDir, e.directory, time.Now())
	if err != nil {
		e.logger.Errorf("failed to write mailbox dump to %s: %v", e.dumpDir, err)
		return
	}
	e.logger.Warnf("mailbox dump complete %s", path)
}

// startDumpScheduler schedules the debug dump job. The job only posts a
// request: the snapshot itself is taken on the engine goroutine.
func (e *Engine) startDumpScheduler(ctx context.Context) error {
	sched, err := newScheduler(e.logger)
	if err != nil {
		return err
	}

	sched.Start(context.WithoutCancel(ctx))
	if err := sched.Schedule(e.dumpInterval, func(ctx context.Context) error {
		req := newRequest(ctx, nil, false)
		req.dump = true
		return e.send(ctx, req)
	}); err != nil {
		sched.Stop(ctx)
		return err
	}

	e.scheduler = sched
	return nil
}

// registerMetrics creates the instruments and registers their callback
func (e *Engine) registerMetrics() error {
	meter := metric.New(metric.WithMeterProvider(e.meterProvider)).Meter()
	mailboxMetric, err := metric.NewMailboxMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("mailbox.name", e.name)),
	}

	e.metricRegistration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		stats := e.Stats()
		sizeLimit := int64(-1)
		if stats.SizeLimit != Unlimited {
			sizeLimit = strconvx.Uint64ToInt64(stats.SizeLimit)
		}

		observer.ObserveInt64(mailboxMetric.StoredCount(), strconvx.Uint64ToInt64(stats.Stored), observeOptions...)
		observer.ObserveInt64(mailboxMetric.DeliveredCount(), strconvx.Uint64ToInt64(stats.Delivered), observeOptions...)
		observer.ObserveInt64(mailboxMetric.EvictedCount(), strconvx.Uint64ToInt64(stats.Evicted), observeOptions...)
		observer.ObserveInt64(mailboxMetric.EvictedBytes(), strconvx.Uint64ToInt64(stats.EvictedBytes), observeOptions...)
		observer.ObserveInt64(mailboxMetric.Queues(), stats.Queues, observeOptions...)
		observer.ObserveInt64(mailboxMetric.OccupiedBytes(), strconvx.Uint64ToInt64(stats.OccupiedBytes), observeOptions...)
		observer.ObserveInt64(mailboxMetric.SizeLimit(), sizeLimit, observeOptions...)
		return nil
	}, mailboxMetric.Observables()...)
	if err != nil {
		return err
	}
	return nil
}

// unregisterMetrics removes the metric callback, if any
func (e *Engine) unregisterMetrics() {
	if e.metricRegistration == nil {
		return
	}
	if err := e.metricRegistration.Unregister(); err != nil {
		e.logger.Warnf("failed to unregister mailbox metrics: %v", err)
	}
	e.metricRegistration = nil
}
