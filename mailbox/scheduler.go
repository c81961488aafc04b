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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/mailbox/log"
)

// schedulerStopTimeout bounds the wait for running jobs on Stop
const schedulerStopTimeout = 3 * time.Second

// scheduler runs the periodic jobs of an engine
type scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying Scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartzScheduler has started or not
	started *atomic.Bool
	logger  log.Logger
}

// newScheduler creates an instance of scheduler
func newScheduler(logger log.Logger) (*scheduler, error) {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, err
	}

	return &scheduler{
		started:         atomic.NewBool(false),
		quartzScheduler: quartzScheduler,
		logger:          logger,
	}, nil
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("mailbox scheduler started")
}

// Stop clears the jobs and stops the scheduler
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.quartzScheduler.Clear(); err != nil {
		x.logger.Debugf("failed to clear mailbox scheduler jobs: %v", err)
	}
	x.quartzScheduler.Stop()
	x.started.Store(false)

	ctx, cancel := context.WithTimeout(ctx, schedulerStopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("mailbox scheduler stopped")
}

// Schedule runs fn at every interval
func (x *scheduler) Schedule(interval time.Duration, fn func(ctx context.Context) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	job := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := fn(ctx)
			return err == nil, err
		},
	)

	detail := quartz.NewJobDetail(job, quartz.NewJobKey(uuid.NewString()))
	return x.quartzScheduler.ScheduleJob(detail, quartz.NewSimpleTrigger(interval))
}
