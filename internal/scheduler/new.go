package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Option customizes a Scheduler.
type Option func(*implScheduler)

// WithClock overrides the time source and the timer used to wait for the next run.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(s *implScheduler) {
		s.now = now
		s.after = after
	}
}

// WithRunNow runs the job once immediately before waiting for the first slot.
func WithRunNow(runNow bool) Option {
	return func(s *implScheduler) {
		s.runNow = runNow
	}
}

type implScheduler struct {
	schedule cron.Schedule
	job      Job
	runNow   bool
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
	logger   logger.Logger
}

// New creates a Scheduler that runs job at every activation of expr, which is
// either "HH:MM" (daily, local time) or a five-field cron expression.
func New(expr string, job Job, log logger.Logger, opts ...Option) (Scheduler, error) {
	schedule, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	s := &implScheduler{
		schedule: schedule,
		job:      job,
		now:      time.Now,
		after:    time.After,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}
