package scheduler

import (
	"context"
	"time"
)

// Run blocks until ctx is done, running the job at each scheduled slot.
func (s *implScheduler) Run(ctx context.Context) error {
	if s.runNow {
		s.runJob(ctx)
	}

	for ctx.Err() == nil {
		now := s.now()
		next := s.schedule.Next(now)
		wait := next.Sub(now)
		s.logger.Info(ctx, "Next run at %s (in %s)", next.Format("2006-01-02 15:04"), wait.Round(time.Second))

		select {
		case <-ctx.Done():
		case <-s.after(wait):
			s.runJob(ctx)
		}
	}

	s.logger.Info(ctx, "Scheduler stopped")
	return ctx.Err()
}

func (s *implScheduler) runJob(ctx context.Context) {
	start := s.now()
	s.logger.Info(ctx, "Scheduled job started")

	if err := s.job(ctx); err != nil {
		s.logger.Error(ctx, "Scheduled job failed: %v", err)
		return
	}
	s.logger.Info(ctx, "Scheduled job finished in %s", s.now().Sub(start).Round(time.Second))
}
