package scheduler

import "context"

// Scheduler runs a job on a schedule until its context is done.
type Scheduler interface {
	Run(ctx context.Context) error
}

// Job is the scheduled work. Its error is logged and the schedule continues.
type Job func(ctx context.Context) error
