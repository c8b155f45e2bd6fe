package history

import (
	"context"
	"time"
)

// Store is the ledger of digest runs.
type Store interface {
	Record(ctx context.Context, run *Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	ForDay(ctx context.Context, day time.Time) ([]Run, error)
	Close() error
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Run sources.
const (
	SourceChatlog = "chatlog"
	SourceInbox   = "inbox"
)

// Run is one talker processed once.
type Run struct {
	ID         int64
	Talker     string
	Source     string
	DateRange  string
	Status     string
	Segments   int
	Failed     int
	Reports    []string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
