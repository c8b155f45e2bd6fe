package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
	"github.com/nguyentantai21042004/chat-digest/internal/history"
)

// Processor defines the digest operations run by the CLI, scheduler and watcher.
type Processor interface {
	// RunBatch digests every talker for r. A failing talker is recorded and
	// the batch moves on; the returned error is only the context's.
	RunBatch(ctx context.Context, talkers []string, r chatlog.DateRange) ([]history.Run, error)
	// ProcessFile digests a transcript file, taking the talker from its name.
	ProcessFile(ctx context.Context, path string) error
	// WriteDailyIndex lists the runs recorded on day.
	WriteDailyIndex(ctx context.Context, day time.Time) (string, error)
}
