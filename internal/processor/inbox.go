package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/chat-digest/internal/history"
)

// ProcessFile digests a transcript dropped into the inbox and archives it.
// A file that produced no report stays in the inbox.
func (p *implProcessor) ProcessFile(ctx context.Context, path string) error {
	base := filepath.Base(path)
	talker := strings.TrimSuffix(base, filepath.Ext(base))

	run := history.Run{
		Talker:    talker,
		Source:    history.SourceInbox,
		StartedAt: p.now(),
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing inbox transcript: %s", path)
	p.logger.Info(ctx, "========================================")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		p.logger.Warn(ctx, "[%s] Transcript file is empty", talker)
		run.Status = history.StatusSkipped
	} else {
		p.digest(ctx, &run, string(data), p.inbox)
	}
	run = p.finish(ctx, run)

	if run.Status == history.StatusFailed {
		return fmt.Errorf("digest %s: %s", base, run.Error)
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move transcript to archived folder: %v", err)
	}
	return nil
}
