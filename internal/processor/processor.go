package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
	"github.com/nguyentantai21042004/chat-digest/internal/history"
	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
	"github.com/nguyentantai21042004/chat-digest/internal/report"
)

// RunBatch processes talkers one after another, or up to
// performance.max_concurrent at a time through a serialized pacer session.
func (p *implProcessor) RunBatch(ctx context.Context, talkers []string, r chatlog.DateRange) ([]history.Run, error) {
	startTime := p.now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting batch: %d talkers, range %s", len(talkers), r)
	p.logger.Info(ctx, "========================================")

	var runs []history.Run
	if p.cfg.Performance.MaxConcurrent <= 1 {
		runs = p.runSequential(ctx, talkers, r)
	} else {
		runs = p.runConcurrent(ctx, talkers, r)
	}

	counts := make(map[string]int)
	for _, run := range runs {
		counts[run.Status]++
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Batch finished in %s: %d success, %d partial, %d failed, %d skipped",
		p.now().Sub(startTime).Round(time.Second),
		counts[history.StatusSuccess], counts[history.StatusPartial],
		counts[history.StatusFailed], counts[history.StatusSkipped])
	p.logger.Info(ctx, "========================================")

	return runs, ctx.Err()
}

func (p *implProcessor) runSequential(ctx context.Context, talkers []string, r chatlog.DateRange) []history.Run {
	var state pacer.RateLimitState
	session := pacer.Bind(p.deps.Pacer, &state)

	runs := make([]history.Run, 0, len(talkers))
	for i, talker := range talkers {
		if ctx.Err() != nil {
			p.logger.Warn(ctx, "Batch interrupted, %d talkers not processed", len(talkers)-i)
			break
		}
		runs = append(runs, p.processTalker(ctx, talker, r, session))
	}
	return runs
}

func (p *implProcessor) runConcurrent(ctx context.Context, talkers []string, r chatlog.DateRange) []history.Run {
	session := pacer.Serialize(p.deps.Pacer)
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)

	results := make([]history.Run, len(talkers))
	done := make([]bool, len(talkers))
	var wg sync.WaitGroup

	for i, talker := range talkers {
		if err := sem.acquire(ctx); err != nil {
			p.logger.Warn(ctx, "Batch interrupted, %d talkers not processed", len(talkers)-i)
			break
		}
		wg.Add(1)
		go func(i int, talker string) {
			defer wg.Done()
			defer sem.release()
			results[i] = p.processTalker(ctx, talker, r, session)
			done[i] = true
		}(i, talker)
	}
	wg.Wait()

	runs := make([]history.Run, 0, len(talkers))
	for i := range results {
		if done[i] {
			runs = append(runs, results[i])
		}
	}
	return runs
}

func (p *implProcessor) processTalker(ctx context.Context, talker string, r chatlog.DateRange, session pacer.Session) history.Run {
	run := history.Run{
		Talker:    talker,
		Source:    history.SourceChatlog,
		DateRange: r.String(),
		StartedAt: p.now(),
	}
	p.logger.Info(ctx, "[%s] Fetching chat log for %s", talker, r)

	transcript, err := p.deps.Source.Fetch(ctx, talker, r)
	if err != nil {
		p.logger.Error(ctx, "[%s] Fetch failed: %v", talker, err)
		run.Status = history.StatusFailed
		run.Error = fmt.Sprintf("fetch: %v", err)
		return p.finish(ctx, run)
	}
	if strings.TrimSpace(transcript) == "" {
		p.logger.Warn(ctx, "[%s] No messages in range, skipping", talker)
		run.Status = history.StatusSkipped
		return p.finish(ctx, run)
	}

	p.digest(ctx, &run, transcript, session)
	return p.finish(ctx, run)
}

// digest masks, archives and summarizes transcript, then saves every
// document that came back.
func (p *implProcessor) digest(ctx context.Context, run *history.Run, transcript string, session pacer.Session) {
	transcript = p.deps.Masker.Mask(transcript)

	if p.cfg.Report.ArchiveDocx {
		if _, err := p.deps.Reports.ArchiveTranscript(ctx, run.Talker, transcript); err != nil {
			p.logger.Warn(ctx, "[%s] Failed to archive transcript: %v", run.Talker, err)
		}
	}

	d, err := p.deps.Summarizer.Summarize(ctx, run.Talker, transcript, session)
	run.Segments = len(d.Parts)
	if err != nil && len(d.Parts) == 0 {
		p.logger.Error(ctx, "[%s] Summarize failed: %v", run.Talker, err)
		run.Status = history.StatusFailed
		run.Error = fmt.Sprintf("summarize: %v", err)
		return
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, part := range d.Parts {
		if part.Err != nil {
			run.Failed++
			errs = append(errs, fmt.Errorf("segment %d/%d: %w", part.Index, part.Total, part.Err))
			continue
		}
		path, err := p.deps.Reports.SaveHTML(ctx, run.Talker, part.Index, part.Total, part.Document)
		if err != nil {
			run.Failed++
			errs = append(errs, fmt.Errorf("save segment %d/%d: %w", part.Index, part.Total, err))
			continue
		}
		run.Reports = append(run.Reports, path)
	}

	switch {
	case len(run.Reports) == 0:
		run.Status = history.StatusFailed
	case len(errs) > 0:
		run.Status = history.StatusPartial
	default:
		run.Status = history.StatusSuccess
	}
	if len(errs) > 0 {
		run.Error = errors.Join(errs...).Error()
	}
}

// finish stamps and records run. A ledger failure is logged, never fatal.
func (p *implProcessor) finish(ctx context.Context, run history.Run) history.Run {
	run.FinishedAt = p.now()
	if p.deps.History != nil {
		// Record even when ctx was cancelled mid-run.
		if err := p.deps.History.Record(context.WithoutCancel(ctx), &run); err != nil {
			p.logger.Warn(ctx, "[%s] Failed to record history: %v", run.Talker, err)
		}
	}

	p.logger.Info(ctx, "[%s] Finished with status %s (%d reports) in %s",
		run.Talker, run.Status, len(run.Reports), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	return run
}

// WriteDailyIndex writes the index of everything recorded on day.
func (p *implProcessor) WriteDailyIndex(ctx context.Context, day time.Time) (string, error) {
	if p.deps.History == nil {
		return "", fmt.Errorf("history store is not configured")
	}

	runs, err := p.deps.History.ForDay(ctx, day)
	if err != nil {
		return "", err
	}

	entries := make([]report.IndexEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, report.IndexEntry{
			Talker:  run.Talker,
			Status:  run.Status,
			Reports: run.Reports,
			Error:   run.Error,
		})
	}
	return p.deps.Reports.WriteIndex(ctx, day, entries)
}
