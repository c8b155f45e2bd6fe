package pacer

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
	"github.com/nguyentantai21042004/chat-digest/internal/llm"
)

func (p *implPacer) Submit(ctx context.Context, prompt string, state *RateLimitState) (string, error) {
	if state == nil {
		state = &RateLimitState{}
	}

	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			p.logger.Warn(ctx, "Attempt %d/%d failed: %v; retrying in %s",
				attempt-1, p.opts.MaxRetries, lastErr, p.opts.RetryDelay)
			if err := p.sleep(ctx, p.opts.RetryDelay); err != nil {
				return "", err
			}
			p.refresh()
		}

		doc, err := p.attempt(ctx, prompt, state)
		if err == nil {
			if attempt > 1 {
				p.logger.Info(ctx, "Attempt %d/%d succeeded", attempt, p.opts.MaxRetries)
			}
			return doc, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.opts.MaxRetries, lastErr)
}

// attempt runs one measure, gate, send, fold and extract cycle.
func (p *implPacer) attempt(ctx context.Context, prompt string, state *RateLimitState) (string, error) {
	tokens, err := budget.Count(ctx, p.counter, prompt)
	counted := err == nil
	if counted {
		if err := p.gate(ctx, tokens, state); err != nil {
			return "", err
		}
	} else {
		p.logger.Warn(ctx, "Skipping rate gating: %v", err)
	}

	stream := p.gen.GenerateContent(ctx, prompt, p.opts.Generation)
	if counted {
		state.LastRequestStart = p.now()
		state.LastRequestTokens = tokens
	}

	text, err := p.collect(ctx, stream)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	p.logger.Info(ctx, "Received response: %d characters", len(text))

	return Extract(text, p.opts.DocumentKind)
}

// gate blocks until the previous request has left the window whenever the
// previous and current requests together would exceed the TPM ceiling.
func (p *implPacer) gate(ctx context.Context, tokens int, state *RateLimitState) error {
	if p.opts.TPMLimit <= 0 || state.LastRequestStart.IsZero() {
		return nil
	}

	window := p.window()
	elapsed := p.now().Sub(state.LastRequestStart)
	if elapsed >= window {
		return nil
	}
	if state.LastRequestTokens+tokens <= p.opts.TPMLimit {
		return nil
	}

	wait := window - elapsed
	p.logger.Warn(ctx, "Rate limit: previous %d + current %d tokens exceed %d TPM; waiting %s",
		state.LastRequestTokens, tokens, p.opts.TPMLimit, wait.Round(time.Second))
	return p.sleep(ctx, wait)
}

func (p *implPacer) window() time.Duration {
	return time.Duration(float64(p.opts.Window) * p.opts.WindowSafetyRatio)
}

// collect folds the stream into the full answer.
func (p *implPacer) collect(ctx context.Context, stream iter.Seq2[string, error]) (string, error) {
	if stream == nil {
		return "", fmt.Errorf("generator returned no stream")
	}

	var sb strings.Builder
	chunks := 0
	for chunk, err := range stream {
		if err != nil {
			return "", err
		}
		sb.WriteString(chunk)
		chunks++
		p.logger.Debug(ctx, "Chunk %d: %d characters so far", chunks, sb.Len())
	}
	return sb.String(), nil
}

func (p *implPacer) refresh() {
	if r, ok := p.gen.(llm.Refresher); ok {
		r.Refresh()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
