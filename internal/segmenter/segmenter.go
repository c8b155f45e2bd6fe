package segmenter

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
)

func (s *implSegmenter) Segment(ctx context.Context, transcript, fixedPrompt string) ([]string, error) {
	if transcript == "" {
		return nil, nil
	}

	limit, err := s.effectiveLimit(ctx, fixedPrompt)
	if err != nil {
		return nil, err
	}

	total, err := budget.Count(ctx, s.counter, transcript)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "Measuring whole transcript failed, splitting by lines: %v", err)
	case total <= limit:
		return []string{transcript}, nil
	default:
		s.logger.Info(ctx, "Transcript measures %d tokens, over budget %d; splitting", total, limit)
	}

	offsets := lineOffsets(transcript)
	lines := len(offsets) - 1

	var segments []string
	for pos := 0; pos < lines; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := s.largestFit(ctx, transcript, offsets, pos, limit)
		if n == 0 {
			s.logger.Warn(ctx, "Line %d alone exceeds budget %d tokens; emitting it as an oversized segment", pos+1, limit)
			n = 1
		}

		segments = append(segments, transcript[offsets[pos]:offsets[pos+n]])
		pos += n
	}

	s.logger.Info(ctx, "Split %d lines into %d segments (budget %d tokens)", lines, len(segments), limit)
	return segments, nil
}

// effectiveLimit measures the fixed prompt once and derives the transcript budget.
func (s *implSegmenter) effectiveLimit(ctx context.Context, fixedPrompt string) (int, error) {
	fixed, err := budget.Count(ctx, s.counter, fixedPrompt)
	if err != nil {
		fixed = budget.Estimator{}.Estimate(fixedPrompt)
		s.logger.Warn(ctx, "Measuring prompt template failed, estimating %d tokens: %v", fixed, err)
	}

	limit, degraded := s.opts.Budget.Effective(fixed)
	if degraded {
		if s.opts.FailOnDegraded {
			return 0, fmt.Errorf("%w: ceiling %d, template %d, margin %d",
				budget.ErrDegradedBudget, s.opts.Budget.Ceiling(), fixed, s.opts.Budget.SafetyMarginTokens)
		}
		s.logger.Warn(ctx, "Effective budget not positive (ceiling %d, template %d, margin %d); using floor of %d tokens",
			s.opts.Budget.Ceiling(), fixed, s.opts.Budget.SafetyMarginTokens, limit)
	}
	return limit, nil
}

// largestFit binary-searches the largest line count starting at pos whose
// text fits limit. It returns 0 when not even one line fits. A failed
// measurement counts as not fitting.
func (s *implSegmenter) largestFit(ctx context.Context, text string, offsets []int, pos, limit int) int {
	best := 0
	low, high := 1, len(offsets)-1-pos
	for low <= high {
		mid := low + (high-low)/2
		n, err := budget.Count(ctx, s.counter, text[offsets[pos]:offsets[pos+mid]])
		if err != nil {
			s.logger.Debug(ctx, "Counting %d lines at line %d failed: %v", mid, pos+1, err)
		}
		if err == nil && n <= limit {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return best
}

// lineOffsets returns the byte offset at which each line starts, followed by
// len(text). Lines keep their trailing newline.
func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			offsets = append(offsets, i+1)
		}
	}
	return append(offsets, len(text))
}
