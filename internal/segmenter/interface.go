package segmenter

import "context"

// Segmenter splits a transcript into the fewest contiguous, line-aligned
// segments that each fit the effective token budget.
type Segmenter interface {
	// Segment returns the segments of transcript in order. fixedPrompt is the
	// prompt text without the transcript; its size is reserved from the budget.
	// An empty transcript yields no segments.
	Segment(ctx context.Context, transcript, fixedPrompt string) ([]string, error)
}
