package pacer

import (
	"context"
	"time"
)

// RateLimitState remembers the last submission of a batch run. The zero value
// means no request has been made yet. One instance is owned by the batch
// caller and passed by reference to every Submit of that run.
type RateLimitState struct {
	LastRequestStart  time.Time
	LastRequestTokens int
}

// Pacer submits prompts one at a time while respecting a tokens-per-minute ceiling.
type Pacer interface {
	// Submit sends prompt, folds the streamed answer, extracts the document
	// and returns it. Failures are retried; state is read before and updated
	// after every attempt that could measure the prompt.
	Submit(ctx context.Context, prompt string, state *RateLimitState) (string, error)
}

// Session is a Pacer bound to the state of one batch run.
type Session interface {
	Submit(ctx context.Context, prompt string) (string, error)
}
