package segmenter

import (
	"github.com/nguyentantai21042004/chat-digest/internal/budget"
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Options configures a Segmenter.
type Options struct {
	Budget budget.TokenBudget
	// FailOnDegraded makes Segment return budget.ErrDegradedBudget instead of
	// flooring a non-positive effective budget.
	FailOnDegraded bool
}

type implSegmenter struct {
	counter budget.Counter
	opts    Options
	logger  logger.Logger
}

// New creates a Segmenter measuring text with counter.
func New(counter budget.Counter, opts Options, log logger.Logger) Segmenter {
	return &implSegmenter{
		counter: counter,
		opts:    opts,
		logger:  log,
	}
}
