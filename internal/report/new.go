package report

import (
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Options configures a Writer.
type Options struct {
	OutputDir   string
	RelatedLink RelatedLink
}

// Option customizes a Writer.
type Option func(*implWriter)

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *implWriter) {
		w.now = now
	}
}

type implWriter struct {
	opts   Options
	now    func() time.Time
	logger logger.Logger
}

// New creates a Writer rooted at opts.OutputDir.
func New(opts Options, log logger.Logger, options ...Option) Writer {
	w := &implWriter{
		opts:   opts,
		now:    time.Now,
		logger: log,
	}
	for _, o := range options {
		o(w)
	}
	return w
}
