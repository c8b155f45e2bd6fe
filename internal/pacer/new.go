package pacer

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
	"github.com/nguyentantai21042004/chat-digest/internal/llm"
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Defaults applied by New for zero option values.
const (
	DefaultWindow            = time.Minute
	DefaultWindowSafetyRatio = 1.2
	DefaultMaxRetries        = 5
	DefaultRetryDelay        = 60 * time.Second
	DefaultDocumentKind      = "html"
)

// Options configures a Pacer.
type Options struct {
	// TPMLimit is the tokens-per-minute ceiling; <= 0 disables gating.
	TPMLimit          int
	Window            time.Duration
	WindowSafetyRatio float64
	MaxRetries        int
	RetryDelay        time.Duration
	// DocumentKind names the document the answer must contain, e.g. "html".
	DocumentKind string
	Generation   llm.GenerationConfig
}

func (o *Options) defaults() {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.WindowSafetyRatio <= 0 {
		o.WindowSafetyRatio = DefaultWindowSafetyRatio
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	if o.DocumentKind == "" {
		o.DocumentKind = DefaultDocumentKind
	}
}

// Option customizes a Pacer beyond its Options.
type Option func(*implPacer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *implPacer) { p.now = now }
}

// WithSleeper replaces the context-aware sleep used for gating and retry delays.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *implPacer) { p.sleep = sleep }
}

type implPacer struct {
	counter budget.Counter
	gen     llm.Generator
	opts    Options
	logger  logger.Logger
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a Pacer measuring prompts with counter and sending them with gen.
func New(counter budget.Counter, gen llm.Generator, opts Options, log logger.Logger, options ...Option) Pacer {
	opts.defaults()
	p := &implPacer{
		counter: counter,
		gen:     gen,
		opts:    opts,
		logger:  log,
		now:     time.Now,
		sleep:   sleepCtx,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}
