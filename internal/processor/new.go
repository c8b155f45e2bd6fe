package processor

import (
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
	"github.com/nguyentantai21042004/chat-digest/internal/config"
	"github.com/nguyentantai21042004/chat-digest/internal/history"
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
	"github.com/nguyentantai21042004/chat-digest/internal/report"
	"github.com/nguyentantai21042004/chat-digest/internal/summarizer"
)

// Deps are the collaborators a Processor drives.
type Deps struct {
	Source     chatlog.Source
	Masker     *chatlog.Masker
	Summarizer summarizer.Summarizer
	Pacer      pacer.Pacer
	Reports    report.Writer
	History    history.Store
}

type implProcessor struct {
	cfg  *config.Config
	deps Deps
	// inbox files may arrive concurrently and share one pacing state
	inbox  pacer.Session
	now    func() time.Time
	logger logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	if deps.Masker == nil {
		deps.Masker = chatlog.NewMasker(nil)
	}
	return &implProcessor{
		cfg:    cfg,
		deps:   deps,
		inbox:  pacer.Serialize(deps.Pacer),
		now:    time.Now,
		logger: log,
	}
}
