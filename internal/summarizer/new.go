package summarizer

import (
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
	"github.com/nguyentantai21042004/chat-digest/internal/segmenter"
)

type implSummarizer struct {
	prompt    Prompt
	segmenter segmenter.Segmenter
	logger    logger.Logger
}

// New creates a Summarizer that splits transcripts with seg and wraps each
// segment in prompt.
func New(prompt Prompt, seg segmenter.Segmenter, log logger.Logger) Summarizer {
	return &implSummarizer{
		prompt:    prompt,
		segmenter: seg,
		logger:    log,
	}
}
