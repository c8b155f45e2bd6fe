package summarizer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
)

// Summarize splits transcript and submits one prompt per segment through
// session. A failed segment is recorded in its Part and does not stop the
// others; a cancelled ctx stops issuing further segments.
func (s *implSummarizer) Summarize(ctx context.Context, talker, transcript string, session pacer.Session) (Digest, error) {
	d := Digest{Talker: talker}
	if transcript == "" {
		return d, nil
	}

	segments, err := s.segmenter.Segment(ctx, transcript, s.prompt.Fixed(talker))
	if err != nil {
		return d, fmt.Errorf("segment transcript: %w", err)
	}

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return d, err
		}

		s.logger.Info(ctx, "[%s] Submitting segment %d/%d (%d bytes)", talker, i+1, len(segments), len(seg))
		doc, err := session.Submit(ctx, s.prompt.Build(talker, seg))
		if err != nil {
			s.logger.Error(ctx, "[%s] Segment %d/%d failed: %v", talker, i+1, len(segments), err)
		}
		d.Parts = append(d.Parts, Part{
			Index:    i + 1,
			Total:    len(segments),
			Document: doc,
			Err:      err,
		})
	}

	s.logger.Info(ctx, "[%s] Summarized %d segments, %d failed", talker, len(d.Parts), d.Failed())
	return d, nil
}
