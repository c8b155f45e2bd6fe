package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
)

// Summarizer turns one talker's transcript into report documents, one per
// segment the transcript had to be split into.
type Summarizer interface {
	Summarize(ctx context.Context, talker, transcript string, session pacer.Session) (Digest, error)
}

// Digest is the outcome for one talker.
type Digest struct {
	Talker string
	Parts  []Part
}

// Part is the outcome for one segment. Err is set when the segment failed
// after all retries; the other parts are still usable.
type Part struct {
	Index    int
	Total    int
	Document string
	Err      error
}

// Failed counts the parts that produced no document.
func (d Digest) Failed() int {
	n := 0
	for _, p := range d.Parts {
		if p.Err != nil {
			n++
		}
	}
	return n
}
