package report

import (
	"context"
	"time"
)

// Writer persists generated reports and their side artifacts.
type Writer interface {
	// SaveHTML writes one report document and returns its path. part and
	// total number the segment; a suffix is added only when total > 1.
	SaveHTML(ctx context.Context, talker string, part, total int, html string) (string, error)
	// ArchiveTranscript stores the transcript that was summarized as a .docx.
	ArchiveTranscript(ctx context.Context, talker, transcript string) (string, error)
	// WriteIndex writes the daily list of reports for day.
	WriteIndex(ctx context.Context, day time.Time, entries []IndexEntry) (string, error)
}

// IndexEntry is one talker line in the daily index.
type IndexEntry struct {
	Talker  string
	Status  string
	Reports []string
	Error   string
}

// RelatedLink is an optional footer link appended to every report.
type RelatedLink struct {
	Text string
	URL  string
}
