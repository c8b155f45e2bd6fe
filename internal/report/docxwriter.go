package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Microsoft YaHei"
	fontSize  = 11
	titleSize = 16
)

func (w *implWriter) ArchiveTranscript(ctx context.Context, talker, transcript string) (string, error) {
	dir := filepath.Join(w.opts.OutputDir, "transcripts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}

	now := w.now()
	path := filepath.Join(dir, fmt.Sprintf("%s_transcript_%s.docx", SafeName(talker), now.Format(timestampLayout)))
	title := fmt.Sprintf("%s %s", talker, now.Format("2006-01-02"))

	if err := transcriptToDocx(title, transcript, path); err != nil {
		return "", fmt.Errorf("write transcript docx: %w", err)
	}

	w.logger.Info(ctx, "Archived transcript: %s", path)
	return path, nil
}

// transcriptToDocx writes one paragraph per non-empty transcript line.
func transcriptToDocx(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		addRun(doc.AddParagraph(""), line, false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
