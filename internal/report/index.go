package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (w *implWriter) WriteIndex(ctx context.Context, day time.Time, entries []IndexEntry) (string, error) {
	date := day.Format("2006-01-02")
	dir := filepath.Join(w.opts.OutputDir, date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create index dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "===== Daily digest index (%s) =====\n\n", date)
	fmt.Fprintf(&b, "Generated: %s\n\n", w.now().Format("2006-01-02 15:04:05"))

	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s [%s]\n", i+1, e.Talker, e.Status)
		for _, r := range e.Reports {
			fmt.Fprintf(&b, "   %s\n", r)
		}
		if e.Error != "" {
			fmt.Fprintf(&b, "   error: %s\n", e.Error)
		}
		b.WriteString("\n")
	}
	if len(entries) == 0 {
		b.WriteString("No reports were generated.\n")
	}

	path := filepath.Join(dir, fmt.Sprintf("all_reports_%s.txt", date))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}

	w.logger.Info(ctx, "Wrote daily index: %s", path)
	return path, nil
}
