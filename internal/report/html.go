package report

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

const timestampLayout = "2006-01-02_15-04-05"

func (w *implWriter) SaveHTML(ctx context.Context, talker string, part, total int, doc string) (string, error) {
	if err := os.MkdirAll(w.opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("%s_digest_%s", SafeName(talker), w.now().Format(timestampLayout))
	if total > 1 {
		name = fmt.Sprintf("%s_part%d", name, part)
	}
	path := filepath.Join(w.opts.OutputDir, name+".html")

	doc = injectLink(doc, w.opts.RelatedLink)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	w.logger.Info(ctx, "Saved report: %s", path)
	return path, nil
}

// injectLink places the related link footer just before the closing body
// tag, or at the end when the document has none.
func injectLink(doc string, link RelatedLink) string {
	if link.URL == "" {
		return doc
	}
	text := link.Text
	if text == "" {
		text = link.URL
	}

	footer := fmt.Sprintf(
		`<div style="text-align:center;margin:24px 0;"><a href="%s" target="_blank">%s</a></div>`,
		html.EscapeString(link.URL), html.EscapeString(text),
	)

	i := strings.LastIndex(strings.ToLower(doc), "</body>")
	if i < 0 {
		return doc + "\n" + footer + "\n"
	}
	return doc[:i] + footer + "\n" + doc[i:]
}

// SafeName replaces characters that are not allowed in file names.
func SafeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return '_'
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, " .")
	if s == "" {
		return "talker"
	}
	return s
}
