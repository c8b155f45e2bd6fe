package pacer

import (
	"regexp"
	"strings"
)

// Extract pulls the document of the given kind out of a model answer:
// an answer that already starts with a tag is returned as is, otherwise the
// body of a ```kind fence, otherwise the <kind ...>...</kind> span. Fence and
// tag names match case-insensitively and only as whole words.
func Extract(response, kind string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(response), "<") {
		return response, nil
	}

	k := regexp.QuoteMeta(kind)

	fence := regexp.MustCompile("(?is)```" + k + "\\s(.*?)```")
	if m := fence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	tag := regexp.MustCompile(`(?is)<` + k + `(?:\s[^>]*)?>.*?</` + k + `\s*>`)
	if span := tag.FindString(response); span != "" {
		return span, nil
	}

	return "", &ExtractionError{Kind: kind, Response: response}
}
