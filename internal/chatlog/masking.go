package chatlog

import (
	"sort"
	"strings"
)

// Masker replaces real names with aliases before a transcript leaves the machine.
type Masker struct {
	replacer *strings.Replacer
}

// NewMasker builds a Masker from name -> alias rules. Longer names are
// matched first so that a name containing another is masked as a whole.
func NewMasker(rules map[string]string) *Masker {
	names := make([]string, 0, len(rules))
	for name := range rules {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return &Masker{}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, rules[name])
	}
	return &Masker{replacer: strings.NewReplacer(pairs...)}
}

// Mask applies the rules to text.
func (m *Masker) Mask(text string) string {
	if m == nil || m.replacer == nil {
		return text
	}
	return m.replacer.Replace(text)
}
