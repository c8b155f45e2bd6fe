package segmenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

const template = "PROMPT TEMPLATE"

// lineCounter charges cost(line) per line, fixed[text] for exact matches, and
// counts calls.
type lineCounter struct {
	cost  func(line string) int
	fixed map[string]int
	fail  func(text string) bool
	calls int
}

func (c *lineCounter) CountTokens(_ context.Context, text string) (int, error) {
	c.calls++
	if c.fail != nil && c.fail(text) {
		return 0, errors.New("counter unavailable")
	}
	if n, ok := c.fixed[text]; ok {
		return n, nil
	}
	total := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if line != "" {
			total += c.cost(line)
		}
	}
	return total, nil
}

func flat(n int) func(string) int {
	return func(string) int { return n }
}

func newTestSegmenter(c budget.Counter, b budget.TokenBudget) Segmenter {
	return New(c, Options{Budget: b}, logger.NewWithWriter("debug", io.Discard))
}

func transcriptOf(lines int) string {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&sb, "2025-01-01 10:%02d alice: message %d\n", i%60, i)
	}
	return sb.String()
}

func TestSegmentEmptyTranscript(t *testing.T) {
	c := &lineCounter{cost: flat(1)}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 1000})

	segments, err := s.Segment(context.Background(), "", template)
	require.NoError(t, err)
	assert.Empty(t, segments)
	assert.Zero(t, c.calls)
}

func TestSegmentFastPath(t *testing.T) {
	c := &lineCounter{cost: flat(20), fixed: map[string]int{template: 500}}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 100000, TokensPerMinuteLimit: 50000, SafetyMarginTokens: 1000})
	transcript := transcriptOf(100)

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, []string{transcript}, segments)
	assert.Equal(t, 2, c.calls, "template and whole transcript only")
}

func TestSegmentLargeTranscript(t *testing.T) {
	c := &lineCounter{cost: flat(20), fixed: map[string]int{template: 500}}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 100000, TokensPerMinuteLimit: 50000, SafetyMarginTokens: 1000})
	transcript := transcriptOf(10000)

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	require.Len(t, segments, 5)
	assert.Equal(t, transcript, strings.Join(segments, ""))

	lines := 0
	for _, seg := range segments {
		n, _ := c.CountTokens(context.Background(), seg)
		assert.LessOrEqual(t, n, 48500)
		lines += strings.Count(seg, "\n")
	}
	assert.Equal(t, 10000, lines)
	assert.Equal(t, 2425, strings.Count(segments[0], "\n"), "first segment is maximal")
	assert.LessOrEqual(t, c.calls, 2+5*15+5, "binary search keeps counter calls logarithmic")
}

func TestSegmentEscapeHatchSingleLine(t *testing.T) {
	c := &lineCounter{cost: flat(60000), fixed: map[string]int{template: 500}}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 100000, TokensPerMinuteLimit: 50000, SafetyMarginTokens: 1000})
	transcript := "one enormous line without newline"

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, []string{transcript}, segments)
}

func TestSegmentEscapeHatchInTheMiddle(t *testing.T) {
	cost := func(line string) int {
		if strings.HasPrefix(line, "HUGE") {
			return 1000
		}
		return 10
	}
	c := &lineCounter{cost: cost, fixed: map[string]int{template: 0}}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 100})
	transcript := "a\nb\nHUGE\nc\n"

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, []string{"a\nb\n", "HUGE\n", "c\n"}, segments)
}

func TestSegmentEveryLineOversized(t *testing.T) {
	c := &lineCounter{cost: flat(500), fixed: map[string]int{template: 0}}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 100})
	transcript := "1\n2\n3\n4\n5"

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, []string{"1\n", "2\n", "3\n", "4\n", "5"}, segments)
}

func TestSegmentCounterFailureBiasesSmaller(t *testing.T) {
	// Any candidate longer than two lines fails; segmentation must still finish.
	c := &lineCounter{
		cost:  flat(1),
		fixed: map[string]int{template: 0},
		fail:  func(text string) bool { return strings.Count(text, "\n") > 2 },
	}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 1000})
	transcript := transcriptOf(9)

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, transcript, strings.Join(segments, ""))
	for _, seg := range segments {
		assert.LessOrEqual(t, strings.Count(seg, "\n"), 2)
	}
}

func TestSegmentCounterAlwaysFails(t *testing.T) {
	c := &lineCounter{cost: flat(1), fail: func(string) bool { return true }}
	s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: 1000})
	transcript := "x\ny\nz\n"

	segments, err := s.Segment(context.Background(), transcript, template)
	require.NoError(t, err)
	assert.Equal(t, []string{"x\n", "y\n", "z\n"}, segments)
}

func TestSegmentDegradedBudget(t *testing.T) {
	b := budget.TokenBudget{ModelInputLimit: 1000, SafetyMarginTokens: 100}

	t.Run("floors and continues", func(t *testing.T) {
		c := &lineCounter{cost: flat(20), fixed: map[string]int{template: 5000}}
		s := newTestSegmenter(c, b)

		segments, err := s.Segment(context.Background(), transcriptOf(12), template)
		require.NoError(t, err)
		require.Len(t, segments, 3)
		assert.Equal(t, 5, strings.Count(segments[0], "\n"))
	})

	t.Run("fails fast when configured", func(t *testing.T) {
		c := &lineCounter{cost: flat(20), fixed: map[string]int{template: 5000}}
		s := New(c, Options{Budget: b, FailOnDegraded: true}, logger.NewWithWriter("debug", io.Discard))

		_, err := s.Segment(context.Background(), transcriptOf(12), template)
		assert.ErrorIs(t, err, budget.ErrDegradedBudget)
	})
}

func TestSegmentReconstructionAndConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	byteCost := func(line string) int { return len(line) }

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		lines := rng.Intn(60)
		for j := 0; j < lines; j++ {
			sb.WriteString(strings.Repeat("w", rng.Intn(40)))
			if j < lines-1 || rng.Intn(2) == 0 {
				sb.WriteByte('\n')
			}
		}
		transcript := sb.String()
		limit := 1 + rng.Intn(120)

		c := &lineCounter{cost: byteCost, fixed: map[string]int{template: 0}}
		s := newTestSegmenter(c, budget.TokenBudget{ModelInputLimit: limit})

		segments, err := s.Segment(context.Background(), transcript, template)
		require.NoError(t, err)
		require.Equal(t, transcript, strings.Join(segments, ""), "case %d", i)

		if transcript != "" {
			require.NotEmpty(t, segments)
		}
		for _, seg := range segments {
			require.NotEmpty(t, seg)
			if strings.Count(strings.TrimSuffix(seg, "\n"), "\n") > 0 {
				require.LessOrEqual(t, len(seg), limit, "multi-line segment over budget in case %d", i)
			}
		}
	}
}

func TestLineOffsets(t *testing.T) {
	tests := []struct {
		text string
		want []int
	}{
		{"a", []int{0, 1}},
		{"a\n", []int{0, 2}},
		{"a\nb", []int{0, 2, 3}},
		{"a\nb\n", []int{0, 2, 4}},
		{"\n\n", []int{0, 1, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lineOffsets(tt.text), "%q", tt.text)
	}
}
