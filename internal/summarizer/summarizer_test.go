package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

type fakeSegmenter struct {
	segments []string
	err      error
	fixed    string
}

func (f *fakeSegmenter) Segment(_ context.Context, _ string, fixed string) ([]string, error) {
	f.fixed = fixed
	return f.segments, f.err
}

type fakeSession struct {
	prompts []string
	fail    map[int]error
}

func (f *fakeSession) Submit(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if err := f.fail[len(f.prompts)]; err != nil {
		return "", err
	}
	return fmt.Sprintf("<html>%d</html>", len(f.prompts)), nil
}

func discard() logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func TestPrompt(t *testing.T) {
	p := Prompt{Template: "列出要点"}
	full := p.Build("group-a", "10:00 alice: hi\n")

	assert.Contains(t, full, "group-a")
	assert.Contains(t, full, "列出要点")
	assert.Contains(t, full, "10:00 alice: hi\n")
	assert.Equal(t, len(p.Fixed("group-a"))+len("10:00 alice: hi\n"), len(full))
}

func TestLoadPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("make a digest"), 0644))

	p, err := LoadPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, "make a digest", p.Template)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n"), 0644))
	_, err = LoadPrompt(empty)
	assert.Error(t, err)

	_, err = LoadPrompt(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestSummarizeEachSegment(t *testing.T) {
	seg := &fakeSegmenter{segments: []string{"seg1", "seg2", "seg3"}}
	session := &fakeSession{fail: map[int]error{2: errors.New("retries exhausted")}}
	s := New(Prompt{Template: "T"}, seg, discard())

	d, err := s.Summarize(context.Background(), "group-a", "whatever", session)
	require.NoError(t, err)

	assert.Equal(t, Prompt{Template: "T"}.Fixed("group-a"), seg.fixed)
	require.Len(t, d.Parts, 3)
	assert.Equal(t, 1, d.Failed())
	assert.Equal(t, "<html>1</html>", d.Parts[0].Document)
	assert.Error(t, d.Parts[1].Err)
	assert.Equal(t, "<html>3</html>", d.Parts[2].Document)
	assert.Equal(t, 3, d.Parts[2].Total)

	for i, p := range session.prompts {
		assert.True(t, strings.Contains(p, seg.segments[i]))
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	session := &fakeSession{}
	s := New(Prompt{Template: "T"}, &fakeSegmenter{}, discard())

	d, err := s.Summarize(context.Background(), "group-a", "", session)
	require.NoError(t, err)
	assert.Empty(t, d.Parts)
	assert.Empty(t, session.prompts)
}

func TestSummarizeSegmentationError(t *testing.T) {
	s := New(Prompt{Template: "T"}, &fakeSegmenter{err: errors.New("degraded")}, discard())
	_, err := s.Summarize(context.Background(), "group-a", "text", &fakeSession{})
	assert.Error(t, err)
}

func TestSummarizeStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{}
	s := New(Prompt{Template: "T"}, &fakeSegmenter{segments: []string{"a", "b"}}, discard())
	_, err := s.Summarize(ctx, "group-a", "text", session)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, session.prompts)
}
