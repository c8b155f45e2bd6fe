package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan struct{}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, filepath.Base(path))
	r.mu.Unlock()
	r.seen <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.seen:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for file %d", i+1)
		}
	}
}

func TestIsTranscriptFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"group.txt", true},
		{"/inbox/GROUP.TXT", true},
		{"notes.md", false},
		{"archive.txt.tmp", false},
		{"noext", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTranscriptFile(tt.path), tt.path)
	}
}

func TestWatcherHandlesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "waiting.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("x"), 0644))

	rec := &recorder{seen: make(chan struct{}, 10)}
	w, err := New(dir, rec.handle, logger.NewWithWriter("error", io.Discard), 2, WithSettleDelay(time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	rec.wait(t, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.txt"), []byte("y"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.log"), []byte("y"), 0644))
	rec.wait(t, 1)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	sort.Strings(rec.paths)
	assert.Equal(t, []string{"fresh.txt", "waiting.txt"}, rec.paths)
}

func TestDispatchHandlesPathOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "group.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	handler := func(context.Context, string) error {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return nil
	}

	w, err := New(dir, handler, logger.NewWithWriter("error", io.Discard), 2)
	require.NoError(t, err)
	defer w.Stop()
	impl := w.(*implWatcher)

	ctx := context.Background()
	require.NoError(t, impl.dispatch(ctx, path))
	// Same file seen again while the first digest is running.
	require.NoError(t, impl.dispatch(ctx, path))

	close(release)
	impl.wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()

	// Once archived, a late event for the path is ignored.
	require.NoError(t, os.Remove(path))
	require.NoError(t, impl.dispatch(ctx, path))
	impl.wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}
