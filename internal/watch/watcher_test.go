// internal/watch/watcher_test.go
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideforge/internal/common/logger"
)

func TestIsTranscriptFile(t *testing.T) {
	assert.True(t, isTranscriptFile("/drop/meeting.txt"))
	assert.True(t, isTranscriptFile("/drop/meeting.TXT"))
	assert.True(t, isTranscriptFile("/drop/notes.md"))
	assert.False(t, isTranscriptFile("/drop/recording.mp4"))
	assert.False(t, isTranscriptFile("/drop/deck.json"))
	assert.False(t, isTranscriptFile("/drop/noextension"))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"), nil, logger.NewTestLogger(t), 2)
	assert.Error(t, err)
}

func TestWatcher_DispatchesNewTranscripts(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var handled []string
	done := make(chan struct{}, 1)

	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		handled = append(handled, path)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, handler, logger.NewTestLogger(t), 2)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		w.Start(ctx)
	}()
	<-started
	time.Sleep(100 * time.Millisecond)

	transcript := filepath.Join(dir, "meeting.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("hello"), 0644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked for new transcript")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	assert.Equal(t, transcript, handled[0])
}

func TestWatcher_IgnoresNonTranscripts(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var handled []string

	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		handled = append(handled, path)
		mu.Unlock()
		return nil
	}

	w, err := New(dir, handler, logger.NewTestLogger(t), 2)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "video.mp4"), []byte("not text"), 0644))
	time.Sleep(1 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, handled)
}
