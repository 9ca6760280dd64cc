// internal/watch/watcher.go
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"slideforge/internal/common/logger"
)

// Handler processes one transcript file dropped into the watched directory.
type Handler func(ctx context.Context, path string) error

// Watcher monitors a drop folder for new transcript files and dispatches each
// to the handler, bounded by a concurrency limit.
type Watcher struct {
	inputDir      string
	handler       Handler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// New creates a Watcher on inputDir. maxConcurrent bounds the number of
// transcripts processed at once; values <= 0 default to 2.
func New(inputDir string, handler Handler, log logger.Logger, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       fsw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks processing events until ctx is canceled. On cancellation it
// waits for in-flight transcripts to finish before returning.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("transcript watcher started", map[string]interface{}{
		"dir":           w.inputDir,
		"maxConcurrent": w.maxConcurrent,
	})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("waiting for in-flight transcripts to finish", nil)
			w.wg.Wait()
			w.logger.Info("transcript watcher stopped", nil)
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isTranscriptFile(event.Name) {
				w.logger.Debug("ignoring non-transcript file", map[string]interface{}{
					"path": event.Name,
				})
				continue
			}

			w.logger.Info("new transcript detected", map[string]interface{}{
				"path": event.Name,
			})

			// Brief delay so the file is fully written before reading it.
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, path); err != nil {
						w.logger.Error("transcript processing failed", map[string]interface{}{
							"path":  path,
							"error": err.Error(),
						})
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func isTranscriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}
