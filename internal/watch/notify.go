package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"sourcesound/internal/logging"
)

// NotifyWatcher reacts to create and write events reported by the operating
// system for the watched file.
type NotifyWatcher struct {
	opts Options

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	disp    *dispatcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewNotify constructs an idle native watcher.
func NewNotify(opts Options) *NotifyWatcher {
	return &NotifyWatcher{opts: opts.withDefaults()}
}

// Start subscribes to dir and begins delivering changes to filename.
func (w *NotifyWatcher) Start(dir, filename string, handler Handler) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fw = fw
	w.disp = newDispatcher(dir, filename, handler, w.opts)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(ctx, fw, w.disp, filename)

	w.opts.Logger.Debug("native watcher started",
		logging.String("dir", dir),
		logging.String("file", filename),
	)
	return nil
}

// Stop closes the subscription and waits for the event goroutine to exit.
// Calling Stop more than once is safe.
func (w *NotifyWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	w.cancel()
	if err := w.fw.Close(); err != nil {
		w.opts.Logger.Debug("close file watcher", logging.Error(err))
	}
	w.wg.Wait()
	w.disp.close()
	w.fw = nil
	w.disp = nil
}

func (w *NotifyWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, disp *dispatcher, filename string) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			disp.trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.WarnWithContext(w.opts.Logger, "file watcher reported an error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the watched directory still exists"),
			)
		}
	}
}
