package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sourcesound/internal/logging"
)

// PollWatcher detects changes by comparing the file's size and modification
// time on every tick. It works on filesystems without native notifications.
type PollWatcher struct {
	opts Options

	mu      sync.Mutex
	disp    *dispatcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

// changed reports whether next represents a creation or a rewrite of prev.
func (prev fileState) changed(next fileState) bool {
	if !next.exists {
		return false
	}
	if !prev.exists {
		return true
	}
	return !next.modTime.Equal(prev.modTime) || next.size != prev.size
}

// NewPoll constructs an idle polling watcher.
func NewPoll(opts Options) *PollWatcher {
	return &PollWatcher{opts: opts.withDefaults()}
}

// Start records the current state of the file and begins polling.
func (w *PollWatcher) Start(dir, filename string, handler Handler) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "watch", Path: dir, Err: os.ErrInvalid}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.disp = newDispatcher(dir, filename, handler, w.opts)
	w.cancel = cancel
	w.running = true

	initial := statFile(filepath.Join(dir, filename))
	w.wg.Add(1)
	go w.loop(ctx, w.disp, initial)

	w.opts.Logger.Debug("poll watcher started",
		logging.String("dir", dir),
		logging.String("file", filename),
		logging.Duration("interval", w.opts.PollInterval),
	)
	return nil
}

// Stop halts polling and waits for the poll goroutine to exit.
func (w *PollWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	w.cancel()
	w.wg.Wait()
	w.disp.close()
	w.disp = nil
}

func (w *PollWatcher) loop(ctx context.Context, disp *dispatcher, last fileState) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			next := statFile(disp.path)
			if last.changed(next) && ctx.Err() == nil {
				disp.trigger()
			}
			last = next
		}
	}
}
