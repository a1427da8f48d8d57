// Package watch delivers the contents of one file each time another process
// creates or rewrites it.
//
// Two implementations share the Watcher interface: NotifyWatcher uses native
// filesystem notifications through fsnotify and PollWatcher compares file
// metadata on a fixed interval. Both run the handler on their own goroutine
// behind a debounce Gate, so one logical write that the writer flushes several
// times reaches the handler once.
package watch

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"sourcesound/internal/logging"
)

// Handler receives the lines of the watched file and reports whether they
// carried an event. Returning false reopens the gate for the next write.
type Handler func(lines []string) bool

// Watcher observes one file in one directory. Stop blocks until no further
// handler invocation can happen.
type Watcher interface {
	Start(dir, filename string, handler Handler) error
	Stop()
}

// Watcher kinds accepted by New.
const (
	KindAuto   = "auto"
	KindNative = "native"
	KindPoll   = "poll"
)

const (
	DefaultDebounce     = 250 * time.Millisecond
	DefaultPollInterval = 250 * time.Millisecond
)

// ErrAlreadyStarted is returned when Start is called on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Options configures both watcher implementations.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	o.Logger = logging.NewComponentLogger(o.Logger, "watch")
	return o
}

// New returns a watcher of the requested kind. KindAuto prefers native
// notifications and falls back to polling when they are unavailable.
func New(kind string, opts Options) (Watcher, error) {
	opts = opts.withDefaults()
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindAuto:
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			logging.WarnWithContext(opts.Logger, "native file notifications unavailable; polling instead", "watcher_fallback",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "raise the inotify watch limit or set relay.watcher = \"poll\""),
				logging.String(logging.FieldImpact, "selections are detected up to one poll interval later"),
			)
			return NewPoll(opts), nil
		}
		_ = fw.Close()
		return NewNotify(opts), nil
	case KindNative:
		return NewNotify(opts), nil
	case KindPoll:
		return NewPoll(opts), nil
	default:
		return nil, fmt.Errorf("unsupported watcher kind %q", kind)
	}
}

// dispatcher applies the debounce gate and reads the file for a trigger.
type dispatcher struct {
	path     string
	handler  Handler
	gate     *Gate
	debounce time.Duration
	logger   *slog.Logger
}

func newDispatcher(dir, filename string, handler Handler, opts Options) *dispatcher {
	return &dispatcher{
		path:     filepath.Join(dir, filename),
		handler:  handler,
		gate:     NewGate(),
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
}

func (d *dispatcher) trigger() {
	if !d.gate.TryAcquire() {
		d.logger.Debug("relay change inside debounce window ignored", logging.String("path", d.path))
		return
	}
	d.gate.ReleaseAfter(d.debounce)

	lines, err := readLines(d.path)
	if err != nil {
		logging.WarnWithContext(d.logger, "read watched file failed; event dropped", "watch_read_failed",
			logging.String("path", d.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the file may have been replaced mid-write; repeat the selection"),
		)
		return
	}
	if len(lines) == 0 {
		// Truncated but not yet rewritten; the follow-up write carries the content.
		d.gate.Reopen()
		return
	}
	if !d.handler(lines) {
		d.gate.Reopen()
	}
}

func (d *dispatcher) close() {
	d.gate.Close()
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}
