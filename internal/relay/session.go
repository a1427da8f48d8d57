package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"sourcesound/internal/browse"
	"sourcesound/internal/config"
	"sourcesound/internal/fileutil"
	"sourcesound/internal/logging"
	"sourcesound/internal/preflight"
	"sourcesound/internal/script"
	"sourcesound/internal/store"
	"sourcesound/internal/watch"
)

// ErrSessionActive is returned by Start while another session in this
// process has not been stopped.
var ErrSessionActive = errors.New("a relay session is already active")

var active atomic.Bool

// Options describes one session.
type Options struct {
	// ID identifies the session; a random one is generated when empty. The
	// caller's logger is expected to carry it already.
	ID          string
	Game        store.Game
	LibraryName string
	// LibraryRoot is the directory browsed, usually a library's rate directory.
	LibraryRoot   string
	Keywords      *KeywordMap
	TogglePlayKey string
	RelayKey      string
	// UserdataPath is required when Game.UseUserdata is set.
	UserdataPath string

	Watcher   watch.Watcher
	Activator Activator
	Messages  Messages
	// Output receives user notices, one per line. Nil discards them.
	Output io.Writer
	Logger *slog.Logger
}

// Session is one running relay between SourceSound and a game.
type Session struct {
	id          string
	game        store.Game
	libraryName string
	scriptDir   string
	relayDir    string
	target      string
	relayKey    string
	keywords    *KeywordMap
	watcher     watch.Watcher
	activator   Activator
	messages    Messages
	out         io.Writer
	logger      *slog.Logger

	mu      sync.Mutex
	cursor  *browse.Cursor
	budget  int
	stopped bool

	stopOnce sync.Once
	stopErr  error
}

// Start validates opts, writes the generated scripts, and begins watching for
// the relay file. Configuration problems are returned before anything is
// written; only one session may run per process.
func Start(ctx context.Context, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !active.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	s, err := start(opts)
	if err != nil {
		active.Store(false)
		return nil, err
	}
	return s, nil
}

func start(opts Options) (*Session, error) {
	if opts.Watcher == nil {
		return nil, errors.New("relay session requires a watcher")
	}
	if err := config.ValidateKeyName("toggle play key", opts.TogglePlayKey); err != nil {
		return nil, err
	}
	if err := config.ValidateKeyName("relay key", opts.RelayKey); err != nil {
		return nil, err
	}
	if strings.EqualFold(opts.TogglePlayKey, opts.RelayKey) {
		return nil, errors.New("toggle play key and relay key must be different")
	}
	relayDir, err := opts.Game.RelayDir(opts.UserdataPath)
	if err != nil {
		return nil, err
	}

	results := []preflight.Result{
		preflight.CheckDirectoryAccess("Script directory", opts.Game.CfgPath),
		preflight.CheckDirectoryAccess("Game directory", opts.Game.Path),
		preflight.CheckDirectoryReadable("Library root", opts.LibraryRoot),
	}
	if relayDir != opts.Game.CfgPath {
		results = append(results, preflight.CheckDirectoryAccess("Relay directory", relayDir))
	}
	if err := preflight.Err(results); err != nil {
		return nil, err
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := logging.NewComponentLogger(opts.Logger, "relay").With(
		logging.Int64(logging.FieldGameID, opts.Game.ID),
		logging.String(logging.FieldLibrary, opts.LibraryName),
	)
	activator := opts.Activator
	if activator == nil {
		activator = FileActivator{Logger: logger}
	}
	messages := opts.Messages
	if messages == nil {
		messages = EnglishMessages{}
	}

	s := &Session{
		id:          id,
		game:        opts.Game,
		libraryName: opts.LibraryName,
		scriptDir:   opts.Game.CfgPath,
		relayDir:    relayDir,
		target:      opts.Game.VoiceInputPath(),
		relayKey:    opts.RelayKey,
		keywords:    opts.Keywords,
		watcher:     opts.Watcher,
		activator:   activator,
		messages:    messages,
		out:         opts.Output,
		logger:      logger,
		cursor:      browse.New(opts.LibraryRoot),
		budget:      script.NoBudget,
	}

	if err := s.cursor.Refresh(); err != nil {
		return nil, fmt.Errorf("list library root: %w", err)
	}
	if err := s.writeStatic(opts.TogglePlayKey); err != nil {
		s.removeGenerated()
		return nil, err
	}
	if err := s.render(); err != nil {
		s.removeGenerated()
		return nil, err
	}
	// A relay file left by an earlier run must not replay its selection.
	if _, err := fileutil.RemoveIfExists(filepath.Join(relayDir, script.RelayFile)); err != nil {
		s.removeGenerated()
		return nil, fmt.Errorf("remove stale relay file: %w", err)
	}
	if err := s.watcher.Start(relayDir, script.RelayFile, s.handle); err != nil {
		s.removeGenerated()
		return nil, fmt.Errorf("start relay watcher: %w", err)
	}

	logger.Info("relay session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String("script_dir", s.scriptDir),
		logging.String("relay_dir", s.relayDir),
		logging.String("library_root", s.cursor.Root()),
		logging.Int("keywords", s.keywords.Len()),
	)
	s.notify(messages.Started(opts.Game.Name, opts.LibraryName))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// ScriptDir returns the directory the scripts are written to.
func (s *Session) ScriptDir() string { return s.scriptDir }

// RelayDir returns the directory watched for the relay file.
func (s *Session) RelayDir() string { return s.relayDir }

// View returns the current browse listing.
func (s *Session) View() script.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.View()
}

// Budget returns the highest alias index the next browse render clears, or
// script.NoBudget.
func (s *Session) Budget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// Stop halts the watcher, waits for any in-flight selection, and deletes the
// generated scripts and relay file. Files already gone are not errors. The
// session is released even when a deletion fails; the failures are returned.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.watcher.Stop()

		s.mu.Lock()
		s.stopped = true
		s.stopErr = s.removeGenerated()
		s.budget = script.NoBudget
		s.mu.Unlock()

		active.Store(false)
		s.logger.Info("relay session stopped", logging.String(logging.FieldEventType, "session_stopped"))
		s.notify(s.messages.Stopped())
	})
	return s.stopErr
}

// handle reports false when lines carry no binding for the relay key, so the
// watcher can accept the rest of a partially flushed relay file.
func (s *Session) handle(lines []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return true
	}

	tok, ok := script.ParseRelay(lines, s.relayKey)
	if !ok {
		s.logger.Debug("relay file has no binding for the relay key", logging.String("relay_key", s.relayKey))
		return false
	}
	s.apply(tok)
	return true
}

func (s *Session) apply(tok script.Token) {
	decision := Resolve(tok, s.cursor.View(), s.keywords)
	s.logger.Debug("selection resolved",
		logging.String("token", tok.String()),
		logging.String("kind", tok.Kind.String()),
		logging.String("action", decision.Action.String()),
	)

	switch decision.Action {
	case ActionAscend:
		mark := s.cursor.Mark()
		if err := s.cursor.Ascend(); err != nil {
			s.warnNavigation(err)
			return
		}
		s.rerender(mark, s.messages.WentUp())
	case ActionDescend:
		mark := s.cursor.Mark()
		if err := s.cursor.Descend(decision.Index); err != nil {
			s.warnNavigation(err)
			return
		}
		s.rerender(mark, s.messages.Entered(decision.Name))
	case ActionActivate:
		source := decision.Path
		if source == "" {
			var err error
			if source, err = s.cursor.SoundAt(decision.Index); err != nil {
				s.logger.Debug("sound index no longer valid", logging.Error(err))
				return
			}
		}
		if err := s.activator.Activate(source, s.target); err != nil {
			logging.WarnWithContext(s.logger, "sound activation failed", "activation_failed",
				logging.String("source", source),
				logging.String("target", s.target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the game directory is writable and the sound still exists"),
				logging.String(logging.FieldImpact, "the previously loaded sound may remain active"),
			)
			return
		}
		s.notify(s.messages.Loaded(decision.Name))
	case ActionUnknownKeyword:
		s.notify(s.messages.KeywordNotFound(decision.Name))
	default:
		s.logger.Debug("selection ignored", logging.String("token", tok.String()))
	}
}

// rerender writes the scripts for the cursor's new listing. When either
// script cannot be written the cursor goes back to mark and the scripts are
// rewritten for it, so the menu the game shows keeps matching the cursor.
func (s *Session) rerender(mark browse.Position, notice string) {
	if err := s.render(); err != nil {
		logging.WarnWithContext(s.logger, "script render failed", "render_failed",
			logging.String("script_dir", s.scriptDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the script directory is writable"),
			logging.String(logging.FieldImpact, "the console menu shows the previous directory"),
		)
		s.cursor.Restore(mark)
		if err := s.render(); err != nil {
			s.logger.Debug("previous listing not rewritten", logging.Error(err))
		}
		return
	}
	s.notify(notice)
}

func (s *Session) warnNavigation(err error) {
	logging.WarnWithContext(s.logger, "directory change failed", "navigation_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "the library may have changed on disk; restart the relay"),
		logging.String(logging.FieldImpact, "the browse position was not changed"),
	)
}

// render writes the browse and list scripts for the cursor's listing. The
// alias budget only advances once the browse script is on disk.
func (s *Session) render() error {
	view := s.cursor.View()
	browseText, next := script.RenderBrowse(view, s.relayKey, s.keywords.Entries(), s.budget)
	if err := script.WriteFile(s.scriptDir, script.BrowseFile, browseText); err != nil {
		return err
	}
	s.budget = next
	return script.WriteFile(s.scriptDir, script.ListFile, script.RenderList(view, s.keywords.KeywordFor))
}

func (s *Session) writeStatic(togglePlayKey string) error {
	if err := script.WriteFile(s.scriptDir, script.MainFile, script.RenderMain(togglePlayKey)); err != nil {
		return err
	}
	return script.WriteFile(s.scriptDir, script.KeywordListFile, script.RenderKeywordList(s.keywords.Entries()))
}

func (s *Session) removeGenerated() error {
	var errs []error
	for _, name := range script.GeneratedFiles() {
		if _, err := fileutil.RemoveIfExists(filepath.Join(s.scriptDir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.relayDir != s.scriptDir {
		if _, err := fileutil.RemoveIfExists(filepath.Join(s.relayDir, script.RelayFile)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logging.WarnWithContext(s.logger, "generated file cleanup incomplete", "cleanup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the sourcesound*.cfg files from the script directory"),
			logging.String(logging.FieldImpact, "stale scripts remain in the game's cfg directory"),
		)
		return err
	}
	return nil
}

func (s *Session) notify(msg string) {
	s.logger.Info(msg, logging.String(logging.FieldEventType, "relay_notice"))
	if s.out != nil {
		fmt.Fprintln(s.out, msg)
	}
}
