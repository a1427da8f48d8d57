// Package sessionrun hosts one relay session as a foreground process: it
// prepares logging, takes the single-session lock, loads the game and library
// from the store, and keeps the session running until the context is
// cancelled or the process receives SIGINT or SIGTERM.
package sessionrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"sourcesound/internal/catalog"
	"sourcesound/internal/config"
	"sourcesound/internal/logging"
	"sourcesound/internal/relay"
	"sourcesound/internal/store"
	"sourcesound/internal/watch"
)

// Options selects what to run and overrides configured keys.
type Options struct {
	GameID  int64
	Library string
	// TogglePlayKey, RelayKey, and Watcher fall back to the config when empty.
	TogglePlayKey string
	RelayKey      string
	Watcher       string
	LogLevel      string
	// LogToConsole mirrors the session log to stderr.
	LogToConsole bool
	// Output receives the notices the session prints for the user.
	Output io.Writer
	// OnStarted, when set, is called once the session is live.
	OnStarted func(*relay.Session)
}

const logPointerName = "sourcesound.log"

// Run starts a relay session and blocks until it is stopped.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	sessionID := uuid.NewString()
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("sourcesound-%s.log", runID))

	outputs := []string{logPath}
	if opts.LogToConsole {
		outputs = append(outputs, "stderr")
	}
	level := opts.LogLevel
	if strings.TrimSpace(level) == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		SessionID:   sessionID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update %s link: %v\n", logPointerName, err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "sourcesound-*.log", Exclude: []string{logPath}},
	)

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s is held by another sourcesound process", relay.ErrSessionActive, cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release session lock", logging.Error(err))
		}
	}()

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return err
	}
	defer st.Close()

	game, err := st.Game(signalCtx, opts.GameID)
	if err != nil {
		return err
	}
	lib, err := st.Library(signalCtx, opts.Library)
	if err != nil {
		return err
	}

	cat := catalog.New(cfg.Paths.LibrariesDir, logger)
	if err := cat.EnsureDirectories(lib.Name, game.SoundsRate); err != nil {
		return err
	}
	root := cat.RateDir(lib.Name, game.SoundsRate)
	resolved, dropped := cat.KeywordMap(lib, game.SoundsRate)
	if len(dropped) > 0 {
		pruneKeywords(signalCtx, logger, st, cat, lib.Name)
	}

	watcher, err := watch.New(firstNonEmpty(opts.Watcher, cfg.Relay.Watcher), watch.Options{
		Debounce:     cfg.Debounce(),
		PollInterval: cfg.PollInterval(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	session, err := relay.Start(signalCtx, relay.Options{
		ID:            sessionID,
		Game:          game,
		LibraryName:   lib.Name,
		LibraryRoot:   root,
		Keywords:      relay.NewKeywordMap(root, resolved),
		TogglePlayKey: firstNonEmpty(opts.TogglePlayKey, cfg.Keys.TogglePlay),
		RelayKey:      firstNonEmpty(opts.RelayKey, cfg.Keys.Relay),
		UserdataPath:  cfg.Paths.UserdataDir,
		Watcher:       watcher,
		Output:        opts.Output,
		Logger:        logger,
	})
	if err != nil {
		logging.ErrorWithContext(logger, "relay session failed to start", "session_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the game paths with 'sourcesound game list'"),
		)
		return err
	}
	if opts.OnStarted != nil {
		opts.OnStarted(session)
	}

	<-signalCtx.Done()
	logger.Info("relay session shutting down", logging.String(logging.FieldEventType, "session_shutdown"))
	if err := session.Stop(); err != nil {
		// Cleanup failures are logged by the session; the relay itself stopped.
		logger.Debug("session stop reported cleanup errors", logging.Error(err))
	}
	return nil
}

// pruneKeywords drops keywords whose sound exists nowhere in the library. A
// sound that is only missing at this rate keeps its keyword.
func pruneKeywords(ctx context.Context, logger *slog.Logger, st *store.Store, cat *catalog.Catalog, library string) {
	removed, err := st.PruneKeywords(ctx, library, func(_, sound string) bool {
		return cat.HasSound(library, sound)
	})
	if err != nil {
		logging.WarnWithContext(logger, "keyword cleanup failed", "keyword_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "keywords for deleted sounds stay in the store"),
		)
		return
	}
	if len(removed) > 0 {
		logger.Info("removed keywords of deleted sounds",
			logging.String(logging.FieldEventType, "keywords_pruned"),
			logging.Any("keywords", removed),
		)
	}
}

// CurrentLogPath returns the link that points at the log of the most recent
// session.
func CurrentLogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, logPointerName)
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, logPointerName)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
