package relay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sourcesound/internal/logging"
	"sourcesound/internal/preflight"
	"sourcesound/internal/script"
	"sourcesound/internal/store"
	"sourcesound/internal/testsupport"
	"sourcesound/internal/watch"
)

type fakeWatcher struct {
	mu       sync.Mutex
	dir      string
	file     string
	handler  watch.Handler
	starts   int
	stops    int
	startErr error
}

func (f *fakeWatcher) Start(dir, filename string, handler watch.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.dir, f.file, f.handler = dir, filename, handler
	f.starts++
	return nil
}

func (f *fakeWatcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeWatcher) fire(lines ...string) {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	handler(lines)
}

type activation struct{ source, target string }

type recordingActivator struct {
	mu    sync.Mutex
	calls []activation
	err   error
}

func (a *recordingActivator) Activate(source, target string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, activation{source, target})
	return a.err
}

func (a *recordingActivator) activations() []activation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]activation(nil), a.calls...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	root      string
	game      store.Game
	watcher   *fakeWatcher
	activator *recordingActivator
	out       *syncBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "library")
	testsupport.WriteTree(t, root, "laugh.wav", "notes.txt", "weapons/shot.wav")
	game := store.Game{
		ID:         550,
		Name:       "Left 4 Dead 2",
		Path:       filepath.Join(base, "game"),
		CfgPath:    filepath.Join(base, "game", "cfg"),
		SoundsRate: 11025,
	}
	require.NoError(t, os.MkdirAll(game.CfgPath, 0o755))
	return &fixture{
		root:      root,
		game:      game,
		watcher:   &fakeWatcher{},
		activator: &recordingActivator{},
		out:       &syncBuffer{},
	}
}

func (f *fixture) options() Options {
	return Options{
		Game:          f.game,
		LibraryName:   "memes",
		LibraryRoot:   f.root,
		TogglePlayKey: "t",
		RelayKey:      "KP_END",
		Watcher:       f.watcher,
		Activator:     f.activator,
		Output:        f.out,
		Logger:        logging.NewNop(),
	}
}

func (f *fixture) start(t *testing.T, mutate ...func(*Options)) *Session {
	t.Helper()
	opts := f.options()
	for _, m := range mutate {
		m(&opts)
	}
	s, err := Start(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func (f *fixture) script(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.game.CfgPath, name))
	require.NoError(t, err)
	return string(data)
}

func relayLines(token string) []string {
	return []string{
		`unbindall`,
		`bind "KP_END" "` + token + `"`,
		`bind "T" "sourcesound_toggle"`,
	}
}

func TestStartWritesScripts(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)

	require.Equal(t, script.RenderMain("t"), f.script(t, script.MainFile))
	require.Equal(t, "echo 1. /weapons\necho 2. laugh\n", f.script(t, script.ListFile))
	require.Equal(t, "", f.script(t, script.KeywordListFile))
	require.Contains(t, f.script(t, script.BrowseFile), `alias 2 "bind KP_END 2; host_writeconfig sourcesound_relay.cfg; echo SourceSound: loaded laugh"`)
	require.Equal(t, 2, s.Budget())

	require.Equal(t, f.game.CfgPath, f.watcher.dir)
	require.Equal(t, script.RelayFile, f.watcher.file)
	require.Contains(t, f.out.String(), "relay started for Left 4 Dead 2 with library memes")
}

func TestNumericSelectionActivatesSound(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.watcher.fire(relayLines("2")...)

	require.Equal(t, []activation{{
		source: filepath.Join(f.root, "laugh.wav"),
		target: filepath.Join(f.game.Path, "voice_input.wav"),
	}}, f.activator.activations())
	require.Contains(t, f.out.String(), "loaded laugh\n")
}

func TestZeroAtRootIsIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)
	before := f.script(t, script.BrowseFile)

	f.watcher.fire(relayLines("0")...)

	require.Empty(t, f.activator.activations())
	require.Equal(t, before, f.script(t, script.BrowseFile))
	require.True(t, s.View().AtRoot)
	require.Equal(t, 2, s.Budget())
}

func TestOutOfRangeIndexIsIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)

	f.watcher.fire(relayLines("9")...)
	f.watcher.fire(`bind "KP_HOME" "1"`)
	f.watcher.fire(relayLines("99999999999999999999")...)

	require.Empty(t, f.activator.activations())
	require.True(t, s.View().AtRoot)
	require.NotContains(t, f.out.String(), "not found")
}

func TestDescendThenAscendRestoresListing(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)
	rootList := f.script(t, script.ListFile)

	f.watcher.fire(relayLines("1")...)
	require.Equal(t, "echo 0. /..\necho 1. shot\n", f.script(t, script.ListFile))
	require.Equal(t, "weapons", s.View().Dir)
	require.Equal(t, 2, s.Budget())
	browse := f.script(t, script.BrowseFile)
	require.True(t, strings.HasPrefix(browse, "alias 0\nalias 1\nalias 2\n"), "browse must clear the root aliases first:\n%s", browse)

	f.watcher.fire(relayLines("1")...)
	require.Equal(t, []activation{{
		source: filepath.Join(f.root, "weapons", "shot.wav"),
		target: filepath.Join(f.game.Path, "voice_input.wav"),
	}}, f.activator.activations())

	f.watcher.fire(relayLines("0")...)
	require.Equal(t, rootList, f.script(t, script.ListFile))
	require.True(t, s.View().AtRoot)
	require.Contains(t, f.out.String(), "entered weapons\n")
	require.Contains(t, f.out.String(), "went up one level\n")
}

func TestKeywordSelectionIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	keywords := NewKeywordMap(f.root, map[string]string{"lol": "weapons/shot"})
	f.start(t, func(o *Options) { o.Keywords = keywords })

	require.Equal(t, "echo lol: weapons/shot.wav\n", f.script(t, script.KeywordListFile))
	require.Contains(t, f.script(t, script.BrowseFile), `alias lol "bind KP_END lol;`)

	f.watcher.fire(`bind "kp_end" "LOL"`)
	f.watcher.fire(`bind "KP_END" "lol"`)
	want := activation{
		source: filepath.Join(f.root, "weapons", "shot.wav"),
		target: filepath.Join(f.game.Path, "voice_input.wav"),
	}
	require.Equal(t, []activation{want, want}, f.activator.activations())

	f.watcher.fire(relayLines("nope")...)
	require.Len(t, f.activator.activations(), 2)
	require.Contains(t, f.out.String(), `keyword "nope" not found`)
}

func TestListAnnotatesKeywords(t *testing.T) {
	f := newFixture(t)
	keywords := NewKeywordMap(f.root, map[string]string{"haha": "laugh"})
	f.start(t, func(o *Options) { o.Keywords = keywords })

	require.Equal(t, "echo 1. /weapons\necho 2. laugh (haha)\n", f.script(t, script.ListFile))
}

func TestRenderFailureKeepsCursorInPlace(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)
	rootList := f.script(t, script.ListFile)
	browsePath := filepath.Join(f.game.CfgPath, script.BrowseFile)
	require.NoError(t, os.Remove(browsePath))
	require.NoError(t, os.Mkdir(browsePath, 0o755))

	f.watcher.fire(relayLines("1")...)
	require.True(t, s.View().AtRoot)
	require.Equal(t, "", s.View().Dir)
	require.Equal(t, rootList, f.script(t, script.ListFile))
	require.NotContains(t, f.out.String(), "entered weapons")

	// The same pick against the visible menu still enters the directory once
	// the browse script is writable again.
	require.NoError(t, os.Remove(browsePath))
	f.watcher.fire(relayLines("1")...)
	require.Equal(t, "weapons", s.View().Dir)
	require.Empty(t, f.activator.activations())
	require.Equal(t, "echo 0. /..\necho 1. shot\n", f.script(t, script.ListFile))
}

func TestListWriteFailureRestoresBrowseScript(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)
	listPath := filepath.Join(f.game.CfgPath, script.ListFile)
	require.NoError(t, os.Remove(listPath))
	require.NoError(t, os.Mkdir(listPath, 0o755))

	f.watcher.fire(relayLines("1")...)
	require.True(t, s.View().AtRoot)
	browse := f.script(t, script.BrowseFile)
	require.Contains(t, browse, `alias 2 "bind KP_END 2; host_writeconfig sourcesound_relay.cfg; echo SourceSound: loaded laugh"`)

	f.watcher.fire(relayLines("2")...)
	require.Equal(t, []activation{{
		source: filepath.Join(f.root, "laugh.wav"),
		target: filepath.Join(f.game.Path, "voice_input.wav"),
	}}, f.activator.activations())
}

func TestRelayFileWithoutBindingAsksForNextWrite(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.watcher.mu.Lock()
	handler := f.watcher.handler
	f.watcher.mu.Unlock()
	require.False(t, handler([]string{"unbindall"}))
	require.True(t, handler(relayLines("0")))
}

func TestActivationFailureKeepsSessionRunning(t *testing.T) {
	f := newFixture(t)
	f.activator.err = errors.New("disk full")
	s := f.start(t)

	f.watcher.fire(relayLines("2")...)
	require.Len(t, f.activator.activations(), 1)
	require.NotContains(t, f.out.String(), "loaded laugh")

	f.watcher.fire(relayLines("1")...)
	require.Equal(t, "weapons", s.View().Dir)
}

func TestStopDeletesGeneratedFilesAndReleases(t *testing.T) {
	f := newFixture(t)
	s := f.start(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.game.CfgPath, script.RelayFile), []byte("bind \"KP_END\" \"1\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.game.CfgPath, "autoexec.cfg"), []byte("echo hi\n"), 0o644))

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	require.Equal(t, 1, f.watcher.stops)
	require.Equal(t, script.NoBudget, s.Budget())

	for _, name := range script.GeneratedFiles() {
		_, err := os.Stat(filepath.Join(f.game.CfgPath, name))
		require.True(t, os.IsNotExist(err), "%s should be deleted", name)
	}
	_, err := os.Stat(filepath.Join(f.game.CfgPath, "autoexec.cfg"))
	require.NoError(t, err, "unrelated files must survive Stop")

	// Events delivered after Stop are dropped.
	f.watcher.fire(relayLines("2")...)
	require.Empty(t, f.activator.activations())

	again, err := Start(context.Background(), f.options())
	require.NoError(t, err)
	require.NoError(t, again.Stop())
}

func TestSecondStartWhileActiveFails(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	_, err := Start(context.Background(), f.options())
	require.ErrorIs(t, err, ErrSessionActive)
}

func TestStartFailsOnMissingDirectories(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.LibraryRoot = filepath.Join(t.TempDir(), "absent")

	_, err := Start(context.Background(), opts)
	require.ErrorIs(t, err, preflight.ErrCheckFailed)
	require.Contains(t, err.Error(), "Library root")
	_, statErr := os.Stat(filepath.Join(f.game.CfgPath, script.MainFile))
	require.True(t, os.IsNotExist(statErr), "nothing may be written when Start fails")

	s, err := Start(context.Background(), f.options())
	require.NoError(t, err, "a failed Start must release the session slot")
	require.NoError(t, s.Stop())
}

func TestStartRejectsBadKeys(t *testing.T) {
	f := newFixture(t)
	for _, mutate := range []func(*Options){
		func(o *Options) { o.RelayKey = "" },
		func(o *Options) { o.TogglePlayKey = `"t"` },
		func(o *Options) { o.RelayKey = "T" },
	} {
		opts := f.options()
		mutate(&opts)
		_, err := Start(context.Background(), opts)
		require.Error(t, err)
	}
}

func TestWatcherStartFailureCleansUp(t *testing.T) {
	f := newFixture(t)
	f.watcher.startErr = errors.New("no inotify")

	_, err := Start(context.Background(), f.options())
	require.ErrorContains(t, err, "no inotify")
	_, statErr := os.Stat(filepath.Join(f.game.CfgPath, script.BrowseFile))
	require.True(t, os.IsNotExist(statErr))
}

func TestUserdataGamesWatchUserdata(t *testing.T) {
	f := newFixture(t)
	f.game.UseUserdata = true
	userdata := t.TempDir()

	_, err := Start(context.Background(), f.options())
	require.Error(t, err, "userdata games need a userdata path")

	relayDir := filepath.Join(userdata, "550", "local", "cfg")
	require.NoError(t, os.MkdirAll(relayDir, 0o755))
	s := f.start(t, func(o *Options) { o.UserdataPath = userdata })
	require.Equal(t, relayDir, s.RelayDir())
	require.Equal(t, relayDir, f.watcher.dir)

	require.NoError(t, os.WriteFile(filepath.Join(relayDir, script.RelayFile), []byte("x\n"), 0o644))
	require.NoError(t, s.Stop())
	_, statErr := os.Stat(filepath.Join(relayDir, script.RelayFile))
	require.True(t, os.IsNotExist(statErr))
}

func TestSessionWithPollWatcherAndFileActivator(t *testing.T) {
	f := newFixture(t)
	w := watch.NewPoll(watch.Options{Debounce: 20 * time.Millisecond, PollInterval: 10 * time.Millisecond, Logger: logging.NewNop()})
	f.start(t, func(o *Options) {
		o.Watcher = w
		o.Activator = nil
	})

	relayPath := filepath.Join(f.game.CfgPath, script.RelayFile)
	require.NoError(t, os.WriteFile(relayPath, []byte(strings.Join(relayLines("2"), "\n")+"\n"), 0o644))

	target := filepath.Join(f.game.Path, "voice_input.wav")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(target)
		return err == nil && string(data) == "laugh.wav"
	}, 2*time.Second, 10*time.Millisecond)
}
