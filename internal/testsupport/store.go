package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sourcesound/internal/config"
	"sourcesound/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// PutGame stores a game whose content and cfg directories live under the
// test base directory and exist on disk.
func PutGame(t testing.TB, st *store.Store, cfg *config.Config, preset store.Preset) store.Game {
	t.Helper()

	root := filepath.Join(BaseDir(cfg), "games", preset.Key)
	game := preset.Game(root, filepath.Join(root, "cfg"))
	for _, dir := range []string{game.Path, game.CfgPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if cfg.Paths.UserdataDir != "" {
		relayDir, err := game.RelayDir(cfg.Paths.UserdataDir)
		if err != nil {
			t.Fatalf("relay dir: %v", err)
		}
		if err := os.MkdirAll(relayDir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", relayDir, err)
		}
	}
	stored, err := st.PutGame(context.Background(), game)
	if err != nil {
		t.Fatalf("store.PutGame: %v", err)
	}
	return stored
}
