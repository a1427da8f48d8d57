package main

import (
	"os"
	"path/filepath"
	"testing"

	"sourcesound/internal/sessionrun"
)

func TestLogsWithoutSession(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No session log yet")
}

func TestLogsPrintsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	runLog := filepath.Join(env.cfg.Paths.LogDir, "sourcesound-20261019T120000.000Z.log")
	if err := os.WriteFile(runLog, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if err := os.Symlink(runLog, sessionrun.CurrentLogPath(env.cfg)); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "two\nthree\n")
	requireNotContains(t, out, "one")
}
