package main

import (
	"path/filepath"
	"testing"
)

func TestGameAddListRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	gameDir := filepath.Join(env.baseDir, "steam", "csgo")

	out, _, err := runCLI(t, []string{"game", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("game list: %v", err)
	}
	requireContains(t, out, "No games configured")

	out, _, err = runCLI(t, []string{"game", "add", "csgo", "--path", gameDir}, env.configPath)
	if err != nil {
		t.Fatalf("game add: %v", err)
	}
	requireContains(t, out, "Saved game 730 (Counter-Strike: Global Offensive)")

	out, _, err = runCLI(t, []string{"game", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("game list: %v", err)
	}
	requireContains(t, out, "730")
	requireContains(t, out, "22050")
	requireContains(t, out, filepath.Join(gameDir, "cfg"))

	out, _, err = runCLI(t, []string{"game", "remove", "csgo"}, env.configPath)
	if err != nil {
		t.Fatalf("game remove: %v", err)
	}
	requireContains(t, out, "Removed game 730")

	if _, _, err := runCLI(t, []string{"game", "remove", "730"}, env.configPath); err == nil {
		t.Fatal("expected removing an absent game to fail")
	}
}

func TestGameAddCustomRequiresRateAndName(t *testing.T) {
	env := setupCLITestEnv(t)
	gameDir := filepath.Join(env.baseDir, "steam", "tf")

	if _, _, err := runCLI(t, []string{"game", "add", "440", "--path", gameDir, "--name", "Team Fortress 2"}, env.configPath); err == nil {
		t.Fatal("expected missing rate to be rejected")
	}
	if _, _, err := runCLI(t, []string{"game", "add", "440", "--path", gameDir, "--rate", "22050"}, env.configPath); err == nil {
		t.Fatal("expected missing name to be rejected")
	}
	if _, _, err := runCLI(t, []string{"game", "add", "440", "--path", gameDir, "--name", "TF2", "--rate", "44100"}, env.configPath); err == nil {
		t.Fatal("expected unsupported rate to be rejected")
	}
	if _, _, err := runCLI(t, []string{"game", "add", "csgo"}, env.configPath); err == nil {
		t.Fatal("expected missing --path to be rejected")
	}

	out, _, err := runCLI(t, []string{"game", "add", "440",
		"--path", gameDir,
		"--cfg-path", filepath.Join(gameDir, "custom", "cfg"),
		"--name", "TF2",
		"--rate", "11025",
	}, env.configPath)
	if err != nil {
		t.Fatalf("game add: %v", err)
	}
	requireContains(t, out, "Saved game 440 (TF2)")

	out, _, err = runCLI(t, []string{"game", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("game list: %v", err)
	}
	requireContains(t, out, filepath.Join(gameDir, "custom", "cfg"))
	requireContains(t, out, "11025")
}

func TestGameAddPresetOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	gameDir := filepath.Join(env.baseDir, "steam", "left4dead2")

	if _, _, err := runCLI(t, []string{"game", "add", "l4d2", "--path", gameDir, "--rate", "22050", "--name", "L4D2"}, env.configPath); err != nil {
		t.Fatalf("game add: %v", err)
	}
	out, _, err := runCLI(t, []string{"game", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("game list: %v", err)
	}
	requireContains(t, out, "L4D2")
	requireContains(t, out, "22050")
	requireNotContains(t, out, "Left 4 Dead 2")
}
