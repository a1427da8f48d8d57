package main

import (
	"os"
	"path/filepath"
	"testing"

	"sourcesound/internal/catalog"
	"sourcesound/internal/testsupport"
)

func TestLibraryLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "No libraries")

	out, _, err = runCLI(t, []string{"library", "add", "memes"}, env.configPath)
	if err != nil {
		t.Fatalf("library add: %v", err)
	}
	requireContains(t, out, "Created library memes")
	for _, rate := range catalog.SampleRates() {
		if info, err := os.Stat(env.catalog.RateDir("memes", rate)); err != nil || !info.IsDir() {
			t.Fatalf("expected rate directory %d: %v", rate, err)
		}
	}

	testsupport.WriteFile(t, filepath.Join(env.catalog.BaseDir("memes"), "laugh.mp3"), 2048)
	testsupport.WriteFile(t, filepath.Join(env.catalog.BaseDir("memes"), "weapons", "shot.wav"), 10)
	testsupport.WriteFile(t, filepath.Join(env.catalog.RateDir("memes", catalog.Rate22050), "laugh.wav"), 10)

	out, _, err = runCLI(t, []string{"library", "sounds", "memes"}, env.configPath)
	if err != nil {
		t.Fatalf("library sounds: %v", err)
	}
	requireContains(t, out, "laugh")
	requireContains(t, out, "mp3")
	requireContains(t, out, "2.0 kB")
	requireContains(t, out, "22050")
	requireContains(t, out, "weapons/shot")

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "memes")

	out, _, err = runCLI(t, []string{"library", "rename", "memes", "jokes"}, env.configPath)
	if err != nil {
		t.Fatalf("library rename: %v", err)
	}
	requireContains(t, out, "Renamed library memes to jokes")
	if _, err := os.Stat(env.catalog.BaseDir("jokes")); err != nil {
		t.Fatalf("expected renamed directory: %v", err)
	}
	if _, err := os.Stat(env.catalog.LibraryDir("memes")); !os.IsNotExist(err) {
		t.Fatalf("expected old directory to be gone, got %v", err)
	}

	out, _, err = runCLI(t, []string{"library", "remove", "jokes"}, env.configPath)
	if err != nil {
		t.Fatalf("library remove: %v", err)
	}
	requireContains(t, out, "files remain")
	if _, err := os.Stat(env.catalog.BaseDir("jokes")); err != nil {
		t.Fatalf("expected files to be kept without --purge: %v", err)
	}
}

func TestLibraryRemovePurge(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"library", "add", "memes"}, env.configPath); err != nil {
		t.Fatalf("library add: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(env.catalog.BaseDir("memes"), "laugh.wav"), 10)

	if _, _, err := runCLI(t, []string{"library", "remove", "memes", "--purge"}, env.configPath); err != nil {
		t.Fatalf("library remove --purge: %v", err)
	}
	if _, err := os.Stat(env.catalog.LibraryDir("memes")); !os.IsNotExist(err) {
		t.Fatalf("expected library directory to be deleted, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"library", "sounds", "memes"}, env.configPath); err == nil {
		t.Fatal("expected sounds of a removed library to fail")
	}
}

func TestLibraryRenameRevertsWhenTargetDirectoryExists(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"library", "add", "memes"}, env.configPath); err != nil {
		t.Fatalf("library add: %v", err)
	}
	if err := os.MkdirAll(env.catalog.LibraryDir("jokes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, _, err := runCLI(t, []string{"library", "rename", "memes", "jokes"}, env.configPath); err == nil {
		t.Fatal("expected rename onto an existing directory to fail")
	}
	out, _, err := runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "memes")
	requireNotContains(t, out, "jokes")
}

func TestLibraryAddRejectsBadName(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"library", "add", "../escape"}, env.configPath); err == nil {
		t.Fatal("expected path-like library name to be rejected")
	}
}
