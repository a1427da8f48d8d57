package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "laugh.wav")
	dst := filepath.Join(dir, "voice_input.wav")

	content := []byte("RIFF....WAVEfmt ")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("a much longer previous sound payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFile(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(content)) {
		t.Fatalf("written = %d, want %d", n, len(content))
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CopyFileMode(src, dst, 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("expected owner-only permissions, got %o", info.Mode().Perm())
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(err) {
		t.Fatal("destination must not be created when the source is missing")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sourcesound.cfg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	existed, err := RemoveIfExists(path)
	if err != nil || !existed {
		t.Fatalf("first remove: existed=%v err=%v", existed, err)
	}
	existed, err = RemoveIfExists(path)
	if err != nil || existed {
		t.Fatalf("second remove: existed=%v err=%v", existed, err)
	}
}
