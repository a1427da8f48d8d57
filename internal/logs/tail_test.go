package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sourcesound/internal/logs"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestLastReturnsFinalLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcesound.log")
	writeLog(t, path, "a\nb\nc\n")

	chunk, err := logs.Last(path, 2)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(chunk.Lines) != 2 || chunk.Lines[0] != "b" || chunk.Lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
	if chunk.Offset != 6 {
		t.Fatalf("expected offset 6, got %d", chunk.Offset)
	}

	chunk, err = logs.Last(path, 10)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(chunk.Lines) != 3 || chunk.Lines[0] != "a" {
		t.Fatalf("expected every line when n exceeds the file, got %#v", chunk.Lines)
	}
}

func TestLastSkipsPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcesound.log")
	writeLog(t, path, "done\nhalf")

	chunk, err := logs.Last(path, 5)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(chunk.Lines) != 1 || chunk.Lines[0] != "done" {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
	if chunk.Offset != 5 {
		t.Fatalf("expected offset before the partial line, got %d", chunk.Offset)
	}

	appendLog(t, path, "-written\n")
	next, err := logs.Since(path, chunk.Offset)
	if err != nil {
		t.Fatalf("Since returned error: %v", err)
	}
	if len(next.Lines) != 1 || next.Lines[0] != "half-written" {
		t.Fatalf("unexpected lines after completion: %#v", next.Lines)
	}
}

func TestLastZeroLinesPositionsAtEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcesound.log")
	writeLog(t, path, "a\nb\n")

	chunk, err := logs.Last(path, 0)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(chunk.Lines) != 0 || chunk.Offset != 4 {
		t.Fatalf("unexpected chunk %+v", chunk)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	if chunk, err := logs.Last(path, 3); err != nil || len(chunk.Lines) != 0 {
		t.Fatalf("Last on missing file: %+v %v", chunk, err)
	}
	if chunk, err := logs.Since(path, 10); err != nil || chunk.Offset != 0 {
		t.Fatalf("Since on missing file: %+v %v", chunk, err)
	}
}

func TestSinceRestartsAfterTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcesound.log")
	writeLog(t, path, "first run line one\nfirst run line two\n")
	writeLog(t, path, "second\n")

	chunk, err := logs.Since(path, 38)
	if err != nil {
		t.Fatalf("Since returned error: %v", err)
	}
	if len(chunk.Lines) != 1 || chunk.Lines[0] != "second" {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
}

func TestDirectoryIsRejected(t *testing.T) {
	if _, err := logs.Last(t.TempDir(), 1); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestFollowDeliversAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcesound.log")
	writeLog(t, path, "start\n")

	start, err := logs.Last(path, 0)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, start.Offset, 10*time.Millisecond, func(lines []string) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, lines...)
			if len(got) >= 2 {
				cancel()
			}
			return nil
		})
	}()

	time.Sleep(30 * time.Millisecond)
	appendLog(t, path, "later\n")
	appendLog(t, path, "again\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "later" || got[1] != "again" {
		t.Fatalf("unexpected followed lines: %#v", got)
	}
}
