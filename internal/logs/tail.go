package logs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultFollowInterval is how often Follow checks the file for new lines.
const DefaultFollowInterval = 250 * time.Millisecond

// Chunk is a batch of lines together with the offset just past the last one.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Last returns up to n complete lines from the end of path. A missing file
// yields an empty chunk at offset zero.
func Last(path string, n int) (Chunk, error) {
	file, size, err := open(path)
	if err != nil || file == nil {
		return Chunk{}, err
	}
	defer file.Close()

	if n <= 0 {
		return Chunk{Offset: completeLength(file, size)}, nil
	}

	ring := make([]string, n)
	count, next := 0, 0
	offset, err := scanComplete(file, 0, func(line string) {
		ring[next] = line
		next = (next + 1) % n
		if count < n {
			count++
		}
	})
	if err != nil {
		return Chunk{}, err
	}

	lines := make([]string, 0, count)
	start := next - count
	if start < 0 {
		start += n
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%n])
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

// Since returns the complete lines written after offset. When the file is
// shorter than offset it was replaced, and reading restarts at zero.
func Since(path string, offset int64) (Chunk, error) {
	file, size, err := open(path)
	if err != nil {
		return Chunk{Offset: offset}, err
	}
	if file == nil {
		return Chunk{}, nil
	}
	defer file.Close()

	if offset < 0 || offset > size {
		offset = 0
	}
	var lines []string
	next, err := scanComplete(file, offset, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return Chunk{Offset: offset}, err
	}
	return Chunk{Lines: lines, Offset: next}, nil
}

// Follow delivers new lines after offset to fn until ctx is done or fn
// returns an error. Cancellation is not reported as an error.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, fn func([]string) error) error {
	if interval <= 0 {
		interval = DefaultFollowInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		chunk, err := Since(path, offset)
		if err != nil {
			return err
		}
		offset = chunk.Offset
		if len(chunk.Lines) > 0 {
			if err := fn(chunk.Lines); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}
	return file, info.Size(), nil
}

// scanComplete calls fn for each newline-terminated line starting at offset
// and returns the offset after the last one.
func scanComplete(file *os.File, offset int64, fn func(string)) (int64, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		fn(string(bytes.TrimRight(line, "\r\n")))
	}
}

func completeLength(file *os.File, size int64) int64 {
	offset, err := scanComplete(file, 0, func(string) {})
	if err != nil {
		return size
	}
	return offset
}
