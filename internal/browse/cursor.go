// Package browse tracks the virtual browsing position inside a sound library.
package browse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sourcesound/internal/script"
)

// ErrOutOfRange reports an index outside the current listing.
var ErrOutOfRange = errors.New("index out of range")

// Cursor is the single source of truth for the current directory under a
// library root and what can be selected there. The current directory never
// leaves the root.
type Cursor struct {
	root           string
	current        string
	subdirectories []string
	sounds         []string
	soundFiles     []string
}

// New returns a cursor positioned at root. Call Refresh before reading the
// listing.
func New(root string) *Cursor {
	cleaned := filepath.Clean(root)
	return &Cursor{root: cleaned, current: cleaned}
}

// Root returns the library root.
func (c *Cursor) Root() string { return c.root }

// Current returns the absolute current directory.
func (c *Cursor) Current() string { return c.current }

// AtRoot reports whether the cursor is at the library root.
func (c *Cursor) AtRoot() bool { return c.current == c.root }

// Subdirectories returns the subdirectory names in listing order.
func (c *Cursor) Subdirectories() []string { return append([]string(nil), c.subdirectories...) }

// Sounds returns the sound names, extension stripped, in listing order.
func (c *Cursor) Sounds() []string { return append([]string(nil), c.sounds...) }

// Reset moves the cursor back to the root and relists it.
func (c *Cursor) Reset() error {
	return c.moveTo(c.root)
}

// Refresh relists the current directory. On failure the previous listing is
// kept.
func (c *Cursor) Refresh() error {
	return c.moveTo(c.current)
}

// Ascend moves to the parent directory. It is a no-op at the root.
func (c *Cursor) Ascend() error {
	if c.AtRoot() {
		return nil
	}
	return c.moveTo(filepath.Dir(c.current))
}

// Descend enters the subdirectory at the 1-based index.
func (c *Cursor) Descend(index int) error {
	if index < 1 || index > len(c.subdirectories) {
		return fmt.Errorf("descend %d: %w", index, ErrOutOfRange)
	}
	return c.moveTo(filepath.Join(c.current, c.subdirectories[index-1]))
}

// SoundAt returns the absolute path of the sound at the 0-based index.
func (c *Cursor) SoundAt(index int) (string, error) {
	if index < 0 || index >= len(c.soundFiles) {
		return "", fmt.Errorf("sound %d: %w", index, ErrOutOfRange)
	}
	return filepath.Join(c.current, c.soundFiles[index]), nil
}

// Position is a saved directory and listing, taken with Mark.
type Position struct {
	current        string
	subdirectories []string
	sounds         []string
	soundFiles     []string
}

// Mark saves the current directory and listing.
func (c *Cursor) Mark() Position {
	return Position{
		current:        c.current,
		subdirectories: c.subdirectories,
		sounds:         c.sounds,
		soundFiles:     c.soundFiles,
	}
}

// Restore returns the cursor to a position saved by Mark without relisting.
func (c *Cursor) Restore(p Position) {
	if p.current == "" {
		return
	}
	c.current = p.current
	c.subdirectories = p.subdirectories
	c.sounds = p.sounds
	c.soundFiles = p.soundFiles
}

// View snapshots the listing for rendering.
func (c *Cursor) View() script.View {
	dir := ""
	if rel, err := filepath.Rel(c.root, c.current); err == nil && rel != "." {
		dir = filepath.ToSlash(rel)
	}
	return script.View{
		AtRoot:         c.AtRoot(),
		Dir:            dir,
		Subdirectories: c.Subdirectories(),
		Sounds:         c.Sounds(),
	}
}

func (c *Cursor) moveTo(dir string) error {
	if !within(c.root, dir) {
		return fmt.Errorf("%s is outside library root %s", dir, c.root)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	var subdirs, sounds, files []string
	for _, entry := range entries {
		name := entry.Name()
		if isDir(dir, entry) {
			subdirs = append(subdirs, name)
			continue
		}
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, script.SoundExtension) {
			continue
		}
		sounds = append(sounds, strings.TrimSuffix(name, ext))
		files = append(files, name)
	}

	c.current = dir
	c.subdirectories = subdirs
	c.sounds = sounds
	c.soundFiles = files
	return nil
}

func isDir(parent string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
