// Package catalog maps sound libraries onto the filesystem.
//
// A library named N lives under <libraries_dir>/N. Source files as the user
// imported them sit in N/base; converted copies the game can play sit in one
// directory per sample rate, e.g. N/22050. A relay session browses exactly one
// rate directory, so the same library serves games with different voice rates.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sourcesound/internal/logging"
	"sourcesound/internal/script"
	"sourcesound/internal/store"
)

// BaseDirName holds the unconverted sources of a library.
const BaseDirName = "base"

// Sample rates the supported games expect voice input in.
const (
	Rate11025 = 11025
	Rate22050 = 22050
)

// ImportableExtensions lists the source formats a library may hold in its
// base directory.
var ImportableExtensions = []string{".wav", ".mp3", ".ogg", ".wma", ".webm", ".m4a"}

// SampleRates returns the supported rates in ascending order.
func SampleRates() []int {
	return []int{Rate11025, Rate22050}
}

// ValidRate reports whether rate is one of SampleRates.
func ValidRate(rate int) bool {
	for _, r := range SampleRates() {
		if r == rate {
			return true
		}
	}
	return false
}

// Sound is one source file of a library.
type Sound struct {
	// Rel is the slash-separated path relative to the base directory without
	// extension; keywords refer to sounds by this value.
	Rel  string
	Ext  string
	Size int64
	// Rates lists the sample rates for which a converted .wav exists.
	Rates []int
}

// Catalog resolves library locations below one directory.
type Catalog struct {
	dir    string
	logger *slog.Logger
}

// New returns a catalog rooted at librariesDir.
func New(librariesDir string, logger *slog.Logger) *Catalog {
	return &Catalog{
		dir:    filepath.Clean(librariesDir),
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Dir returns the libraries directory.
func (c *Catalog) Dir() string { return c.dir }

// LibraryDir returns the directory of the named library.
func (c *Catalog) LibraryDir(name string) string {
	return filepath.Join(c.dir, name)
}

// BaseDir returns the directory holding a library's source files.
func (c *Catalog) BaseDir(name string) string {
	return filepath.Join(c.LibraryDir(name), BaseDirName)
}

// RateDir returns the directory holding a library's converted sounds for rate.
// It is the root a relay session browses.
func (c *Catalog) RateDir(name string, rate int) string {
	return filepath.Join(c.LibraryDir(name), strconv.Itoa(rate))
}

// EnsureDirectories creates the base directory and the directory for rate.
func (c *Catalog) EnsureDirectories(name string, rate int) error {
	if !ValidRate(rate) {
		return fmt.Errorf("unsupported sample rate %d", rate)
	}
	for _, dir := range []string{c.BaseDir(name), c.RateDir(name, rate)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Sounds walks the base directory of a library and returns every importable
// file sorted by Rel.
func (c *Catalog) Sounds(name string) ([]Sound, error) {
	base := c.BaseDir(name)
	var sounds []Sound
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == base && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if !importable(ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		sound := Sound{
			Rel:  strings.TrimSuffix(filepath.ToSlash(rel), ext),
			Ext:  strings.ToLower(ext),
			Size: info.Size(),
		}
		for _, rate := range SampleRates() {
			if fileExists(c.convertedPath(name, rate, sound.Rel)) {
				sound.Rates = append(sound.Rates, rate)
			}
		}
		sounds = append(sounds, sound)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sounds of %q: %w", name, err)
	}
	sort.Slice(sounds, func(i, j int) bool { return sounds[i].Rel < sounds[j].Rel })
	return sounds, nil
}

// KeywordMap resolves the library's keywords to converted sounds for rate.
// The result maps each keyword to its sound path relative to the rate
// directory, without extension. Keywords whose sound no longer exists are
// returned separately in sorted order so the caller can prune them.
func (c *Catalog) KeywordMap(lib store.Library, rate int) (map[string]string, []string) {
	resolved := make(map[string]string, len(lib.Keywords))
	var dropped []string
	for keyword, rel := range lib.Keywords {
		if !fileExists(c.convertedPath(lib.Name, rate, rel)) {
			dropped = append(dropped, keyword)
			continue
		}
		resolved[keyword] = rel
	}
	sort.Strings(dropped)
	if len(dropped) > 0 {
		c.logger.Info("keywords without a converted sound",
			logging.String(logging.FieldLibrary, lib.Name),
			logging.Int("rate", rate),
			logging.Any("keywords", dropped),
		)
	}
	return resolved, dropped
}

// HasSound reports whether rel exists in any form: as an importable source in
// the base directory or as a converted sound at any rate.
func (c *Catalog) HasSound(name, rel string) bool {
	rel = filepath.FromSlash(path.Clean(rel))
	for _, ext := range ImportableExtensions {
		if fileExists(filepath.Join(c.BaseDir(name), rel+ext)) {
			return true
		}
	}
	for _, rate := range SampleRates() {
		if fileExists(filepath.Join(c.RateDir(name, rate), rel+script.SoundExtension)) {
			return true
		}
	}
	return false
}

// Rename moves a library directory. A library without a directory yet is
// not an error.
func (c *Catalog) Rename(from, to string) error {
	src := c.LibraryDir(from)
	dst := c.LibraryDir(to)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("library directory %s already exists", dst)
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("rename library directory: %w", err)
	}
	return nil
}

// Remove deletes a library directory and everything in it.
func (c *Catalog) Remove(name string) error {
	if err := os.RemoveAll(c.LibraryDir(name)); err != nil {
		return fmt.Errorf("remove library directory: %w", err)
	}
	return nil
}

func (c *Catalog) convertedPath(name string, rate int, rel string) string {
	return filepath.Join(c.RateDir(name, rate), filepath.FromSlash(path.Clean(rel))+script.SoundExtension)
}

func importable(ext string) bool {
	for _, candidate := range ImportableExtensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
