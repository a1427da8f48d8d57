package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Library is a named sound collection with its keyword bindings. Keywords map
// the folded keyword to a sound path relative to the library without
// extension.
type Library struct {
	Name      string
	Keywords  map[string]string
	CreatedAt time.Time
}

// SortedKeywords returns the keyword names in ascending order.
func (l Library) SortedKeywords() []string {
	names := make([]string, 0, len(l.Keywords))
	for name := range l.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateLibraryName rejects names that cannot serve as a directory name.
func ValidateLibraryName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return errors.New("library name is required")
	case trimmed != name:
		return fmt.Errorf("library name %q has surrounding whitespace", name)
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("library name %q is not allowed", name)
	case strings.ContainsAny(trimmed, `/\:*?"<>|`):
		return fmt.Errorf("library name %q contains a path separator or reserved character", name)
	}
	return nil
}

// PutLibrary creates a library if it does not exist yet.
func (s *Store) PutLibrary(ctx context.Context, name string) (Library, error) {
	if err := ValidateLibraryName(name); err != nil {
		return Library{}, err
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO libraries (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, timestamp(),
	); err != nil {
		return Library{}, fmt.Errorf("put library %q: %w", name, err)
	}
	return s.Library(ctx, name)
}

// Library fetches a library together with its keywords.
func (s *Store) Library(ctx context.Context, name string) (Library, error) {
	ctx = ensureContext(ctx)
	var createdRaw string
	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM libraries WHERE name = ?`, name).Scan(&createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Library{}, fmt.Errorf("library %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Library{}, fmt.Errorf("get library %q: %w", name, err)
	}
	keywords, err := s.keywords(ctx, name)
	if err != nil {
		return Library{}, err
	}
	return Library{Name: name, Keywords: keywords, CreatedAt: parseTime(createdRaw)}, nil
}

// Libraries lists every library ordered by name.
func (s *Store) Libraries(ctx context.Context) ([]Library, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT name, created_at FROM libraries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	var libs []Library
	for rows.Next() {
		var lib Library
		var createdRaw string
		if err := rows.Scan(&lib.Name, &createdRaw); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan library: %w", err)
		}
		lib.CreatedAt = parseTime(createdRaw)
		libs = append(libs, lib)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Single connection: keyword queries must run after the listing is closed.
	for i := range libs {
		keywords, err := s.keywords(ctx, libs[i].Name)
		if err != nil {
			return nil, err
		}
		libs[i].Keywords = keywords
	}
	return libs, nil
}

// DeleteLibrary removes a library and its keywords. Files on disk are left to
// the caller.
func (s *Store) DeleteLibrary(ctx context.Context, name string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM libraries WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete library %q: %w", name, err)
	}
	return requireAffected(res, fmt.Sprintf("library %q", name))
}

// RenameLibrary changes a library's name, carrying its keywords along.
func (s *Store) RenameLibrary(ctx context.Context, from, to string) error {
	if err := ValidateLibraryName(to); err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx, `UPDATE libraries SET name = ? WHERE name = ?`, to, from)
	if err != nil {
		return fmt.Errorf("rename library %q to %q: %w", from, to, err)
	}
	return requireAffected(res, fmt.Sprintf("library %q", from))
}

// SetKeyword binds keyword to sound in library, replacing an existing binding
// of the same keyword. It returns the stored (folded) keyword.
func (s *Store) SetKeyword(ctx context.Context, library, keyword, sound string) (string, error) {
	folded, err := NormalizeKeyword(keyword)
	if err != nil {
		return "", err
	}
	rel, err := NormalizeSoundPath(sound)
	if err != nil {
		return "", err
	}
	if _, err := s.Library(ctx, library); err != nil {
		return "", err
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO keywords (library, keyword, sound) VALUES (?, ?, ?)
         ON CONFLICT(library, keyword) DO UPDATE SET sound = excluded.sound`,
		library, folded, rel,
	); err != nil {
		return "", fmt.Errorf("set keyword %q: %w", folded, err)
	}
	return folded, nil
}

// RemoveKeyword deletes one keyword binding.
func (s *Store) RemoveKeyword(ctx context.Context, library, keyword string) error {
	folded := FoldKeyword(keyword)
	res, err := s.execWithRetry(ctx, `DELETE FROM keywords WHERE library = ? AND keyword = ?`, library, folded)
	if err != nil {
		return fmt.Errorf("remove keyword %q: %w", folded, err)
	}
	return requireAffected(res, fmt.Sprintf("keyword %q in library %q", folded, library))
}

// PruneKeywords deletes every binding in library for which keep returns false
// and returns the removed keywords in sorted order.
func (s *Store) PruneKeywords(ctx context.Context, library string, keep func(keyword, sound string) bool) ([]string, error) {
	ctx = ensureContext(ctx)
	current, err := s.keywords(ctx, library)
	if err != nil {
		return nil, err
	}
	var removed []string
	for keyword, sound := range current {
		if keep(keyword, sound) {
			continue
		}
		if _, err := s.execWithRetry(ctx, `DELETE FROM keywords WHERE library = ? AND keyword = ?`, library, keyword); err != nil {
			return removed, fmt.Errorf("prune keyword %q: %w", keyword, err)
		}
		removed = append(removed, keyword)
	}
	sort.Strings(removed)
	return removed, nil
}

func (s *Store) keywords(ctx context.Context, library string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword, sound FROM keywords WHERE library = ?`, library)
	if err != nil {
		return nil, fmt.Errorf("list keywords for %q: %w", library, err)
	}
	defer rows.Close()

	keywords := make(map[string]string)
	for rows.Next() {
		var keyword, sound string
		if err := rows.Scan(&keyword, &sound); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords[keyword] = sound
	}
	return keywords, rows.Err()
}
