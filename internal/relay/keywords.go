package relay

import (
	"path"
	"path/filepath"
	"sort"

	"sourcesound/internal/script"
	"sourcesound/internal/store"
)

// KeywordMap resolves keywords to sounds under one library root. Keys are
// case folded on construction and on lookup. A nil *KeywordMap is empty.
type KeywordMap struct {
	root   string
	sounds map[string]string
	byRel  map[string]string
}

// NewKeywordMap builds a map from keyword to sound path relative to root,
// slash separated and without extension.
func NewKeywordMap(root string, entries map[string]string) *KeywordMap {
	m := &KeywordMap{
		root:   root,
		sounds: make(map[string]string, len(entries)),
		byRel:  make(map[string]string, len(entries)),
	}
	for keyword, rel := range entries {
		folded := store.FoldKeyword(keyword)
		if folded == "" {
			continue
		}
		rel = path.Clean(rel)
		m.sounds[folded] = rel
		if existing, ok := m.byRel[rel]; !ok || folded < existing {
			m.byRel[rel] = folded
		}
	}
	return m
}

// Len returns the number of keywords.
func (m *KeywordMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.sounds)
}

// Lookup returns the absolute sound path and the relative sound name bound
// to keyword.
func (m *KeywordMap) Lookup(keyword string) (abs, rel string, ok bool) {
	if m == nil {
		return "", "", false
	}
	rel, ok = m.sounds[store.FoldKeyword(keyword)]
	if !ok {
		return "", "", false
	}
	return filepath.Join(m.root, filepath.FromSlash(rel)) + script.SoundExtension, rel, true
}

// KeywordFor returns the keyword bound to the sound at rel, or "" when none
// is. When several keywords share a sound the alphabetically first wins.
func (m *KeywordMap) KeywordFor(rel string) string {
	if m == nil {
		return ""
	}
	return m.byRel[path.Clean(rel)]
}

// Entries returns every binding sorted by keyword. Sounds carry their file
// extension.
func (m *KeywordMap) Entries() []script.Keyword {
	if m == nil {
		return nil
	}
	entries := make([]script.Keyword, 0, len(m.sounds))
	for keyword, rel := range m.sounds {
		entries = append(entries, script.Keyword{Name: keyword, Sound: rel + script.SoundExtension})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
