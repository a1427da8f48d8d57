package store

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"

	"sourcesound/internal/script"
)

// ErrInvalidKeyword reports a keyword that cannot be used as a console alias.
var ErrInvalidKeyword = errors.New("invalid keyword")

// FoldKeyword returns the case-folded form used for storage and lookup.
func FoldKeyword(keyword string) string {
	return cases.Fold().String(strings.TrimSpace(keyword))
}

// NormalizeKeyword folds keyword and rejects names the browse script cannot
// alias: empty names, names made only of digits (those are listing indexes),
// names containing console separators, and the aliases the main script
// defines itself.
func NormalizeKeyword(keyword string) (string, error) {
	folded := FoldKeyword(keyword)
	switch {
	case folded == "":
		return "", fmt.Errorf("%w: keyword is empty", ErrInvalidKeyword)
	case strings.Trim(folded, "0123456789") == "":
		return "", fmt.Errorf("%w: %q is numeric and would shadow a listing index", ErrInvalidKeyword, keyword)
	case strings.ContainsAny(folded, " \t\r\n\";"):
		return "", fmt.Errorf("%w: %q must not contain whitespace, quotes, or semicolons", ErrInvalidKeyword, keyword)
	}
	for _, reserved := range []string{script.ListAlias, script.KeywordListAlias, script.StartAlias, script.StopAlias, script.ToggleAlias} {
		if folded == reserved {
			return "", fmt.Errorf("%w: %q is reserved", ErrInvalidKeyword, keyword)
		}
	}
	return folded, nil
}

// NormalizeSoundPath cleans a sound reference to the stored form: slash
// separated, relative to the library, without the .wav extension.
func NormalizeSoundPath(sound string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(strings.TrimSpace(sound), "\\", "/"))
	if ext := path.Ext(cleaned); strings.EqualFold(ext, script.SoundExtension) {
		cleaned = strings.TrimSuffix(cleaned, ext)
	}
	if cleaned == "." || cleaned == "" || path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("sound path %q must be relative to the library", sound)
	}
	return cleaned, nil
}
