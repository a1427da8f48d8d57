package script

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TokenKind distinguishes the two selection forms a relay file can carry.
type TokenKind int

const (
	TokenNumeric TokenKind = iota + 1
	TokenKeyword
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumeric:
		return "numeric"
	case TokenKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Token is a selection recovered from a relay file: a menu index or a keyword.
type Token struct {
	Kind    TokenKind
	Index   uint
	Keyword string
}

// NumericToken builds an index selection.
func NumericToken(n uint) Token {
	return Token{Kind: TokenNumeric, Index: n}
}

// KeywordToken builds a keyword selection.
func KeywordToken(s string) Token {
	return Token{Kind: TokenKeyword, Keyword: s}
}

func (t Token) String() string {
	if t.Kind == TokenNumeric {
		return strconv.FormatUint(uint64(t.Index), 10)
	}
	return t.Keyword
}

// ParseRelay scans the lines of a relay file for the first binding of
// relayKey and returns the bound token. The key comparison ignores case
// because the game writes key names upper-cased. ok is false when no line
// binds relayKey.
func ParseRelay(lines []string, relayKey string) (Token, bool) {
	pattern, err := relayPattern(relayKey)
	if err != nil {
		return Token{}, false
	}
	for _, line := range lines {
		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		return classify(match[1]), true
	}
	return Token{}, false
}

func relayPattern(relayKey string) (*regexp.Regexp, error) {
	key := strings.TrimSpace(relayKey)
	if key == "" {
		return nil, fmt.Errorf("relay key is empty")
	}
	return regexp.Compile(`^\s*bind "(?i:` + regexp.QuoteMeta(key) + `)" "([^"]+)"\s*$`)
}

// classify treats any all-digit token as an index. Indexes too large for a
// uint saturate to math.MaxUint, which no listing can reach.
func classify(raw string) Token {
	if isDigits(raw) {
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			return NumericToken(math.MaxUint)
		}
		return NumericToken(uint(n))
	}
	return KeywordToken(strings.TrimSpace(raw))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
