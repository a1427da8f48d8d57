package relay

import (
	"path"

	"sourcesound/internal/script"
)

// Action is what a selection token asks the session to do.
type Action int

const (
	ActionNone Action = iota
	ActionAscend
	ActionDescend
	ActionActivate
	ActionUnknownKeyword
)

func (a Action) String() string {
	switch a {
	case ActionAscend:
		return "ascend"
	case ActionDescend:
		return "descend"
	case ActionActivate:
		return "activate"
	case ActionUnknownKeyword:
		return "unknown_keyword"
	default:
		return "none"
	}
}

// Decision is the outcome of resolving one token.
//
// For ActionDescend Index is the 1-based subdirectory index. For
// ActionActivate selected from the listing Index is the 0-based sound index
// and Path is empty; for a keyword activation Path is the absolute sound
// file. Name is the entry name shown to the user.
type Decision struct {
	Action Action
	Index  int
	Name   string
	Path   string
}

// Resolve maps tok onto the listing in view. Indexes outside the listing and
// 0 at the library root resolve to ActionNone.
func Resolve(tok script.Token, view script.View, keywords *KeywordMap) Decision {
	switch tok.Kind {
	case script.TokenNumeric:
		return resolveIndex(tok.Index, view)
	case script.TokenKeyword:
		abs, rel, ok := keywords.Lookup(tok.Keyword)
		if !ok {
			return Decision{Action: ActionUnknownKeyword, Name: tok.Keyword}
		}
		return Decision{Action: ActionActivate, Name: path.Base(rel), Path: abs}
	default:
		return Decision{}
	}
}

func resolveIndex(index uint, view script.View) Decision {
	subdirs := uint(len(view.Subdirectories))
	sounds := uint(len(view.Sounds))
	switch {
	case index == 0:
		if view.AtRoot {
			return Decision{}
		}
		return Decision{Action: ActionAscend}
	case index <= subdirs:
		i := int(index)
		return Decision{Action: ActionDescend, Index: i, Name: view.Subdirectories[i-1]}
	case index-subdirs <= sounds:
		i := int(index - subdirs - 1)
		return Decision{Action: ActionActivate, Index: i, Name: view.Sounds[i]}
	default:
		return Decision{}
	}
}
