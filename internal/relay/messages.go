package relay

import "fmt"

// Messages formats the notices a session prints for the user. Implementations
// must be safe to call from the watcher goroutine.
type Messages interface {
	Started(game, library string) string
	Stopped() string
	WentUp() string
	Entered(name string) string
	Loaded(name string) string
	KeywordNotFound(keyword string) string
}

// EnglishMessages is the default Messages implementation.
type EnglishMessages struct{}

func (EnglishMessages) Started(game, library string) string {
	return fmt.Sprintf("relay started for %s with library %s; exec sourcesound in the game console", game, library)
}

func (EnglishMessages) Stopped() string { return "relay stopped" }

func (EnglishMessages) WentUp() string { return "went up one level" }

func (EnglishMessages) Entered(name string) string { return "entered " + name }

func (EnglishMessages) Loaded(name string) string { return "loaded " + name }

func (EnglishMessages) KeywordNotFound(keyword string) string {
	return fmt.Sprintf("keyword %q not found", keyword)
}
