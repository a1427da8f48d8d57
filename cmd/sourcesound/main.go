package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sourcesound/internal/relay"
	"sourcesound/internal/store"
)

// Exit codes beyond the generic failure.
const (
	exitFailure       = 1
	exitSessionActive = 2
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	if errors.Is(err, relay.ErrSessionActive) {
		os.Exit(exitSessionActive)
	}
	os.Exit(exitFailure)
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, relay.ErrSessionActive):
		return "Stop the other session (Ctrl+C in its terminal) before starting a new one."
	case errors.Is(err, store.ErrNotFound):
		return "See 'sourcesound game list' and 'sourcesound library list' for what is configured."
	case errors.Is(err, store.ErrInvalidKeyword):
		return "Keywords must be a single word that is not a number or a SourceSound command."
	case errors.Is(err, store.ErrSchemaMismatch):
		return "The database was created by a different SourceSound version."
	}
	return ""
}
