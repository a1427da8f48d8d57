package main

import (
	"context"
	"fmt"
	"testing"

	"sourcesound/internal/relay"
	"sourcesound/internal/store"
)

func TestErrorHint(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"session active", fmt.Errorf("%w: lock held", relay.ErrSessionActive), "Stop the other session"},
		{"not found", fmt.Errorf("game 730: %w", store.ErrNotFound), "sourcesound game list"},
		{"keyword", fmt.Errorf("%w: reserved", store.ErrInvalidKeyword), "single word"},
		{"other", context.DeadlineExceeded, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := errorHint(tc.err)
			if tc.want == "" {
				if got != "" {
					t.Fatalf("expected no hint, got %q", got)
				}
				return
			}
			requireContains(t, got, tc.want)
		})
	}
}
