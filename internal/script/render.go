package script

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// NoBudget marks the absence of a previous browse render.
const NoBudget = -1

const separatorWidth = 99

// View is the cursor snapshot a browse and list script pair is rendered from.
// Rendering both scripts from the same View keeps their numbering identical.
type View struct {
	// AtRoot reports whether the ascend entry (index 0) is withheld.
	AtRoot bool
	// Dir is the current directory relative to the library root using forward
	// slashes; empty at the root.
	Dir            string
	Subdirectories []string
	Sounds         []string
}

// SoundIndex returns the alias index of the sound at position i.
func (v View) SoundIndex(i int) int {
	return len(v.Subdirectories) + i + 1
}

// Keyword binds a console keyword to a sound path relative to the library root.
type Keyword struct {
	Name  string
	Sound string
}

// RenderMain returns the entry script the user execs once per session. It
// installs the list aliases, the self-rewriting playback toggle bound to
// togglePlayKey, and immediately loads the browse script.
func RenderMain(togglePlayKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "alias %s \"exec %s; exec %s\"\n", ListAlias, BrowseFile, ListFile)
	fmt.Fprintf(&b, "alias %s \"exec %s\"\n", KeywordListAlias, KeywordListFile)
	fmt.Fprintf(&b, "alias %s \"alias %s %s; voice_inputfromfile 1; voice_loopback 1; +voicerecord\"\n",
		StartAlias, ToggleAlias, StopAlias)
	fmt.Fprintf(&b, "alias %s \"alias %s %s; voice_inputfromfile 0; voice_loopback 0; -voicerecord\"\n",
		StopAlias, ToggleAlias, StartAlias)
	fmt.Fprintf(&b, "alias %s %s\n", ToggleAlias, StartAlias)
	fmt.Fprintf(&b, "bind %s %s\n", togglePlayKey, ToggleAlias)
	fmt.Fprintf(&b, "exec %s\n", BrowseFile)
	fmt.Fprintf(&b, "echo %s\n", strings.Repeat("=", separatorWidth))
	fmt.Fprintf(&b, "echo Welcome to %s! Use the following console commands to browse and select your audio tracks:\n", Title)
	fmt.Fprintf(&b, "echo %s: List audio in current directory. Type a number from the list to select it!\n", ListAlias)
	fmt.Fprintf(&b, "echo %s: List audio keywords. Type one of these to immediately select  its associated sound!\n", KeywordListAlias)
	return b.String()
}

// RenderBrowse returns the browse script for view and the alias budget the
// next render must clear. Every index in 0..budget is cleared first so that no
// alias from a longer previous listing survives. keywords are emitted in the
// order given.
func RenderBrowse(view View, relayKey string, keywords []Keyword, budget int) (string, int) {
	var b strings.Builder
	for i := 0; i <= budget; i++ {
		fmt.Fprintf(&b, "alias %d\n", i)
	}
	for _, kw := range keywords {
		writeRelayAlias(&b, kw.Name, relayKey, "loaded "+kw.Sound)
	}

	next := len(view.Subdirectories) + len(view.Sounds)
	if !view.AtRoot {
		writeRelayAlias(&b, "0", relayKey, "went up one level")
		next++
	}
	index := 1
	for _, dir := range view.Subdirectories {
		writeRelayAlias(&b, strconv.Itoa(index), relayKey, "entered "+dir)
		index++
	}
	for _, sound := range view.Sounds {
		writeRelayAlias(&b, strconv.Itoa(index), relayKey, "loaded "+sound)
		index++
	}
	return b.String(), next
}

func writeRelayAlias(b *strings.Builder, name, relayKey, notice string) {
	fmt.Fprintf(b, "alias %s \"bind %s %s; host_writeconfig %s; echo %s: %s\"\n",
		name, relayKey, name, RelayFile, Title, notice)
}

// RenderList returns the human-readable menu for view, numbered exactly like
// RenderBrowse. keywordFor maps a sound path relative to the library root
// (without extension) to its keyword, or "" when it has none. A nil keywordFor
// disables annotation.
func RenderList(view View, keywordFor func(sound string) string) string {
	var b strings.Builder
	if !view.AtRoot {
		b.WriteString("echo 0. /..\n")
	}
	index := 1
	for _, dir := range view.Subdirectories {
		fmt.Fprintf(&b, "echo %d. /%s\n", index, dir)
		index++
	}
	for _, sound := range view.Sounds {
		keyword := ""
		if keywordFor != nil {
			keyword = keywordFor(path.Join(view.Dir, sound))
		}
		if keyword == "" {
			fmt.Fprintf(&b, "echo %d. %s\n", index, sound)
		} else {
			fmt.Fprintf(&b, "echo %d. %s (%s)\n", index, sound, keyword)
		}
		index++
	}
	return b.String()
}

// RenderKeywordList returns one echo line per keyword in the order given.
func RenderKeywordList(keywords []Keyword) string {
	var b strings.Builder
	for _, kw := range keywords {
		fmt.Fprintf(&b, "echo %s: %s\n", kw.Name, kw.Sound)
	}
	return b.String()
}
