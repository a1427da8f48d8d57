package store

import (
	"strconv"
	"strings"
)

// Preset is a known game with its Steam id, voice sample rate, and whether it
// writes configs under Steam userdata. Paths are machine specific and are
// supplied when the preset is added.
type Preset struct {
	Key         string
	ID          int64
	Name        string
	SoundsRate  int
	UseUserdata bool
}

var presets = []Preset{
	{Key: "csgo", ID: 730, Name: "Counter-Strike: Global Offensive", SoundsRate: 22050, UseUserdata: true},
	{Key: "l4d2", ID: 550, Name: "Left 4 Dead 2", SoundsRate: 11025},
}

// Presets returns the built-in game presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName finds a preset by key, Steam id, or full name.
func PresetByName(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Key, name) || strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	for _, p := range presets {
		if name == strconv.FormatInt(p.ID, 10) {
			return p, true
		}
	}
	return Preset{}, false
}

// Game builds a Game from the preset and the local install paths.
func (p Preset) Game(path, cfgPath string) Game {
	return Game{
		ID:          p.ID,
		Name:        p.Name,
		Path:        path,
		CfgPath:     cfgPath,
		UseUserdata: p.UseUserdata,
		SoundsRate:  p.SoundsRate,
	}
}
