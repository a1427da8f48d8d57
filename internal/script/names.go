package script

// Script file names. The main script references the browse, list, and keyword
// list scripts by these exact names, so they must stay in sync.
const (
	MainFile        = "sourcesound.cfg"
	BrowseFile      = "sourcesound_browse.cfg"
	ListFile        = "sourcesound_list.cfg"
	KeywordListFile = "sourcesound_listkeywords.cfg"
	RelayFile       = "sourcesound_relay.cfg"
)

// Console alias names defined by the main script.
const (
	ListAlias        = "la"
	KeywordListAlias = "lk"
	StartAlias       = "sourcesound_start"
	StopAlias        = "sourcesound_stop"
	ToggleAlias      = "sourcesound_toggle"
)

// Title prefixes every echo the browse script prints.
const Title = "SourceSound"

// SoundExtension is the only file type the game can play back from file.
const SoundExtension = ".wav"

// GeneratedFiles lists every file a session may leave in the script directory.
func GeneratedFiles() []string {
	return []string{MainFile, BrowseFile, ListFile, KeywordListFile, RelayFile}
}
