package logging

// Standard structured logging keys.
const (
	// FieldComponent names the subsystem emitting the record.
	FieldComponent = "component"
	// FieldEventType is a stable machine-readable name for the event.
	FieldEventType = "event_type"
	// FieldErrorHint tells the user what to check when something failed.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSessionID tags every record emitted during one relay session.
	FieldSessionID = "session_id"
	// FieldGameID is the Steam app id of the session's game.
	FieldGameID = "game_id"
	// FieldLibrary is the sound library name.
	FieldLibrary = "library"
)
