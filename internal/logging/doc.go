// Package logging builds the slog loggers used by the CLI and relay sessions.
//
// It owns the console and JSON handlers, the standard field keys that every
// component tags its records with, and the WarnWithContext/ErrorWithContext
// helpers that keep warning records actionable (what happened, what it means
// for the user, what to check next). The console handler prints the session
// attributes (game, library, session id) as a compact scope after the
// component name. A no-op logger is provided for tests and for wiring code
// that runs before configuration is known.
package logging
