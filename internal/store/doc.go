// Package store persists the games, sound libraries, and keyword bindings a
// relay session is built from.
//
// The store is a single SQLite database (modernc.org/sqlite, no cgo) under the
// configured data directory. The schema is embedded and versioned; a database
// created by an incompatible build is rejected with ErrSchemaMismatch rather
// than migrated in place. Writes retry briefly on SQLITE_BUSY so the CLI can
// edit keywords while a session holds the database open.
package store
