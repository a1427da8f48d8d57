// Package preflight provides readiness checks for the filesystem paths a
// relay session and the CLI depend on.
//
// These checks run in two contexts:
//   - relay.Start refuses to start a session when the script directory,
//     library root, content directory, or relay watch directory fails a check,
//     so configuration errors surface before any script is written.
//   - The CLI "config validate" command prints every check as a table.
package preflight
