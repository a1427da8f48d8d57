// Package logs reads session log files for the CLI.
//
// Last returns the final lines of a log and Since the lines appended after a
// byte offset. Follow polls with Since until its context ends, so
// `sourcesound logs --follow` can watch a running session from another
// terminal. Only complete lines are returned; a line still being written is
// picked up on the next read.
package logs
