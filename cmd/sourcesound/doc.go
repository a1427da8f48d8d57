// Package main hosts the SourceSound CLI entrypoint and command graph.
//
// The Cobra command tree manages the games and sound libraries kept in the
// local store, binds keywords to sounds, and runs a relay session in the
// foreground with `sourcesound run`. Configuration is resolved once per
// invocation and shared by every subcommand through commandContext.
package main
