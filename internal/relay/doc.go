// Package relay runs the request/response loop between SourceSound and a
// running game.
//
// A Session writes the main, browse, list, and keyword-list scripts into the
// game's script directory and then watches for the relay file the game writes
// with host_writeconfig. Each relay file carries one selection token. Resolve
// maps the token onto the current browse position as an ascend, a descend, or
// a sound activation; the session applies it, re-renders the browse and list
// scripts when the position changed, and otherwise copies the chosen sound
// into the game's voice_input.wav.
//
// All trigger handling happens on the watcher goroutine. Stop waits for that
// goroutine before it deletes the generated scripts, so no script write can
// race the cleanup.
package relay
