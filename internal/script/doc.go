// Package script renders the console scripts a running game executes and
// parses the relay file the game writes back.
//
// The generated artifacts form one half of the relay protocol: the browse
// script binds numeric and keyword aliases that, when typed in the console,
// rebind the relay key and ask the game to dump its bindings with
// host_writeconfig. The other half is ParseRelay, which recovers the selected
// token from that dump. Rendering is pure; only WriteFile touches disk.
package script
