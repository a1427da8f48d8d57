package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"sourcesound/internal/sessionrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		gameRef    string
		library    string
		toggleKey  string
		relayKey   string
		watcher    string
		logLevel   string
		logConsole bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a relay session in the foreground until interrupted",
		Long: `Write the SourceSound scripts into the game's cfg directory and relay
selections until Ctrl+C. In the game console run "exec sourcesound" once, then
"la" to list sounds and a number or keyword to select one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(gameRef) == "" || strings.TrimSpace(library) == "" {
				return errors.New("--game and --library are required")
			}
			gameID, err := parseGameRef(gameRef)
			if err != nil {
				return err
			}
			return sessionrun.Run(cmd.Context(), cfg, sessionrun.Options{
				GameID:        gameID,
				Library:       library,
				TogglePlayKey: toggleKey,
				RelayKey:      relayKey,
				Watcher:       watcher,
				LogLevel:      logLevel,
				LogToConsole:  logConsole,
				Output:        cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&gameRef, "game", "g", "", "Game Steam app id or preset name")
	cmd.Flags().StringVarP(&library, "library", "l", "", "Sound library to browse")
	cmd.Flags().StringVar(&toggleKey, "toggle-key", "", "Key that starts and stops playback (overrides keys.toggle_play)")
	cmd.Flags().StringVar(&relayKey, "relay-key", "", "Key rebound to relay selections (overrides keys.relay)")
	cmd.Flags().StringVar(&watcher, "watcher", "", "Relay watcher: auto, native, or poll (overrides relay.watcher)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level for the session log (overrides logging.level)")
	cmd.Flags().BoolVar(&logConsole, "log-console", false, "Mirror the session log to stderr")
	return cmd
}
