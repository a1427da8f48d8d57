package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sourcesound/internal/catalog"
	"sourcesound/internal/config"
	"sourcesound/internal/store"
)

func newGameCommand(ctx *commandContext) *cobra.Command {
	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Manage games",
	}
	gameCmd.AddCommand(newGameAddCommand(ctx))
	gameCmd.AddCommand(newGameListCommand(ctx))
	gameCmd.AddCommand(newGameRemoveCommand(ctx))
	return gameCmd
}

func newGameAddCommand(ctx *commandContext) *cobra.Command {
	var (
		path        string
		cfgPath     string
		name        string
		rate        int
		useUserdata bool
	)

	cmd := &cobra.Command{
		Use:   "add <preset|app-id>",
		Short: "Add or update a game",
		Long: `Add a game by preset name (see "sourcesound presets") or by Steam app id.
--path is the game content directory (for CS:GO, .../csgo) and --cfg-path the
directory the game execs scripts from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := buildGame(cmd, args[0], path, cfgPath, name, rate, useUserdata)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				stored, err := st.PutGame(cmd.Context(), game)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved game %d (%s)\n", stored.ID, stored.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Game content directory (receives voice_input.wav)")
	cmd.Flags().StringVar(&cfgPath, "cfg-path", "", "Directory the game execs scripts from (default <path>/cfg)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required without a preset)")
	cmd.Flags().IntVar(&rate, "rate", 0, "Voice sample rate: 11025 or 22050 (required without a preset)")
	cmd.Flags().BoolVar(&useUserdata, "userdata", false, "Game writes its config under Steam userdata")
	return cmd
}

func buildGame(cmd *cobra.Command, ref, path, cfgPath, name string, rate int, useUserdata bool) (store.Game, error) {
	if strings.TrimSpace(path) == "" {
		return store.Game{}, errors.New("--path is required")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return store.Game{}, fmt.Errorf("resolve --path: %w", err)
	}
	path = expanded
	if strings.TrimSpace(cfgPath) == "" {
		cfgPath = filepath.Join(path, "cfg")
	} else if cfgPath, err = config.ExpandPath(cfgPath); err != nil {
		return store.Game{}, fmt.Errorf("resolve --cfg-path: %w", err)
	}

	var game store.Game
	if preset, ok := store.PresetByName(ref); ok {
		game = preset.Game(path, cfgPath)
	} else {
		id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
		if err != nil {
			return store.Game{}, fmt.Errorf("game %q is neither a Steam app id nor a known preset", ref)
		}
		game = store.Game{ID: id, Path: path, CfgPath: cfgPath}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		game.Name = name
	}
	if flags.Changed("rate") {
		game.SoundsRate = rate
	}
	if flags.Changed("userdata") {
		game.UseUserdata = useUserdata
	}
	if !catalog.ValidRate(game.SoundsRate) {
		return store.Game{}, fmt.Errorf("--rate must be one of %v", catalog.SampleRates())
	}
	return game, game.Validate()
}

func newGameListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				games, err := st.Games(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(games) == 0 {
					fmt.Fprintln(out, "No games configured; add one with 'sourcesound game add <preset> --path <dir>'")
					return nil
				}
				rows := make([][]string, 0, len(games))
				for _, g := range games {
					rows = append(rows, []string{
						strconv.FormatInt(g.ID, 10),
						g.Name,
						strconv.Itoa(g.SoundsRate),
						yesNo(g.UseUserdata),
						g.CfgPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Rate", "Userdata", "Cfg Path"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newGameRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <preset|app-id>",
		Short: "Remove a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameRef(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteGame(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed game %d\n", id)
				return nil
			})
		},
	}
}
