package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sourcesound/internal/logs"
	"sourcesound/internal/sessionrun"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log of the most recent session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := sessionrun.CurrentLogPath(cfg)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No session log yet; start one with 'sourcesound run'")
				return nil
			}

			out := cmd.OutOrStdout()
			chunk, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range chunk.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return logs.Follow(followCtx, path, chunk.Offset, logs.DefaultFollowInterval, func(batch []string) error {
				for _, line := range batch {
					if _, err := fmt.Fprintln(out, line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}
