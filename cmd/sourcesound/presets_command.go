package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sourcesound/internal/store"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "presets",
		Short:       "List built-in game presets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := store.Presets()
			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				rows = append(rows, []string{
					p.Key,
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.Itoa(p.SoundsRate),
					yesNo(p.UseUserdata),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "App ID", "Name", "Rate", "Userdata"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
