package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sourcesound/internal/catalog"
	"sourcesound/internal/store"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage sound libraries",
	}
	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibraryRenameCommand(ctx))
	libraryCmd.AddCommand(newLibrarySoundsCommand(ctx))
	return libraryCmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a library and its directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			name := args[0]
			return ctx.withStore(func(st *store.Store) error {
				if _, err := st.PutLibrary(cmd.Context(), name); err != nil {
					return err
				}
				for _, rate := range catalog.SampleRates() {
					if err := cat.EnsureDirectories(name, rate); err != nil {
						return err
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created library %s\n", name)
				fmt.Fprintf(out, "Put source files in %s and converted .wav files in the per-rate directories next to it.\n", cat.BaseDir(name))
				return nil
			})
		},
	}
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List libraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				libs, err := st.Libraries(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(libs) == 0 {
					fmt.Fprintln(out, "No libraries; create one with 'sourcesound library add <name>'")
					return nil
				}
				rows := make([][]string, 0, len(libs))
				for _, lib := range libs {
					sounds, err := cat.Sounds(lib.Name)
					count := strconv.Itoa(len(sounds))
					if err != nil {
						count = "?"
					}
					rows = append(rows, []string{
						lib.Name,
						count,
						strconv.Itoa(len(lib.Keywords)),
						humanize.Time(lib.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Sounds", "Keywords", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a library and its keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			name := args[0]
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteLibrary(cmd.Context(), name); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if purge {
					if err := cat.Remove(name); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed library %s and deleted %s\n", name, cat.LibraryDir(name))
					return nil
				}
				fmt.Fprintf(out, "Removed library %s; files remain in %s\n", name, cat.LibraryDir(name))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the library directory and every sound in it")
	return cmd
}

func newLibraryRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a library and move its directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			from, to := args[0], args[1]
			return ctx.withStore(func(st *store.Store) error {
				if err := st.RenameLibrary(cmd.Context(), from, to); err != nil {
					return err
				}
				if err := cat.Rename(from, to); err != nil {
					if revertErr := st.RenameLibrary(cmd.Context(), to, from); revertErr != nil {
						return fmt.Errorf("%w (reverting the store also failed: %v)", err, revertErr)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed library %s to %s\n", from, to)
				return nil
			})
		},
	}
}

func newLibrarySoundsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sounds <name>",
		Short: "List the sounds in a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			name := args[0]
			return ctx.withStore(func(st *store.Store) error {
				lib, err := st.Library(cmd.Context(), name)
				if err != nil {
					return err
				}
				sounds, err := cat.Sounds(name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sounds) == 0 {
					fmt.Fprintf(out, "No sounds in %s\n", cat.BaseDir(name))
					return nil
				}
				keywordsBySound := make(map[string][]string)
				for _, keyword := range lib.SortedKeywords() {
					sound := lib.Keywords[keyword]
					keywordsBySound[sound] = append(keywordsBySound[sound], keyword)
				}
				rows := make([][]string, 0, len(sounds))
				for _, sound := range sounds {
					rows = append(rows, []string{
						sound.Rel,
						strings.TrimPrefix(sound.Ext, "."),
						humanize.Bytes(uint64(sound.Size)),
						formatRates(sound.Rates),
						strings.Join(keywordsBySound[sound.Rel], ", "),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Sound", "Format", "Size", "Converted", "Keywords"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func formatRates(rates []int) string {
	if len(rates) == 0 {
		return "-"
	}
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
