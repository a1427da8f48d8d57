package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sourcesound/internal/store"
)

func newKeywordCommand(ctx *commandContext) *cobra.Command {
	keywordCmd := &cobra.Command{
		Use:   "keyword",
		Short: "Manage console keywords for library sounds",
		Long: `Keywords become console aliases while a session runs: typing the keyword
in the game console selects its sound directly. Keywords are case-insensitive.`,
	}
	keywordCmd.AddCommand(newKeywordSetCommand(ctx))
	keywordCmd.AddCommand(newKeywordRemoveCommand(ctx))
	keywordCmd.AddCommand(newKeywordListCommand(ctx))
	return keywordCmd
}

func newKeywordSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <library> <keyword> <sound>",
		Short: "Bind a keyword to a sound",
		Long: `Bind a keyword to a sound. <sound> is the path relative to the library
without extension, as shown by "sourcesound library sounds".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			library, keyword, sound := args[0], args[1], args[2]
			rel, err := store.NormalizeSoundPath(sound)
			if err != nil {
				return err
			}
			if !cat.HasSound(library, rel) {
				return fmt.Errorf("sound %q not found in library %s", rel, library)
			}
			return ctx.withStore(func(st *store.Store) error {
				folded, err := st.SetKeyword(cmd.Context(), library, keyword, rel)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to %s in %s\n", folded, rel, library)
				return nil
			})
		},
	}
}

func newKeywordRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <library> <keyword>",
		Short: "Remove a keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, keyword := args[0], args[1]
			return ctx.withStore(func(st *store.Store) error {
				if err := st.RemoveKeyword(cmd.Context(), library, keyword); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", store.FoldKeyword(keyword), library)
				return nil
			})
		},
	}
}

func newKeywordListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <library>",
		Short: "List the keywords of a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				lib, err := st.Library(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(lib.Keywords) == 0 {
					fmt.Fprintf(out, "No keywords in %s\n", lib.Name)
					return nil
				}
				rows := make([][]string, 0, len(lib.Keywords))
				for _, keyword := range lib.SortedKeywords() {
					sound := lib.Keywords[keyword]
					rows = append(rows, []string{keyword, sound, yesNo(cat.HasSound(lib.Name, sound))})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Keyword", "Sound", "Present"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
