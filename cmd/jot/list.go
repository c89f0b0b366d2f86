package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listStory bool
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active notes, or finished ones with --story",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := mustOpenNotebook(cmd.Context())
		defer nb.Close()

		view := &consoleView{}
		screen := newScreen(view, nb.Repository, listStory)
		screen.Load(cmd.Context())
		if err := view.Err(); err != nil {
			fatal("Error listing notes", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(screen.Notes()); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if screen.Count() == 0 {
			if listStory {
				fmt.Fprintln(out, "No finished notes.")
			} else {
				fmt.Fprintln(out, "No notes.")
			}
			return
		}
		printNotes(out, screen.Notes())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStory, "story", false, "List finished notes")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
