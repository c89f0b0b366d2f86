package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmStory bool

var rmCmd = &cobra.Command{
	Use:   "rm <row|id>",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := mustOpenNotebook(cmd.Context())
		defer nb.Close()

		view := &consoleView{}
		screen := newScreen(view, nb.Repository, rmStory)
		screen.Load(cmd.Context())
		if err := view.Err(); err != nil {
			fatal("Error loading notes", err)
		}

		idx, err := resolveRow(screen, args[0])
		if err != nil {
			fatal("Error", err)
		}
		note, _ := screen.NoteAt(idx)

		screen.Delete(cmd.Context(), idx)
		if err := view.Err(); err != nil {
			fatal("Error deleting note", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", shortID(note.ID), note.Title)
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVar(&rmStory, "story", false, "Delete from finished notes")
}
