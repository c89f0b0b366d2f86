package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneStory bool

var doneCmd = &cobra.Command{
	Use:   "done <row|id>",
	Short: "Complete a note, or restore a finished one with --story",
	Long: `done moves a note between the active list and the story of finished notes.
The note is given by its row number as printed by "jot list" or by a prefix of its id.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := mustOpenNotebook(cmd.Context())
		defer nb.Close()

		view := &consoleView{}
		screen := newScreen(view, nb.Repository, doneStory)
		screen.Load(cmd.Context())
		if err := view.Err(); err != nil {
			fatal("Error loading notes", err)
		}

		idx, err := resolveRow(screen, args[0])
		if err != nil {
			fatal("Error", err)
		}
		note, _ := screen.NoteAt(idx)

		screen.Toggle(cmd.Context(), idx)
		if err := view.Err(); err != nil {
			fatal("Error toggling note", err)
		}

		verb := "Completed"
		if doneStory {
			verb = "Restored"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", verb, shortID(note.ID), note.Title)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
	doneCmd.Flags().BoolVar(&doneStory, "story", false, "Restore a finished note")
}
