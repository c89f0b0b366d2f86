package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/presenter"
)

var addBody string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.TrimSpace(args[0])
		if title == "" {
			fatal("Error adding note", errors.New("title must not be empty"))
		}

		nb := mustOpenNotebook(cmd.Context())
		defer nb.Close()

		view := &consoleView{}
		notes := presenter.NewNotePresenter(view, nb.Repository)
		notes.Add(cmd.Context(), title, addBody)
		if err := view.Err(); err != nil {
			fatal("Error adding note", err)
		}

		note, _ := notes.NoteAt(0)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(note.ID), note.Title)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addBody, "body", "b", "", "Note body")
}
