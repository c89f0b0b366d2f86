package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/jot/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit notes interactively",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := mustOpenNotebook(cmd.Context())
		defer nb.Close()

		if err := tui.Run(cmd.Context(), nb.Repository); err != nil {
			fatal("Error running TUI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
