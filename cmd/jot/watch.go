package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	jotlifecycle "github.com/aretw0/jot/pkg/adapters/lifecycle"
	"github.com/aretw0/jot/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the notebook by other processes",
	Long: `watch follows the slot files of the notebook and prints one line per change
until interrupted. Only the fs backend can be watched.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		nb := mustOpenNotebook(ctx, jot.WithWatcherErrorHandler(func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}))
		defer nb.Close()

		watchable, ok := nb.Store.(core.Watchable)
		if !ok {
			fatal("Error starting watch", fmt.Errorf("backend %T cannot be watched", nb.Store))
		}

		events, err := watchable.Watch(ctx)
		if err != nil {
			fatal("Error starting watch", err)
		}

		src := jotlifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Error starting watch", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", nb.Dir)
		for e := range src.Events() {
			fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), e.String())
		}
		if ctx.Err() == nil {
			fatal("Watch stopped", errors.New("watcher closed unexpectedly"))
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
