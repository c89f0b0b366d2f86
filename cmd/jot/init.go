package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/platform"
)

var (
	initLocal       bool
	initWriteConfig bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty notebook",
	Long: `init creates the data directory and both note slots.

With --local the notebook is created in ./.jot, and every jot command run from
this directory or below will use it. With --write-config the chosen backend,
format and directory are saved to the config file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			nb  *jot.Notebook
			err error
		)
		if initLocal {
			wd, werr := os.Getwd()
			if werr != nil {
				fatal("Error getting working directory", werr)
			}
			nb, err = openNotebookAt(cmd.Context(), filepath.Join(wd, platform.DirName))
		} else {
			nb, err = openNotebook(cmd.Context())
		}
		if err != nil {
			fatal("Error initializing notebook", err)
		}
		defer nb.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initialized notebook in %s\n", nb.Dir)

		if !initWriteConfig {
			return
		}
		path, err := configFilePath()
		if err != nil {
			fatal("Error locating config", err)
		}
		if _, err := os.Stat(path); err == nil {
			fatal("Error writing config", errors.New(path+" already exists"))
		}

		cfg := config
		cfg.DataDir = nb.Dir
		if backend != "" {
			cfg.Backend = backend
		}
		if format != "" {
			cfg.Format = format
		}
		if err := platform.SaveConfig(path, cfg); err != nil {
			fatal("Error writing config", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initLocal, "local", false, "Create the notebook in ./.jot")
	initCmd.Flags().BoolVar(&initWriteConfig, "write-config", false, "Save the notebook settings to the config file")
}
