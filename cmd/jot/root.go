package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/platform"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	backend    string
	format     string

	// config is loaded once per invocation by the root pre-run hook.
	config jot.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "A small note and reminder manager",
	Long: `jot keeps a list of short notes. Completing a note moves it to the
story of finished notes; completing it again brings it back.

Notes live in ~/.jot by default, or in the nearest .jot directory above the
working directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path, err := configFilePath()
		if err != nil {
			fatal("Error locating config", err)
		}

		cfg, err := jot.LoadConfig(path)
		if err != nil {
			fatal("Error loading config", err)
		}
		config = cfg

		level, err := platform.ParseLevel(cfg.LogLevel)
		if err != nil {
			fatal("Error loading config", err)
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (default: $JOT_DIR, ./.jot upwards, config data_dir or ~/.jot)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.jot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Slot encoding for the fs backend: json or yaml")
}

func configFilePath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return platform.DefaultConfigPath()
}

// openNotebook opens the notebook selected by flags, environment and config.
func openNotebook(ctx context.Context, extra ...jot.Option) (*jot.Notebook, error) {
	dir, err := jot.ResolveDir(dataDir, config)
	if err != nil {
		return nil, err
	}
	return openNotebookAt(ctx, dir, extra...)
}

func openNotebookAt(ctx context.Context, dir string, extra ...jot.Option) (*jot.Notebook, error) {
	opts := config.Options()
	opts = append(opts,
		jot.WithBackend(backend),
		jot.WithFormat(format),
		jot.WithLogger(slog.Default()),
	)
	return jot.Open(ctx, dir, append(opts, extra...)...)
}

func mustOpenNotebook(ctx context.Context, extra ...jot.Option) *jot.Notebook {
	nb, err := openNotebook(ctx, extra...)
	if err != nil {
		fatal("Error opening notebook", err)
	}
	return nb
}
