package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/core"
)

type backendCase struct {
	name    string
	backend string
	format  string
}

var cases = []backendCase{
	{name: "fs/json", backend: "fs", format: "json"},
	{name: "fs/yaml", backend: "fs", format: "yaml"},
	{name: "sqlite", backend: "sqlite"},
	{name: "memory", backend: "memory"},
}

func main() {
	count := flag.Int("count", 1000, "Number of notes to create per backend")
	keep := flag.Bool("keep", false, "Keep the benchmark directories after running")
	verbose := flag.Bool("v", false, "Log repository activity")
	flag.Parse()
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "-count must be at least 1")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Printf("%-8s %12s %12s %12s %12s\n", "backend", "create", "toggle", "cold load", "warm load")
	for _, c := range cases {
		if err := run(c, *count, *keep, logger); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.name, err)
			os.Exit(1)
		}
	}
}

func run(c backendCase, count int, keep bool, logger *slog.Logger) error {
	dir, err := os.MkdirTemp("", "jot_bench_")
	if err != nil {
		return err
	}
	if keep {
		fmt.Fprintf(os.Stderr, "Keeping %s bench dir: %s\n", c.name, dir)
	} else {
		defer os.RemoveAll(dir)
	}

	ctx := context.Background()
	opts := []jot.Option{
		jot.WithBackend(c.backend),
		jot.WithFormat(c.format),
		jot.WithLogger(logger),
	}

	nb, err := jot.Open(ctx, dir, opts...)
	if err != nil {
		return err
	}

	// Every mutation rewrites the whole slot, so create cost grows with count.
	ids := make([]string, 0, count)
	start := time.Now()
	for i := range count {
		n := jot.NewNote(fmt.Sprintf("Note %d", i), "Benchmark body.")
		if err := nb.Repository.Create(ctx, n); err != nil {
			return err
		}
		ids = append(ids, n.ID)
	}
	createTime := time.Since(start)

	toggles := min(count, 100)
	start = time.Now()
	for _, id := range ids[:toggles] {
		if _, err := nb.Repository.ToggleComplete(ctx, id); err != nil {
			return err
		}
	}
	toggleTime := time.Since(start)

	var cold, warm time.Duration
	if c.backend == "memory" {
		// Nothing survives a reopen; measure the cached path only.
		start = time.Now()
		if _, err := nb.Repository.Load(ctx, core.Active); err != nil {
			return err
		}
		warm = time.Since(start)
	} else {
		if err := nb.Close(); err != nil {
			return err
		}
		nb, err = jot.Open(ctx, dir, opts...)
		if err != nil {
			return err
		}

		start = time.Now()
		notes, err := nb.Repository.Load(ctx, core.Active)
		if err != nil {
			return err
		}
		cold = time.Since(start)
		if len(notes) != count-toggles {
			return fmt.Errorf("reloaded %d active notes, want %d", len(notes), count-toggles)
		}

		start = time.Now()
		if _, err := nb.Repository.Load(ctx, core.Active); err != nil {
			return err
		}
		warm = time.Since(start)
	}
	defer nb.Close()

	fmt.Printf("%-8s %12v %12v %12v %12v\n", c.name,
		createTime/time.Duration(count), toggleTime/time.Duration(toggles), cold, warm)
	return nil
}
