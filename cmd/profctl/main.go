// Command profctl seeds and queries the professor index from the shell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ibrahim-kiri/rate-my-professor/internal/config"
	"github.com/ibrahim-kiri/rate-my-professor/internal/logger"
	"github.com/ibrahim-kiri/rate-my-professor/internal/repository"
	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "profctl",
		Short:         "Manage the Rate My Professor vector index",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd(), newSearchCmd())
	return root
}

// deps is what every subcommand needs, built from the environment.
type deps struct {
	cfg        *config.Config
	log        zerolog.Logger
	store      repository.ProfessorStore
	embedder   service.Embedder
	projection service.Projection
	closers    []func()
}

func loadDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(os.Stderr, "profctl", cfg.LogLevel)

	store, err := repository.NewProfessorStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	embedder, closer, err := service.NewEmbedder(ctx, cfg, log)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	return &deps{
		cfg:        cfg,
		log:        log,
		store:      store,
		embedder:   embedder,
		projection: service.Projection{Dimension: cfg.IndexDimension, Seed: cfg.ProjectionSeed},
		closers: []func(){
			func() { _ = closer.Close() },
			func() { _ = store.Close(context.Background()) },
		},
	}, nil
}

func (d *deps) Close() {
	for _, c := range d.closers {
		c()
	}
}
