package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
	"github.com/ibrahim-kiri/rate-my-professor/internal/repository"
	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Embed reviews.json and upsert every review into the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := readReviews(file)
			if err != nil {
				return err
			}

			d, err := loadDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			if se, ok := d.store.(repository.SchemaEnsurer); ok {
				if err := se.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
			}

			n, err := service.NewIndexer(d.store, d.embedder, d.projection, d.log).Index(cmd.Context(), reviews)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d of %d reviews\n", n, len(reviews))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "reviews.json", "path to the reviews file")
	return cmd
}

// readReviews loads {"reviews": [...]}.
func readReviews(path string) ([]models.Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rf models.ReviewFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rf.Reviews) == 0 {
		return nil, fmt.Errorf("%s contains no reviews", path)
	}
	return rf.Reviews, nil
}
