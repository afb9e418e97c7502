package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibrahim-kiri/rate-my-professor/internal/service"
)

func newSearchCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the reviews nearest to a query as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			// The LLM is not needed for retrieval.
			svc := service.NewChatService(d.store, d.embedder, service.NewDummyLLM(), d.projection, d.cfg.TopK, d.log)
			matches, err := svc.Search(cmd.Context(), strings.Join(args, " "), k)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		},
	}
	cmd.Flags().IntVarP(&k, "top", "k", 0, "number of results (default TOP_K)")
	return cmd
}
