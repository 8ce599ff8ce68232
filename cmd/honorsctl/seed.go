package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/honors-hub/adapters/persistence"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "proposals",
		Short: "Insert the demo proposals when the proposals table is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := commonRun()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pool, err := persistence.NewPostgresPool(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			wrote, err := persistence.NewPostgresProposalRepo(pool, log).SeedIfEmpty(ctx, proposal.DemoProposals())
			if err != nil {
				return fmt.Errorf("seed proposals: %w", err)
			}
			if wrote {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d demo proposals\n", len(proposal.DemoProposals()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "proposals table is not empty, nothing seeded")
			}
			return nil
		},
	})
	return cmd
}
