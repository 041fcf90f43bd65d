package main

import (
	"fmt"

	"qc-dashboard/internal/core/database"

	"github.com/spf13/cobra"
)

// migrateCmd applies pending database migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := database.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}
