package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the debtor, procedure and payment tables",
		Long: `Apply the schema to the configured database. Tables and indexes are
created only when missing, so running it again is harmless.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.DB().Close()

			slog.Info("database migrations completed", "driver", cfg.DBDriver)
			return nil
		},
	}
}
