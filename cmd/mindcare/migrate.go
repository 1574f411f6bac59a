package main

import (
	"context"
	"fmt"
	"time"

	"mindcare/common/database"
	"mindcare/internal/config"
	"mindcare/internal/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the clinic state table in Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := repository.NewPostgresStateRepository(db).EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema ready on %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		return nil
	},
}
