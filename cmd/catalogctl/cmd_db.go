package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyushmatania/version-8-circle-sub002/internal/storage"
)

func newSeedCmd(flags *globalFlags) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the YAML catalog into Postgres",
		Long: `Loads the YAML catalog and upserts every project into the Postgres
catalog in file order, so catalog order is preserved for new records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn or DATABASE_DSN is required")
			}

			projects, err := loadCatalog(cmd.Context(), flags)
			if err != nil {
				return err
			}

			repo, err := storage.NewPostgresRepository(cmd.Context(), storage.PostgresConfig{DSN: dsn})
			if err != nil {
				return err
			}
			defer repo.Close()

			for _, p := range projects {
				if err := repo.UpsertProject(cmd.Context(), p); err != nil {
					return fmt.Errorf("failed to seed project %s: %w", p.ID, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d projects\n", len(projects))
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", envOr("DATABASE_DSN", ""), "PostgreSQL DSN")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var dsn, dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn or DATABASE_DSN is required")
			}
			if err := storage.MigrateFromDSN(cmd.Context(), dsn, dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", envOr("DATABASE_DSN", ""), "PostgreSQL DSN")
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to the embedded set)")
	return cmd
}
