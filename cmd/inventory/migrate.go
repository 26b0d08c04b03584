package main

import (
	"github.com/spf13/cobra"

	"github.com/kpdgayao/vivita-inventory/database"
)

// MigrateOptions holds flags for the migrate command
type MigrateOptions struct {
	Drop       bool
	SchemaOnly bool
}

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Create enum types, tables, constraints, indexes, triggers and row level
security policies. Only tables and indexes are created on SQLite.

Example:
  inventory migrate
  inventory migrate --drop
  inventory migrate --schema-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if opts.Drop {
				if err := database.Drop(e.db, e.log); err != nil {
					return err
				}
			}
			if err := e.migrate(opts.SchemaOnly); err != nil {
				return err
			}
			cmd.Println("Migration completed successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Drop, "drop", false, "drop all tables and types before migrating")
	cmd.Flags().BoolVar(&opts.SchemaOnly, "schema-only", false, "skip triggers and row level security")

	return cmd
}
