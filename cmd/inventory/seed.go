package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/database"
)

// SeedOptions holds flags for the seed command
type SeedOptions struct {
	Force bool
	Days  int
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample suppliers, items and transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.services(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			res, err := seedAndInvalidate(ctx, e.db, e.log, svc.analytics, database.SeedOptions{
				Force: opts.Force,
				Days:  opts.Days,
			})
			if err != nil {
				return err
			}
			if res.Skipped {
				cmd.Println("Database already has items; use --force to replace them")
				return nil
			}
			cmd.Printf("Seeded %d suppliers, %d items, %d transactions\n", res.Suppliers, res.Items, res.Transactions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "clear existing data first")
	cmd.Flags().IntVar(&opts.Days, "days", 30, "days of transaction history to generate")

	return cmd
}

// seedAndInvalidate runs the seeder and drops cached analytics whenever it
// may have written rows
func seedAndInvalidate(ctx context.Context, db *gorm.DB, log *zap.Logger, svc *analytics.Service, opts database.SeedOptions) (*database.SeedResult, error) {
	res, err := database.Seed(ctx, db, log, opts)
	if err != nil {
		svc.Invalidate(ctx)
		return nil, err
	}
	if !res.Skipped {
		svc.Invalidate(ctx)
	}
	return res, nil
}
