package main

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpdgayao/vivita-inventory/export"
	"github.com/kpdgayao/vivita-inventory/models"
)

// ExportOptions holds flags for the export command
type ExportOptions struct {
	Out string
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the valued transaction ledger as CSV",
		Long: `Write every item's ledger with running balances and weighted average
cost as CSV.

Example:
  inventory export > ledger.csv
  inventory export --out ledger.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			loc, err := e.cfg.App.Location()
			if err != nil {
				return err
			}
			svc, err := e.services(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			items, err := svc.items.All(ctx, true)
			if err != nil {
				return err
			}
			txns, err := svc.txns.All(ctx)
			if err != nil {
				return err
			}

			return writeExport(cmd.OutOrStdout(), opts.Out, items, txns, loc)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")

	return cmd
}

// writeExport renders the CSV in memory so a failed export never leaves a
// partial file behind. An empty out or "-" writes to stdout.
func writeExport(stdout io.Writer, out string, items []models.Item, txns []models.Transaction, loc *time.Location) error {
	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, items, txns, loc); err != nil {
		return err
	}
	if out == "" || out == "-" {
		_, err := buf.WriteTo(stdout)
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
