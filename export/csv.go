// Package export writes the valued transaction ledger as CSV.
package export

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

var ErrNoTransactions = errors.New("no transactions to export")

// Header is the CSV column order
var Header = []string{
	"created_at", "item_name", "transaction_type", "quantity", "unit_price", "value",
	"weighted_avg_cost", "balance_qty", "balance_value", "unit_type", "notes", "item_id",
}

const (
	timeLayout   = "2006-01-02 15:04:05"
	initialType  = "initial"
	initialNotes = "Initial Balance"
)

// Filename is the download name for an export taken at now
func Filename(now time.Time) string {
	return "vivita_transactions_" + now.Format("20060102_150405") + ".csv"
}

// WriteTransactionsCSV writes, for each item with ledger rows, an initial
// balance row followed by its rows in chronological order. Items are
// ordered by name; rows for items not in items are skipped.
func WriteTransactionsCSV(w io.Writer, items []models.Item, txns []models.Transaction, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	byItem := ledger.GroupByItem(txns)

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b models.Item) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	cw := csv.NewWriter(w)
	wrote := false
	for _, item := range sorted {
		rows := byItem[item.ID]
		if len(rows) == 0 {
			continue
		}
		valued := ledger.Valuation(item, rows)
		// only the opening row is left when every row has an unknown type
		if len(valued) < 2 {
			continue
		}
		if !wrote {
			if err := cw.Write(Header); err != nil {
				return err
			}
			wrote = true
		}

		first := valued[1].Transaction.CreatedAt
		for _, v := range valued {
			if err := cw.Write(record(item, v, first, loc)); err != nil {
				return fmt.Errorf("write %s: %w", item.Name, err)
			}
		}
	}
	if !wrote {
		return ErrNoTransactions
	}
	cw.Flush()
	return cw.Error()
}

func record(item models.Item, v ledger.ValuationRow, first time.Time, loc *time.Location) []string {
	at := v.Transaction.CreatedAt
	typ := string(v.Transaction.TransactionType)
	qty := v.Transaction.Quantity
	notes := v.Transaction.Notes
	if v.Initial {
		at = first
		typ = initialType
		qty = v.BalanceQty
		notes = initialNotes
	}
	return []string{
		at.In(loc).Format(timeLayout),
		item.Name,
		typ,
		strconv.FormatInt(qty, 10),
		money(v.Transaction.UnitPrice),
		money(v.Value),
		money(v.AverageCost),
		strconv.FormatInt(v.BalanceQty, 10),
		money(v.BalanceValue),
		string(item.UnitType),
		notes,
		item.ID,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
