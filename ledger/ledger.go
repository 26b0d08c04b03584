// Package ledger computes stock balances and valuations from the
// append-only transaction ledger. Nothing in here touches the database.
package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kpdgayao/vivita-inventory/models"
)

// SignedDelta converts a ledger row into the change it makes to on-hand
// quantity. Adjustments carry their own sign.
func SignedDelta(t models.TransactionType, qty int64) (int64, error) {
	switch t {
	case models.TransactionPurchase, models.TransactionTransferIn:
		if qty <= 0 {
			return 0, fmt.Errorf("%w: %s quantity must be positive", ErrInvalidQuantity, t)
		}
		return qty, nil
	case models.TransactionSale, models.TransactionTransferOut, models.TransactionWriteOff:
		if qty <= 0 {
			return 0, fmt.Errorf("%w: %s quantity must be positive", ErrInvalidQuantity, t)
		}
		return -qty, nil
	case models.TransactionAdjustment:
		if qty == 0 {
			return 0, fmt.Errorf("%w: adjustment cannot be zero", ErrInvalidQuantity)
		}
		return qty, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTransactionType, t)
	}
}

// Apply returns the on-hand quantity after the movement
func Apply(current int64, t models.TransactionType, qty int64) (int64, error) {
	delta, err := SignedDelta(t, qty)
	if err != nil {
		return current, err
	}
	next := current + delta
	if next < 0 {
		return current, fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, current, -delta)
	}
	return next, nil
}

// IsInflow reports whether the type adds stock at a purchase price
func IsInflow(t models.TransactionType) bool {
	return t == models.TransactionPurchase || t == models.TransactionTransferIn
}

// Sorted returns a chronological copy of txns. Ties on created_at are
// broken by id.
func Sorted(txns []models.Transaction) []models.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// OpeningBalance walks the ledger backwards from the current quantity to
// find the balance before the first row. Rows with an unknown type are
// skipped.
func OpeningBalance(current int64, txns []models.Transaction) int64 {
	bal := current
	for i := len(txns) - 1; i >= 0; i-- {
		delta, err := SignedDelta(txns[i].TransactionType, txns[i].Quantity)
		if err != nil {
			continue
		}
		bal -= delta
	}
	return bal
}

// BalanceRow is one ledger row with the balance after it
type BalanceRow struct {
	Transaction models.Transaction `json:"transaction"`
	Change      int64              `json:"change"`
	Balance     int64              `json:"balance"`
}

// ItemBalances is the running balance of a single item
type ItemBalances struct {
	Opening int64        `json:"opening"`
	Closing int64        `json:"closing"`
	Rows    []BalanceRow `json:"rows"`
}

// RunningBalances computes the balance after each of the item's rows
func RunningBalances(item models.Item, txns []models.Transaction) ItemBalances {
	sorted := Sorted(txns)
	opening := OpeningBalance(item.Quantity, sorted)
	res := ItemBalances{Opening: opening, Closing: opening, Rows: make([]BalanceRow, 0, len(sorted))}
	bal := opening
	for _, t := range sorted {
		delta, err := SignedDelta(t.TransactionType, t.Quantity)
		if err != nil {
			continue
		}
		bal += delta
		res.Rows = append(res.Rows, BalanceRow{Transaction: t, Change: delta, Balance: bal})
	}
	res.Closing = bal
	return res
}
