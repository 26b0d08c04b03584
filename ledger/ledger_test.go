package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpdgayao/vivita-inventory/models"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func txn(id string, typ models.TransactionType, qty int64, price string, at time.Duration) models.Transaction {
	tx := models.Transaction{
		ItemID:          "item-1",
		TransactionType: typ,
		Quantity:        qty,
		UnitPrice:       decimal.RequireFromString(price),
	}
	tx.ID = id
	tx.CreatedAt = t0.Add(at)
	return tx
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		typ     models.TransactionType
		qty     int64
		want    int64
		wantErr error
	}{
		{models.TransactionPurchase, 5, 5, nil},
		{models.TransactionTransferIn, 2, 2, nil},
		{models.TransactionSale, 3, -3, nil},
		{models.TransactionTransferOut, 1, -1, nil},
		{models.TransactionWriteOff, 4, -4, nil},
		{models.TransactionAdjustment, -6, -6, nil},
		{models.TransactionAdjustment, 6, 6, nil},
		{models.TransactionAdjustment, 0, 0, ErrInvalidQuantity},
		{models.TransactionSale, -3, 0, ErrInvalidQuantity},
		{models.TransactionPurchase, 0, 0, ErrInvalidQuantity},
		{"refund", 1, 0, ErrUnknownTransactionType},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := SignedDelta(tt.typ, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	got, err := Apply(10, models.TransactionSale, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	got, err = Apply(3, models.TransactionWriteOff, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, int64(3), got)

	_, err = Apply(3, models.TransactionAdjustment, -4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSortedBreaksTiesByID(t *testing.T) {
	rows := []models.Transaction{
		txn("c", models.TransactionSale, 1, "0", time.Hour),
		txn("b", models.TransactionPurchase, 1, "0", 0),
		txn("a", models.TransactionPurchase, 1, "0", 0),
	}
	got := Sorted(rows)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "c", rows[0].ID, "input must not be reordered")
}

func TestRunningBalances(t *testing.T) {
	item := models.Item{Quantity: 12}
	rows := []models.Transaction{
		txn("3", models.TransactionSale, 5, "20", 2*time.Hour),
		txn("1", models.TransactionPurchase, 10, "10", 0),
		txn("2", models.TransactionAdjustment, -3, "0", time.Hour),
	}

	got := RunningBalances(item, rows)
	assert.Equal(t, int64(10), got.Opening)
	assert.Equal(t, int64(12), got.Closing)
	require.Len(t, got.Rows, 3)
	assert.Equal(t, []int64{20, 17, 12}, []int64{got.Rows[0].Balance, got.Rows[1].Balance, got.Rows[2].Balance})
	assert.Equal(t, int64(-3), got.Rows[1].Change)
}

func TestRunningBalancesEmpty(t *testing.T) {
	got := RunningBalances(models.Item{Quantity: 7}, nil)
	assert.Equal(t, int64(7), got.Opening)
	assert.Equal(t, int64(7), got.Closing)
	assert.Empty(t, got.Rows)
}
