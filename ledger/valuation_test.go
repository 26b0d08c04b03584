package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpdgayao/vivita-inventory/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	rows := []models.Transaction{
		txn("1", models.TransactionPurchase, 10, "100", 0),
		txn("2", models.TransactionPurchase, 30, "200", time.Hour),
		txn("3", models.TransactionSale, 5, "999", 2*time.Hour),
	}
	assert.True(t, dec("175").Equal(WeightedAverageCost(rows)))
	assert.True(t, WeightedAverageCost(rows[2:]).IsZero())
	assert.True(t, WeightedAverageCost(nil).IsZero())
}

func TestUnitCostFallsBackToCatalogue(t *testing.T) {
	item := models.Item{Quantity: 4, UnitCost: dec("12.50")}
	assert.True(t, dec("12.50").Equal(UnitCost(item, nil)))
	assert.True(t, dec("50").Equal(ItemValue(item, nil)))

	sales := []models.Transaction{txn("1", models.TransactionSale, 1, "30", 0)}
	assert.True(t, dec("12.50").Equal(UnitCost(item, sales)))

	buys := []models.Transaction{txn("1", models.TransactionPurchase, 2, "20", 0)}
	assert.True(t, dec("80").Equal(ItemValue(item, buys)))
}

func TestTotalValueIgnoresUnknownItems(t *testing.T) {
	a := models.Item{Quantity: 2, UnitCost: dec("5")}
	a.ID = "item-1"
	b := models.Item{Quantity: 3, UnitCost: dec("1")}
	b.ID = "item-2"

	rows := []models.Transaction{
		txn("1", models.TransactionPurchase, 2, "10", 0),
		{ItemID: "ghost", TransactionType: models.TransactionPurchase, Quantity: 100, UnitPrice: dec("1000")},
	}
	assert.True(t, dec("23").Equal(TotalValue([]models.Item{a, b}, rows)))
}

func TestValuation(t *testing.T) {
	item := models.Item{Quantity: 15, UnitCost: dec("10")}
	item.ID = "item-1"
	rows := []models.Transaction{
		txn("1", models.TransactionPurchase, 10, "10", 0),
		txn("2", models.TransactionPurchase, 10, "20", time.Hour),
		txn("3", models.TransactionSale, 5, "40", 2*time.Hour),
	}

	got := Valuation(item, rows)
	require.Len(t, got, 4)

	assert.True(t, got[0].Initial)
	assert.Equal(t, int64(0), got[0].BalanceQty)
	assert.True(t, got[0].BalanceValue.IsZero())

	assert.True(t, dec("10").Equal(got[1].AverageCost))
	assert.True(t, dec("100").Equal(got[1].BalanceValue))

	assert.True(t, dec("15").Equal(got[2].AverageCost))
	assert.Equal(t, int64(20), got[2].BalanceQty)
	assert.True(t, dec("300").Equal(got[2].BalanceValue))

	assert.Equal(t, int64(-5), got[3].Change)
	assert.True(t, dec("200").Equal(got[3].Value))
	assert.True(t, dec("15").Equal(got[3].AverageCost))
	assert.Equal(t, int64(15), got[3].BalanceQty)
	assert.True(t, dec("225").Equal(got[3].BalanceValue))
}

func TestValuationWithOpeningStock(t *testing.T) {
	item := models.Item{Quantity: 5, UnitCost: dec("4")}
	rows := []models.Transaction{txn("1", models.TransactionWriteOff, 5, "0", 0)}

	got := Valuation(item, rows)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].BalanceQty)
	assert.True(t, dec("40").Equal(got[0].BalanceValue))
	assert.Equal(t, int64(5), got[1].BalanceQty)
	assert.True(t, dec("20").Equal(got[1].BalanceValue))
}
