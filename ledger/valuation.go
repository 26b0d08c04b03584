package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/kpdgayao/vivita-inventory/models"
)

// WeightedAverageCost is Σ(qty·price)/Σqty over purchase rows
func WeightedAverageCost(txns []models.Transaction) decimal.Decimal {
	var qty int64
	total := decimal.Zero
	for _, t := range txns {
		if t.TransactionType != models.TransactionPurchase || t.Quantity <= 0 {
			continue
		}
		qty += t.Quantity
		total = total.Add(t.Value())
	}
	if qty == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(qty))
}

// UnitCost is the weighted average cost when the item has purchases,
// otherwise its catalogue unit cost.
func UnitCost(item models.Item, txns []models.Transaction) decimal.Decimal {
	for _, t := range txns {
		if t.TransactionType == models.TransactionPurchase {
			return WeightedAverageCost(txns)
		}
	}
	return item.UnitCost
}

// ItemValue is on-hand quantity times UnitCost
func ItemValue(item models.Item, txns []models.Transaction) decimal.Decimal {
	return decimal.NewFromInt(item.Quantity).Mul(UnitCost(item, txns))
}

// GroupByItem indexes txns by item id
func GroupByItem(txns []models.Transaction) map[string][]models.Transaction {
	out := make(map[string][]models.Transaction)
	for _, t := range txns {
		out[t.ItemID] = append(out[t.ItemID], t)
	}
	return out
}

// TotalValue sums ItemValue across items. Rows for unknown items are ignored.
func TotalValue(items []models.Item, txns []models.Transaction) decimal.Decimal {
	byItem := GroupByItem(txns)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(ItemValue(it, byItem[it.ID]))
	}
	return total
}

// ValuationRow is one line of the valued ledger. The first row of a
// valuation is the opening balance and has Initial set.
type ValuationRow struct {
	Initial      bool               `json:"initial"`
	Transaction  models.Transaction `json:"transaction"`
	Change       int64              `json:"change"`
	Value        decimal.Decimal    `json:"value"`
	AverageCost  decimal.Decimal    `json:"weighted_avg_cost"`
	BalanceQty   int64              `json:"balance_qty"`
	BalanceValue decimal.Decimal    `json:"balance_value"`
}

// Valuation replays the item's ledger with a moving weighted average.
// Inflows add qty·price, outflows and adjustments move stock at the
// current average cost.
func Valuation(item models.Item, txns []models.Transaction) []ValuationRow {
	sorted := Sorted(txns)
	qty := OpeningBalance(item.Quantity, sorted)
	avg := item.UnitCost
	value := decimal.NewFromInt(qty).Mul(avg)

	rows := make([]ValuationRow, 0, len(sorted)+1)
	rows = append(rows, ValuationRow{
		Initial:      true,
		Transaction:  models.Transaction{ItemID: item.ID, UnitPrice: avg},
		Change:       qty,
		Value:        value,
		AverageCost:  avg,
		BalanceQty:   qty,
		BalanceValue: value,
	})

	for _, t := range sorted {
		delta, err := SignedDelta(t.TransactionType, t.Quantity)
		if err != nil {
			continue
		}
		if IsInflow(t.TransactionType) {
			price := t.UnitPrice
			if t.TransactionType == models.TransactionTransferIn && price.IsZero() {
				price = avg
			}
			value = value.Add(decimal.NewFromInt(delta).Mul(price))
			qty += delta
			if qty > 0 {
				avg = value.Div(decimal.NewFromInt(qty))
			}
		} else {
			value = value.Add(decimal.NewFromInt(delta).Mul(avg))
			qty += delta
		}
		if qty <= 0 {
			value = decimal.Zero
		}
		rows = append(rows, ValuationRow{
			Transaction:  t,
			Change:       delta,
			Value:        t.Value(),
			AverageCost:  avg,
			BalanceQty:   qty,
			BalanceValue: value,
		})
	}
	return rows
}
