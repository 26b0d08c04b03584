package ledger

import "github.com/kpdgayao/vivita-inventory/models"

// StockStatus buckets an item by on-hand quantity
type StockStatus string

const (
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusLow        StockStatus = "low"
	StatusNormal     StockStatus = "normal"
	StatusHigh       StockStatus = "high"
)

// Valid reports whether s is a known status
func (s StockStatus) Valid() bool {
	switch s {
	case StatusOutOfStock, StatusLow, StatusNormal, StatusHigh:
		return true
	}
	return false
}

// reorderBufferDays of average usage are added on top of the refill
const reorderBufferDays = 7

// IsLowStock reports whether item is at or below its minimum
func IsLowStock(item models.Item) bool {
	return item.Quantity <= item.MinQuantity
}

// Status returns the stock status of item
func Status(item models.Item) StockStatus {
	switch {
	case item.Quantity <= 0:
		return StatusOutOfStock
	case item.Quantity <= item.MinQuantity:
		return StatusLow
	case item.MaxQuantity != nil && item.Quantity > *item.MaxQuantity:
		return StatusHigh
	default:
		return StatusNormal
	}
}

// Shortage is how far below the minimum the item is
func Shortage(item models.Item) int64 {
	return max(item.MinQuantity-item.Quantity, 0)
}

// ReorderQuantity suggests how much to order. It refills to max (3×min
// when unset) and adds a week of average usage when known.
func ReorderQuantity(current, minQty int64, maxQty *int64, avgDailyUsage float64) int64 {
	if current >= minQty {
		return 0
	}
	target := 3 * minQty
	if maxQty != nil {
		target = *maxQty
	}
	qty := max(target-current, 0)
	if avgDailyUsage > 0 {
		qty += int64(avgDailyUsage * reorderBufferDays)
	}
	return qty
}
