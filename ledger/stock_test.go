package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kpdgayao/vivita-inventory/models"
)

func ptr[T any](v T) *T { return &v }

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		item models.Item
		want StockStatus
	}{
		{"empty", models.Item{Quantity: 0, MinQuantity: 5}, StatusOutOfStock},
		{"at minimum", models.Item{Quantity: 5, MinQuantity: 5}, StatusLow},
		{"normal", models.Item{Quantity: 6, MinQuantity: 5}, StatusNormal},
		{"no max", models.Item{Quantity: 600, MinQuantity: 5}, StatusNormal},
		{"over max", models.Item{Quantity: 21, MinQuantity: 5, MaxQuantity: ptr(int64(20))}, StatusHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.item))
		})
	}
}

func TestLowStockAndShortage(t *testing.T) {
	assert.True(t, IsLowStock(models.Item{Quantity: 5, MinQuantity: 5}))
	assert.False(t, IsLowStock(models.Item{Quantity: 6, MinQuantity: 5}))
	assert.Equal(t, int64(3), Shortage(models.Item{Quantity: 2, MinQuantity: 5}))
	assert.Equal(t, int64(0), Shortage(models.Item{Quantity: 9, MinQuantity: 5}))
}

func TestReorderQuantity(t *testing.T) {
	assert.Equal(t, int64(0), ReorderQuantity(10, 10, nil, 0))
	assert.Equal(t, int64(28), ReorderQuantity(2, 10, nil, 0))
	assert.Equal(t, int64(48), ReorderQuantity(2, 10, ptr(int64(50)), 0))
	assert.Equal(t, int64(58), ReorderQuantity(2, 10, ptr(int64(50)), 1.5))
}
