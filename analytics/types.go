package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

// Summary is the dashboard headline
type Summary struct {
	TotalItems      int             `json:"total_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	AvgUnitCost     decimal.Decimal `json:"avg_unit_cost"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TypeCount struct {
	Type  models.TransactionType `json:"type"`
	Count int                    `json:"count"`
}

// Trends counts ledger rows per local day and per type
type Trends struct {
	Days  int          `json:"days"`
	Daily []DailyCount `json:"daily_transactions"`
	Types []TypeCount  `json:"transaction_types"`
}

type CategoryValue struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Items    int             `json:"items"`
	Value    decimal.Decimal `json:"value"`
}

type TopSeller struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type Turnover struct {
	ItemID       string  `json:"item_id"`
	Name         string  `json:"name"`
	UnitsSold    int64   `json:"units_sold"`
	TurnoverRate float64 `json:"turnover_rate"`
	DaysInStock  int     `json:"days_in_stock"`
}

type StockAlert struct {
	ItemID          string             `json:"id"`
	Name            string             `json:"name"`
	SKU             string             `json:"sku"`
	UnitType        models.UnitType    `json:"unit_type"`
	Status          ledger.StockStatus `json:"status"`
	CurrentQuantity int64              `json:"current_quantity"`
	MinQuantity     int64              `json:"min_quantity"`
	Shortage        int64              `json:"shortage"`
	ReorderQuantity int64              `json:"reorder_quantity"`
	LastOrderedAt   *time.Time         `json:"last_ordered"`
}

type RecentTransaction struct {
	models.Transaction
	ItemName string `json:"item_name"`
}

// ItemLedger is the full balance history of one item
type ItemLedger struct {
	Item      models.Item           `json:"item"`
	UnitCost  decimal.Decimal       `json:"unit_cost"`
	Value     decimal.Decimal       `json:"value"`
	Balances  ledger.ItemBalances   `json:"balances"`
	Valuation []ledger.ValuationRow `json:"valuation"`
}
