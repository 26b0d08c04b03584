package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents items table. Quantity is the on-hand balance and only
// changes through ledger transactions.
type Item struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	SKU           string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku"`
	Category      Category        `gorm:"not null;index" json:"category"`
	UnitType      UnitType        `gorm:"not null" json:"unit_type"`
	Quantity      int64           `gorm:"not null;default:0" json:"quantity"`
	MinQuantity   int64           `gorm:"not null;default:0" json:"min_quantity"`
	MaxQuantity   *int64          `json:"max_quantity,omitempty"`
	UnitCost      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unit_cost"`
	SupplierID    *string         `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	LastOrderedAt *time.Time      `json:"last_ordered_at,omitempty"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
}

// TableName specifies the table name for Item
func (Item) TableName() string {
	return "items"
}
