package models

import "github.com/shopspring/decimal"

// Transaction represents the transactions ledger. Rows are append-only:
// corrections are recorded as adjustments, never as edits.
type Transaction struct {
	BaseModel
	ItemID          string          `gorm:"type:uuid;not null;index" json:"item_id"`
	TransactionType TransactionType `gorm:"not null;index" json:"transaction_type"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unit_price"`
	ReferenceNumber string          `gorm:"type:varchar(64);index" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"item,omitempty"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// Value is quantity times unit price
func (t Transaction) Value() decimal.Decimal {
	return decimal.NewFromInt(t.Quantity).Mul(t.UnitPrice)
}
