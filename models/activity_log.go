package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog represents activity_logs table
type ActivityLog struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityType string    `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	EntityTable  *string   `gorm:"column:table_name;type:varchar(100)" json:"table_name,omitempty"`
	RecordID     *string   `gorm:"type:uuid" json:"record_id,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Activity types constants
const (
	ActivityTypeItemCreated         = "ITEM_CREATED"
	ActivityTypeItemUpdated         = "ITEM_UPDATED"
	ActivityTypeItemDeactivated     = "ITEM_DEACTIVATED"
	ActivityTypeSupplierCreated     = "SUPPLIER_CREATED"
	ActivityTypeSupplierUpdated     = "SUPPLIER_UPDATED"
	ActivityTypeSupplierDeactivated = "SUPPLIER_DEACTIVATED"
	ActivityTypeStockMovement       = "STOCK_MOVEMENT"
	ActivityTypeLowStockAlert       = "LOW_STOCK_ALERT"
)
