package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/models"
)

// ActivityStore writes and reads the audit trail
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Log appends an activity entry
func (s *ActivityStore) Log(ctx context.Context, activityType, description, table, recordID string) error {
	return logActivity(s.db.WithContext(ctx), activityType, description, table, recordID)
}

// Recent returns the newest entries first
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	var logs []models.ActivityLog
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func logActivity(db *gorm.DB, activityType, description, table, recordID string) error {
	entry := models.ActivityLog{
		ActivityType: activityType,
		Description:  description,
	}
	if table != "" {
		entry.EntityTable = &table
	}
	if recordID != "" {
		entry.RecordID = &recordID
	}
	return db.Create(&entry).Error
}
