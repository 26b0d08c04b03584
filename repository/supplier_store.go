package repository

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/models"
)

// SupplierStore persists suppliers
type SupplierStore struct {
	db *gorm.DB
}

func NewSupplierStore(db *gorm.DB) *SupplierStore {
	return &SupplierStore{db: db}
}

func (s *SupplierStore) Get(ctx context.Context, id string) (*models.Supplier, error) {
	var sup models.Supplier
	if err := s.db.WithContext(ctx).First(&sup, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "supplier "+id)
	}
	return &sup, nil
}

// List returns suppliers by name, active only unless includeInactive
func (s *SupplierStore) List(ctx context.Context, includeInactive bool) ([]models.Supplier, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var suppliers []models.Supplier
	err := query.Find(&suppliers).Error
	return suppliers, err
}

func (s *SupplierStore) Create(ctx context.Context, sup *models.Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if err := ValidateSupplier(sup); err != nil {
		return err
	}
	sup.IsActive = true
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sup).Error; err != nil {
			return err
		}
		return logActivity(tx, models.ActivityTypeSupplierCreated,
			"Created supplier "+sup.Name, sup.TableName(), sup.ID)
	})
}

// Update writes the non-empty fields of sup
func (s *SupplierStore) Update(ctx context.Context, sup *models.Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.ContactEmail != nil && *sup.ContactEmail != "" {
		if _, err := mail.ParseAddress(*sup.ContactEmail); err != nil {
			v := &ValidationError{}
			v.Add("contact_email", "is not a valid email address")
			return v
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Supplier
		if err := tx.First(&current, "id = ?", sup.ID).Error; err != nil {
			return notFound(err, "supplier "+sup.ID)
		}
		// struct Updates skips zero values
		if err := tx.Model(&current).Updates(models.Supplier{
			Name:         sup.Name,
			ContactName:  sup.ContactName,
			ContactEmail: sup.ContactEmail,
			Phone:        sup.Phone,
			Address:      sup.Address,
			Remarks:      sup.Remarks,
		}).Error; err != nil {
			return err
		}
		*sup = current
		return logActivity(tx, models.ActivityTypeSupplierUpdated,
			"Updated supplier "+current.Name, current.TableName(), current.ID)
	})
}

// Delete deactivates the supplier. Items keep their reference.
func (s *SupplierStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sup models.Supplier
		if err := tx.First(&sup, "id = ?", id).Error; err != nil {
			return notFound(err, "supplier "+id)
		}
		if err := tx.Model(&sup).Updates(map[string]any{"is_active": false}).Error; err != nil {
			return err
		}
		return logActivity(tx, models.ActivityTypeSupplierDeactivated,
			fmt.Sprintf("Deactivated supplier %s", sup.Name), sup.TableName(), sup.ID)
	})
}

// ValidateSupplier checks supplier fields before insert
func ValidateSupplier(sup *models.Supplier) error {
	v := &ValidationError{}
	if sup.Name == "" {
		v.Add("name", "is required")
	} else if len(sup.Name) > 200 {
		v.Add("name", "must be at most 200 characters")
	}
	if sup.ContactEmail != nil && *sup.ContactEmail != "" {
		if _, err := mail.ParseAddress(*sup.ContactEmail); err != nil {
			v.Add("contact_email", "is not a valid email address")
		}
	}
	return v.Err()
}
