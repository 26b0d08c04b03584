package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

// ItemFilter narrows an item listing
type ItemFilter struct {
	Category        models.Category
	Status          ledger.StockStatus
	Search          string
	SupplierID      string
	SortBy          string
	SortOrder       string
	IncludeInactive bool
	Page            int
	PageSize        int
}

var itemSortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"category":   "category",
	"quantity":   "quantity",
	"unit_cost":  "unit_cost",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// editable columns; quantity only moves through the ledger
var itemUpdateColumns = []string{
	"name", "description", "sku", "category", "unit_type", "min_quantity",
	"max_quantity", "unit_cost", "supplier_id", "is_active", "updated_at",
}

// ItemStore persists items
type ItemStore struct {
	db *gorm.DB
}

func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Get returns the item with its supplier
func (s *ItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Preload("Supplier").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "item "+id)
	}
	return &item, nil
}

// List returns one page of items matching f
func (s *ItemStore) List(ctx context.Context, f ItemFilter) ([]models.Item, Page, error) {
	page := newPage(f.Page, f.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Item{})
	if !f.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.SupplierID != "" {
		query = query.Where("supplier_id = ?", f.SupplierID)
	}
	if f.Search != "" {
		kw := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", kw, kw, kw)
	}
	switch f.Status {
	case ledger.StatusOutOfStock:
		query = query.Where("quantity <= 0")
	case ledger.StatusLow:
		query = query.Where("quantity > 0 AND quantity <= min_quantity")
	case ledger.StatusHigh:
		query = query.Where("quantity > min_quantity AND max_quantity IS NOT NULL AND quantity > max_quantity")
	case ledger.StatusNormal:
		query = query.Where("quantity > min_quantity AND (max_quantity IS NULL OR quantity <= max_quantity)")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, page, err
	}
	page.setTotal(total)

	var items []models.Item
	err := query.Preload("Supplier").
		Order(itemOrder(f.SortBy, f.SortOrder)).
		Offset(page.offset()).Limit(page.Size).
		Find(&items).Error
	return items, page, err
}

func itemOrder(by, order string) string {
	col, ok := itemSortColumns[by]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

// All returns every item, active only unless includeInactive
func (s *ItemStore) All(ctx context.Context, includeInactive bool) ([]models.Item, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Item
	err := query.Find(&items).Error
	return items, err
}

// LowStock returns active items at or below their minimum, largest
// shortage first.
func (s *ItemStore) LowStock(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND quantity <= min_quantity", true).
		Order("(min_quantity - quantity) DESC, name ASC").
		Find(&items).Error
	return items, err
}

// ExistingSKUs returns SKUs starting with prefix
func (s *ItemStore) ExistingSKUs(ctx context.Context, prefix string) ([]string, error) {
	var skus []string
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("sku LIKE ?", prefix+"%").
		Pluck("sku", &skus).Error
	return skus, err
}

// Create validates and inserts item, generating its SKU when empty
func (s *ItemStore) Create(ctx context.Context, item *models.Item) error {
	normalizeItem(item)
	if err := ValidateItem(item); err != nil {
		return err
	}
	item.IsActive = true

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSupplier(tx, item.SupplierID); err != nil {
			return err
		}
		if item.SKU == "" {
			prefix := SKUPrefix(item.Category, item.Name)
			var existing []string
			if err := tx.Model(&models.Item{}).Where("sku LIKE ?", prefix+"%").Pluck("sku", &existing).Error; err != nil {
				return err
			}
			item.SKU = GenerateSKU(item.Category, item.Name, existing)
		} else if err := checkSKUFree(tx, item.SKU, ""); err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return logActivity(tx, models.ActivityTypeItemCreated,
			fmt.Sprintf("Created item %s (%s)", item.Name, item.SKU), item.TableName(), item.ID)
	})
}

// Update saves the editable fields of item. Quantity is never written here.
func (s *ItemStore) Update(ctx context.Context, item *models.Item) error {
	normalizeItem(item)
	if err := ValidateItem(item); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Item
		if err := tx.First(&current, "id = ?", item.ID).Error; err != nil {
			return notFound(err, "item "+item.ID)
		}
		if err := checkSupplier(tx, item.SupplierID); err != nil {
			return err
		}
		if item.SKU == "" {
			item.SKU = current.SKU
		} else if err := checkSKUFree(tx, item.SKU, item.ID); err != nil {
			return err
		}
		item.Quantity = current.Quantity
		item.LastOrderedAt = current.LastOrderedAt
		item.CreatedAt = current.CreatedAt

		err := tx.Model(&models.Item{BaseModel: models.BaseModel{ID: item.ID}}).
			Select(itemUpdateColumns).
			Updates(item).Error
		if err != nil {
			return err
		}
		return logActivity(tx, models.ActivityTypeItemUpdated,
			fmt.Sprintf("Updated item %s (%s)", item.Name, item.SKU), item.TableName(), item.ID)
	})
}

// Delete removes an item. Items with ledger history are deactivated
// instead and deactivated is true.
func (s *ItemStore) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return notFound(err, "item "+id)
		}
		var count int64
		if err := tx.Model(&models.Transaction{}).Where("item_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			deactivated = true
			if err := tx.Model(&item).Updates(map[string]any{"is_active": false}).Error; err != nil {
				return err
			}
			return logActivity(tx, models.ActivityTypeItemDeactivated,
				fmt.Sprintf("Deactivated item %s (%s), %d transactions on record", item.Name, item.SKU, count),
				item.TableName(), item.ID)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return logActivity(tx, models.ActivityTypeItemDeactivated,
			fmt.Sprintf("Deleted item %s (%s)", item.Name, item.SKU), item.TableName(), item.ID)
	})
	return deactivated, err
}

func normalizeItem(item *models.Item) {
	item.Name = strings.TrimSpace(item.Name)
	item.SKU = strings.ToUpper(strings.TrimSpace(item.SKU))
	if item.SupplierID != nil && strings.TrimSpace(*item.SupplierID) == "" {
		item.SupplierID = nil
	}
}

// ValidateItem checks item fields before a write
func ValidateItem(item *models.Item) error {
	v := &ValidationError{}
	if item.Name == "" {
		v.Add("name", "is required")
	} else if len(item.Name) > 200 {
		v.Add("name", "must be at most 200 characters")
	}
	if len(item.SKU) > 50 {
		v.Add("sku", "must be at most 50 characters")
	}
	if !item.Category.Valid() {
		v.Add("category", "is not a known category")
	}
	if !item.UnitType.Valid() {
		v.Add("unit_type", "is not a known unit")
	}
	if item.Quantity < 0 {
		v.Add("quantity", "cannot be negative")
	}
	if item.MinQuantity < 0 {
		v.Add("min_quantity", "cannot be negative")
	}
	if item.MaxQuantity != nil && *item.MaxQuantity < item.MinQuantity {
		v.Add("max_quantity", "must be at least the minimum quantity")
	}
	if item.UnitCost.IsNegative() {
		v.Add("unit_cost", "cannot be negative")
	}
	return v.Err()
}

func checkSupplier(tx *gorm.DB, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Supplier{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		v := &ValidationError{}
		v.Add("supplier_id", "supplier does not exist")
		return v
	}
	return nil
}

func checkSKUFree(tx *gorm.DB, sku, exceptID string) error {
	query := tx.Model(&models.Item{}).Where("sku = ?", sku)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%s: %w", sku, ErrDuplicateSKU)
	}
	return nil
}
