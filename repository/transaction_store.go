package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/metrics"
	"github.com/kpdgayao/vivita-inventory/models"
)

// TransactionFilter narrows a ledger listing
type TransactionFilter struct {
	ItemID string
	Type   models.TransactionType
	From   time.Time
	To     time.Time
	Limit  int
}

// RecordInput is a stock movement to append to the ledger
type RecordInput struct {
	ItemID          string
	Type            models.TransactionType
	Quantity        int64
	UnitPrice       decimal.Decimal
	ReferenceNumber string
	Notes           string
	// RecordedAt backdates the row; zero means now. It may not be in the
	// future or before the item's latest ledger row.
	RecordedAt time.Time
}

// Validate checks the input before touching the database
func (in RecordInput) Validate() error {
	v := &ValidationError{}
	if in.ItemID == "" {
		v.Add("item_id", "is required")
	}
	if !in.Type.Valid() {
		v.Add("transaction_type", "is not a known transaction type")
	} else if _, err := ledger.SignedDelta(in.Type, in.Quantity); err != nil {
		if in.Type == models.TransactionAdjustment {
			v.Add("quantity", "adjustment cannot be zero")
		} else {
			v.Add("quantity", "must be greater than zero")
		}
	}
	if in.UnitPrice.IsNegative() {
		v.Add("unit_price", "cannot be negative")
	}
	return v.Err()
}

// TransactionStore reads and appends ledger rows
type TransactionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// TransactionStoreOption configures a TransactionStore
type TransactionStoreOption func(*TransactionStore)

// WithClock overrides time.Now
func WithClock(now func() time.Time) TransactionStoreOption {
	return func(s *TransactionStore) {
		s.now = now
	}
}

func NewTransactionStore(db *gorm.DB, opts ...TransactionStoreOption) *TransactionStore {
	s := &TransactionStore{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns a ledger row with its item
func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Preload("Item").First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "transaction "+id)
	}
	return &t, nil
}

// List returns rows newest first
func (s *TransactionStore) List(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Preload("Item")
	if f.ItemID != "" {
		query = query.Where("item_id = ?", f.ItemID)
	}
	if f.Type != "" {
		query = query.Where("transaction_type = ?", f.Type)
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		query = query.Where("created_at < ?", f.To.UTC())
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	var txns []models.Transaction
	err := query.Order("created_at DESC, id DESC").Find(&txns).Error
	return txns, err
}

// ListForItem returns the item's rows in chronological order
func (s *TransactionStore) ListForItem(ctx context.Context, itemID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

// All returns every row in chronological order
func (s *TransactionStore) All(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&txns).Error
	return txns, err
}

// Record appends a movement and updates the item's on-hand quantity in a
// single database transaction.
func (s *TransactionStore) Record(ctx context.Context, in RecordInput) (*models.Transaction, error) {
	in.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	if err := in.Validate(); err != nil {
		metrics.TransactionRejected(metrics.ReasonInvalid)
		return nil, err
	}

	if !in.RecordedAt.IsZero() && in.RecordedAt.After(s.now()) {
		metrics.TransactionRejected(metrics.ReasonInvalid)
		v := &ValidationError{}
		v.Add("recorded_at", "cannot be in the future")
		return nil, v.Err()
	}

	var out models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&item, "id = ?", in.ItemID).Error; err != nil {
			return notFound(err, "item "+in.ItemID)
		}
		if !item.IsActive {
			return fmt.Errorf("%s: %w", item.Name, ErrInactiveItem)
		}
		// read the clock under the row lock so rows are appended in time
		// order per item
		now := s.now().UTC()
		at := now
		if !in.RecordedAt.IsZero() {
			at = in.RecordedAt.UTC()
			if err := checkAfterLatest(tx, item.ID, at); err != nil {
				return err
			}
		}

		next, err := ledger.Apply(item.Quantity, in.Type, in.Quantity)
		if err != nil {
			return fmt.Errorf("%s: %w", item.Name, err)
		}

		out = models.Transaction{
			ItemID:          item.ID,
			TransactionType: in.Type,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           strings.TrimSpace(in.Notes),
		}
		out.CreatedAt = at
		out.UpdatedAt = at
		if out.ReferenceNumber == "" {
			out.ReferenceNumber = NewReference(at)
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}

		updates := map[string]any{"quantity": next, "updated_at": now}
		if in.Type == models.TransactionPurchase {
			updates["last_ordered_at"] = at
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		item.Quantity = next
		out.Item = &item

		desc := fmt.Sprintf("%s %d x %s (%s), on hand %d",
			in.Type.Label(), in.Quantity, item.Name, out.ReferenceNumber, next)
		return logActivity(tx, models.ActivityTypeStockMovement, desc, out.TableName(), out.ID)
	})
	if err != nil {
		metrics.TransactionRejected(rejectReason(err))
		return nil, err
	}
	metrics.TransactionRecorded(string(in.Type))
	return &out, nil
}

func checkAfterLatest(tx *gorm.DB, itemID string, at time.Time) error {
	var last models.Transaction
	err := tx.Select("created_at").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if at.Before(last.CreatedAt) {
		v := &ValidationError{}
		v.Add("recorded_at", "cannot be earlier than the item's latest transaction")
		return v.Err()
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, ErrInactiveItem):
		return metrics.ReasonInactiveItem
	case errors.Is(err, ErrNotFound):
		return metrics.ReasonNotFound
	default:
		return metrics.ReasonInvalid
	}
}
