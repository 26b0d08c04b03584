package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/models"
	"github.com/kpdgayao/vivita-inventory/repository"
)

// SeedOptions control Seed
type SeedOptions struct {
	// Force clears existing data first
	Force bool
	// Now anchors the generated ledger; zero means time.Now
	Now time.Time
	// Days of ledger history to generate
	Days int
}

// SeedResult counts what Seed inserted
type SeedResult struct {
	Suppliers    int
	Items        int
	Transactions int
	Skipped      bool
}

type seedItem struct {
	name     string
	desc     string
	category models.Category
	unit     models.UnitType
	min      int64
	max      *int64
	cost     string
	price    string
	supplier int
	// dailySales is the number of units sold on a selling day
	dailySales int64
	restock    int64
}

var seedSuppliers = []models.Supplier{
	{Name: "Makerlab Electronics", ContactName: strPtr("Rina Dizon"), ContactEmail: strPtr("orders@makerlab.ph"), Phone: strPtr("+63 2 8531 0101"), Address: strPtr("Gil Puyat Ave, Makati City")},
	{Name: "Crafters Depot", ContactName: strPtr("Paolo Reyes"), ContactEmail: strPtr("sales@craftersdepot.ph"), Phone: strPtr("+63 2 8634 2202"), Address: strPtr("Kamuning, Quezon City")},
	{Name: "Metro Office & Pantry", ContactName: strPtr("Joy Santos"), ContactEmail: strPtr("hello@metro-op.ph"), Phone: strPtr("+63 917 555 0303"), Remarks: strPtr("Delivers Tuesdays and Fridays")},
}

var seedItems = []seedItem{
	{"Arduino Uno R3", "Microcontroller board for workshops", models.CategoryRobotics, models.UnitPiece, 10, int64Ptr(60), "650.00", "900.00", 0, 2, 30},
	{"Jumper Wire Set", "120 pcs male/female", models.CategoryRobotics, models.UnitPack, 15, int64Ptr(80), "95.00", "150.00", 0, 4, 40},
	{"Servo Motor SG90", "", models.CategoryRobotics, models.UnitPiece, 20, nil, "85.00", "130.00", 0, 5, 60},
	{"Acrylic Paint Set", "12 colors, 75ml", models.CategoryArts, models.UnitSet, 8, int64Ptr(40), "320.00", "450.00", 1, 1, 20},
	{"Glue Sticks", "Hot glue refills", models.CategoryArts, models.UnitPack, 12, nil, "60.00", "95.00", 1, 3, 36},
	{"PLA Filament 1.75mm", "1kg spool", models.CategoryDesign, models.UnitKg, 5, int64Ptr(25), "980.00", "1250.00", 0, 1, 12},
	{"Cardboard Sheets", "A3 corrugated", models.CategoryDesign, models.UnitPack, 10, nil, "140.00", "0", 1, 2, 25},
	{"All-purpose Flour", "", models.CategoryKitchen, models.UnitKg, 6, int64Ptr(30), "58.00", "0", 2, 2, 20},
	{"Baking Cups", "Paper cupcake liners", models.CategoryKitchen, models.UnitBox, 4, nil, "75.00", "0", 2, 1, 10},
	{"Bond Paper A4", "500 sheets", models.CategoryOffice, models.UnitBox, 5, int64Ptr(20), "230.00", "0", 2, 1, 10},
}

// Seed inserts sample suppliers, items and a ledger. Ledger rows go
// through TransactionStore.Record so balances stay consistent.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger, opts SeedOptions) (*SeedResult, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 && !opts.Force {
		log.Info("database already has data, skipping seed", zap.Int64("items", count))
		return &SeedResult{Skipped: true}, nil
	}
	if opts.Force {
		if err := ClearData(ctx, db, log); err != nil {
			return nil, err
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	days := opts.Days
	if days <= 0 {
		days = 30
	}

	suppliers := repository.NewSupplierStore(db)
	items := repository.NewItemStore(db)
	txns := repository.NewTransactionStore(db, repository.WithClock(func() time.Time { return now }))

	res := &SeedResult{}
	supplierIDs := make([]string, 0, len(seedSuppliers))
	for _, s := range seedSuppliers {
		sup := s
		if err := suppliers.Create(ctx, &sup); err != nil {
			return nil, fmt.Errorf("failed to seed supplier %s: %w", s.Name, err)
		}
		supplierIDs = append(supplierIDs, sup.ID)
		res.Suppliers++
	}

	start := now.AddDate(0, 0, -days)
	for i, si := range seedItems {
		item := &models.Item{
			Name:        si.name,
			Category:    si.category,
			UnitType:    si.unit,
			MinQuantity: si.min,
			MaxQuantity: si.max,
			UnitCost:    decimal.RequireFromString(si.cost),
			SupplierID:  &supplierIDs[si.supplier],
		}
		if si.desc != "" {
			item.Description = strPtr(si.desc)
		}
		if err := items.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to seed item %s: %w", si.name, err)
		}
		res.Items++

		n, err := seedLedger(ctx, txns, item, si, i, start, days)
		if err != nil {
			return nil, fmt.Errorf("failed to seed ledger for %s: %w", si.name, err)
		}
		res.Transactions += n
	}

	log.Info("seed completed",
		zap.Int("suppliers", res.Suppliers),
		zap.Int("items", res.Items),
		zap.Int("transactions", res.Transactions))
	return res, nil
}

// seedLedger writes a deterministic month of movements for one item
func seedLedger(ctx context.Context, txns *repository.TransactionStore, item *models.Item, si seedItem, idx int, start time.Time, days int) (int, error) {
	cost := decimal.RequireFromString(si.cost)
	price := decimal.RequireFromString(si.price)
	onHand := int64(0)
	written := 0

	record := func(in repository.RecordInput) error {
		in.ItemID = item.ID
		t, err := txns.Record(ctx, in)
		if err != nil {
			return err
		}
		onHand = t.Item.Quantity
		written++
		return nil
	}

	at := func(day, hour int) time.Time {
		return start.AddDate(0, 0, day).Add(time.Duration(9+hour) * time.Hour)
	}

	if err := record(repository.RecordInput{
		Type: models.TransactionPurchase, Quantity: si.restock * 2, UnitPrice: cost,
		Notes: "Opening stock", RecordedAt: at(0, 0),
	}); err != nil {
		return written, err
	}

	for day := 1; day < days; day++ {
		// alternate selling days per item
		if (day+idx)%3 != 0 {
			qty := si.dailySales + int64((day+idx)%2)
			out := models.TransactionSale
			unit := price
			if price.IsZero() {
				// consumables are used up in workshops
				out = models.TransactionWriteOff
				unit = decimal.Zero
			}
			if qty <= onHand {
				if err := record(repository.RecordInput{
					Type: out, Quantity: qty, UnitPrice: unit, RecordedAt: at(day, 1),
				}); err != nil {
					return written, err
				}
			}
		}

		if onHand <= si.min && day < days-3 && (day+idx)%5 != 0 {
			restockCost := cost.Mul(decimal.NewFromFloat(1 + float64(day%4)/100))
			if err := record(repository.RecordInput{
				Type: models.TransactionPurchase, Quantity: si.restock, UnitPrice: restockCost.Round(2),
				Notes: "Restock", RecordedAt: at(day, 4),
			}); err != nil {
				return written, err
			}
		}

		if day == days/2 && idx%4 == 1 && onHand > 0 {
			if err := record(repository.RecordInput{
				Type: models.TransactionAdjustment, Quantity: -1,
				Notes: "Cycle count correction", RecordedAt: at(day, 6),
			}); err != nil {
				return written, err
			}
		}

		if day == days/3 && idx%5 == 2 && onHand > 1 {
			if err := record(repository.RecordInput{
				Type: models.TransactionTransferOut, Quantity: 1,
				Notes: "Lent to partner makerspace", RecordedAt: at(day, 7),
			}); err != nil {
				return written, err
			}
			if err := record(repository.RecordInput{
				Type: models.TransactionTransferIn, Quantity: 1, UnitPrice: cost,
				Notes: "Returned from partner makerspace", RecordedAt: at(day, 8),
			}); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// ClearData deletes all rows in reverse dependency order
func ClearData(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	tables := []string{"activity_logs", "transactions", "items", "suppliers"}
	for _, table := range tables {
		if err := db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("could not clear table %s: %w", table, err)
		}
		log.Info("cleared table", zap.String("table", table))
	}
	return nil
}
