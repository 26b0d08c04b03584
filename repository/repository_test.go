package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/database/dbtest"
	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	db        *gorm.DB
	now       time.Time
	items     *ItemStore
	suppliers *SupplierStore
	txns      *TransactionStore
	activity  *ActivityStore
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = dbtest.Open(s.T())
	s.now = time.Date(2024, 5, 14, 3, 0, 0, 0, time.UTC)
	s.items = NewItemStore(s.db)
	s.suppliers = NewSupplierStore(s.db)
	s.txns = NewTransactionStore(s.db, WithClock(func() time.Time { return s.now }))
	s.activity = NewActivityStore(s.db)
}

func (s *StoreSuite) newItem(name string, qty, minQty int64) *models.Item {
	item := &models.Item{
		Name:        name,
		Category:    models.CategoryRobotics,
		UnitType:    models.UnitPiece,
		Quantity:    qty,
		MinQuantity: minQty,
		UnitCost:    decimal.NewFromInt(10),
	}
	s.Require().NoError(s.items.Create(s.ctx, item))
	return item
}

func (s *StoreSuite) TestCreateItemGeneratesSKU() {
	first := s.newItem("Arduino Uno", 0, 1)
	second := s.newItem("Arduino Nano", 0, 1)

	s.Equal("ROB-ARD-001", first.SKU)
	s.Equal("ROB-ARD-002", second.SKU)
	s.True(first.IsActive)
	s.NotEmpty(first.ID)
}

func (s *StoreSuite) TestCreateItemValidation() {
	maxQty := int64(2)
	err := s.items.Create(s.ctx, &models.Item{
		Category:    "toys",
		UnitType:    models.UnitBox,
		MinQuantity: 5,
		MaxQuantity: &maxQty,
		UnitCost:    decimal.NewFromInt(-1),
	})

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.ErrorIs(err, ErrInvalidInput)
	s.Contains(verr.Fields, "name")
	s.Contains(verr.Fields, "category")
	s.Contains(verr.Fields, "max_quantity")
	s.Contains(verr.Fields, "unit_cost")
}

func (s *StoreSuite) TestCreateItemRejectsDuplicateSKUAndUnknownSupplier() {
	item := s.newItem("Glue Gun", 0, 0)

	err := s.items.Create(s.ctx, &models.Item{
		Name: "Other", SKU: item.SKU, Category: models.CategoryArts, UnitType: models.UnitPiece,
	})
	s.ErrorIs(err, ErrDuplicateSKU)

	missing := "00000000-0000-0000-0000-000000000000"
	err = s.items.Create(s.ctx, &models.Item{
		Name: "Other", Category: models.CategoryArts, UnitType: models.UnitPiece, SupplierID: &missing,
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *StoreSuite) TestUpdateItemKeepsQuantity() {
	item := s.newItem("Servo", 5, 1)

	edit := *item
	edit.Name = "Micro Servo"
	edit.Quantity = 999
	edit.MinQuantity = 0
	s.Require().NoError(s.items.Update(s.ctx, &edit))

	got, err := s.items.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal("Micro Servo", got.Name)
	s.Equal(int64(5), got.Quantity)
	s.Equal(int64(0), got.MinQuantity)
	s.Equal(item.SKU, got.SKU)
}

func (s *StoreSuite) TestGetMissingItem() {
	_, err := s.items.Get(s.ctx, "00000000-0000-0000-0000-000000000000")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestListItemsFiltersAndPaginates() {
	s.newItem("Resistor", 0, 5)
	s.newItem("Capacitor", 3, 5)
	s.newItem("Breadboard", 50, 5)
	s.Require().NoError(s.items.Create(s.ctx, &models.Item{
		Name: "Paint Brush", Category: models.CategoryArts, UnitType: models.UnitSet, Quantity: 10,
	}))

	all, page, err := s.items.List(s.ctx, ItemFilter{PageSize: 2})
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal(int64(4), page.Total)
	s.Equal(2, page.TotalPages)
	s.Equal("Breadboard", all[0].Name)
	s.True(page.HasNext())

	low, _, err := s.items.List(s.ctx, ItemFilter{Status: ledger.StatusLow})
	s.Require().NoError(err)
	s.Require().Len(low, 1)
	s.Equal("Capacitor", low[0].Name)

	out, _, err := s.items.List(s.ctx, ItemFilter{Status: ledger.StatusOutOfStock})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("Resistor", out[0].Name)

	arts, _, err := s.items.List(s.ctx, ItemFilter{Category: models.CategoryArts})
	s.Require().NoError(err)
	s.Len(arts, 1)

	found, _, err := s.items.List(s.ctx, ItemFilter{Search: "BREAD"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Breadboard", found[0].Name)

	desc, _, err := s.items.List(s.ctx, ItemFilter{SortBy: "quantity", SortOrder: "desc"})
	s.Require().NoError(err)
	s.Equal("Breadboard", desc[0].Name)
}

func (s *StoreSuite) TestPageSizeIsCapped() {
	_, page, err := s.items.List(s.ctx, ItemFilter{PageSize: 1000})
	s.Require().NoError(err)
	s.Equal(MaxPageSize, page.Size)
	s.Equal(1, page.Number)
}

func (s *StoreSuite) TestLowStock() {
	s.newItem("A", 4, 5)
	s.newItem("B", 0, 10)
	s.newItem("C", 20, 5)

	items, err := s.items.LowStock(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("B", items[0].Name)
}

func (s *StoreSuite) TestDeleteItem() {
	unused := s.newItem("Unused", 0, 0)
	deactivated, err := s.items.Delete(s.ctx, unused.ID)
	s.Require().NoError(err)
	s.False(deactivated)
	_, err = s.items.Get(s.ctx, unused.ID)
	s.ErrorIs(err, ErrNotFound)

	used := s.newItem("Used", 0, 0)
	_, err = s.txns.Record(s.ctx, RecordInput{ItemID: used.ID, Type: models.TransactionPurchase, Quantity: 1})
	s.Require().NoError(err)

	deactivated, err = s.items.Delete(s.ctx, used.ID)
	s.Require().NoError(err)
	s.True(deactivated)
	got, err := s.items.Get(s.ctx, used.ID)
	s.Require().NoError(err)
	s.False(got.IsActive)
}

func (s *StoreSuite) TestSupplierLifecycle() {
	email := "sales@maker.ph"
	sup := &models.Supplier{Name: " Maker Supply ", ContactEmail: &email}
	s.Require().NoError(s.suppliers.Create(s.ctx, sup))
	s.Equal("Maker Supply", sup.Name)

	phone := "+63 2 8123 4567"
	s.Require().NoError(s.suppliers.Update(s.ctx, &models.Supplier{BaseModel: models.BaseModel{ID: sup.ID}, Phone: &phone}))

	got, err := s.suppliers.Get(s.ctx, sup.ID)
	s.Require().NoError(err)
	s.Equal("Maker Supply", got.Name)
	s.Equal(phone, *got.Phone)
	s.Equal(email, *got.ContactEmail)

	s.Require().NoError(s.suppliers.Delete(s.ctx, sup.ID))
	active, err := s.suppliers.List(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(active)
	all, err := s.suppliers.List(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.False(all[0].IsActive)
}

func (s *StoreSuite) TestSupplierValidation() {
	bad := "not-an-email"
	err := s.suppliers.Create(s.ctx, &models.Supplier{ContactEmail: &bad})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "name")
	s.Contains(verr.Fields, "contact_email")

	s.ErrorIs(s.suppliers.Delete(s.ctx, "00000000-0000-0000-0000-000000000000"), ErrNotFound)
}

func (s *StoreSuite) TestRecordPurchaseAndSale() {
	item := s.newItem("LED Pack", 0, 5)

	buy, err := s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionPurchase, Quantity: 20, UnitPrice: decimal.NewFromInt(8),
	})
	s.Require().NoError(err)
	s.Regexp(`^TXN-20240514-[0-9a-f]{8}$`, buy.ReferenceNumber)
	s.Equal(int64(20), buy.Item.Quantity)
	boughtAt := s.now

	s.now = s.now.Add(time.Hour)
	_, err = s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionSale, Quantity: 6, UnitPrice: decimal.NewFromInt(15),
		ReferenceNumber: "POS-1",
	})
	s.Require().NoError(err)

	got, err := s.items.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(int64(14), got.Quantity)
	s.Require().NotNil(got.LastOrderedAt)
	s.True(got.LastOrderedAt.Equal(boughtAt))

	rows, err := s.txns.ListForItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	bal := ledger.RunningBalances(*got, rows)
	s.Equal(int64(0), bal.Opening)
	s.Equal(int64(14), bal.Closing)

	recent, err := s.txns.List(s.ctx, TransactionFilter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("POS-1", recent[0].ReferenceNumber)
	s.Equal("LED Pack", recent[0].Item.Name)

	logs, err := s.activity.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(logs, 3)
}

func (s *StoreSuite) TestRecordRejectsNegativeStock() {
	item := s.newItem("Filament", 3, 1)

	_, err := s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: models.TransactionWriteOff, Quantity: 4})
	s.ErrorIs(err, ErrInsufficientStock)

	_, err = s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: models.TransactionAdjustment, Quantity: -4})
	s.ErrorIs(err, ErrInsufficientStock)

	got, err := s.items.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), got.Quantity)

	rows, err := s.txns.ListForItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *StoreSuite) TestRecordValidation() {
	item := s.newItem("Solder", 3, 1)

	_, err := s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: models.TransactionAdjustment})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: "refund", Quantity: 1})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionSale, Quantity: 1, UnitPrice: decimal.NewFromInt(-2),
	})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.txns.Record(s.ctx, RecordInput{
		ItemID: "00000000-0000-0000-0000-000000000000", Type: models.TransactionPurchase, Quantity: 1,
	})
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestRecordRejectsInactiveItem() {
	item := s.newItem("Old Kit", 3, 1)
	_, err := s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: models.TransactionSale, Quantity: 1})
	s.Require().NoError(err)
	_, err = s.items.Delete(s.ctx, item.ID)
	s.Require().NoError(err)

	_, err = s.txns.Record(s.ctx, RecordInput{ItemID: item.ID, Type: models.TransactionSale, Quantity: 1})
	s.ErrorIs(err, ErrInactiveItem)
}

func (s *StoreSuite) TestRecordRejectsOutOfOrderTimestamps() {
	item := s.newItem("Servo", 0, 1)

	_, err := s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionPurchase, Quantity: 10, UnitPrice: decimal.NewFromInt(5),
	})
	s.Require().NoError(err)

	_, err = s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionSale, Quantity: 5, UnitPrice: decimal.NewFromInt(9),
		RecordedAt: s.now.AddDate(0, 0, -7),
	})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "recorded_at")
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.txns.Record(s.ctx, RecordInput{
		ItemID: item.ID, Type: models.TransactionPurchase, Quantity: 1, UnitPrice: decimal.NewFromInt(5),
		RecordedAt: s.now.AddDate(5, 0, 0),
	})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "recorded_at")

	got, err := s.items.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(int64(10), got.Quantity)

	rows, err := s.txns.ListForItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	bal := ledger.RunningBalances(*got, rows)
	s.Equal(int64(0), bal.Opening)
	for _, r := range bal.Rows {
		s.GreaterOrEqual(r.Balance, int64(0))
	}

	vals := ledger.Valuation(*got, rows)
	s.Require().Len(vals, 2)
	s.Equal("5", vals[1].AverageCost.String())
	s.Equal("50", vals[1].BalanceValue.String())
}

func (s *StoreSuite) TestListTransactionsByRange() {
	item := s.newItem("Clay", 0, 1)
	for i, day := range []int{1, 5, 10} {
		_, err := s.txns.Record(s.ctx, RecordInput{
			ItemID:     item.ID,
			Type:       models.TransactionPurchase,
			Quantity:   int64(i + 1),
			RecordedAt: time.Date(2024, 5, day, 8, 0, 0, 0, time.UTC),
		})
		s.Require().NoError(err)
	}

	rows, err := s.txns.List(s.ctx, TransactionFilter{
		From: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(int64(2), rows[0].Quantity)

	typed, err := s.txns.List(s.ctx, TransactionFilter{Type: models.TransactionSale})
	s.Require().NoError(err)
	s.Empty(typed)
}
