//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/models"
	"github.com/kpdgayao/vivita-inventory/repository"
)

type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vivita_inventory"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  NewGormLogger(zap.NewNop(), nil),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(Migrate(s.db, zap.NewNop(), MigrateOptions{Schema: "inventory"}))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(ClearData(s.ctx, s.db, zap.NewNop()))
}

func (s *PostgresSuite) TestMigrateIsIdempotent() {
	s.Require().NoError(Migrate(s.db, zap.NewNop(), MigrateOptions{Schema: "inventory"}))

	var enums int64
	s.Require().NoError(s.db.Raw(`SELECT COUNT(*) FROM pg_type WHERE typname IN ('item_category', 'unit_type', 'transaction_type')`).Scan(&enums).Error)
	s.Equal(int64(3), enums)

	var rls bool
	s.Require().NoError(s.db.Raw(`SELECT relrowsecurity FROM pg_class WHERE relname = 'transactions'`).Scan(&rls).Error)
	s.True(rls)
}

func (s *PostgresSuite) TestCheckConstraintRejectsNegativeQuantity() {
	item := &models.Item{
		Name:     "Servo Motor",
		Category: models.CategoryRobotics,
		UnitType: models.UnitPiece,
		UnitCost: decimal.RequireFromString("180"),
	}
	s.Require().NoError(repository.NewItemStore(s.db).Create(s.ctx, item))

	err := s.db.Exec("UPDATE items SET quantity = -1 WHERE id = ?", item.ID).Error
	s.Error(err)
}

func (s *PostgresSuite) TestUpdatedAtTrigger() {
	sup := &models.Supplier{Name: "Makerlab"}
	s.Require().NoError(repository.NewSupplierStore(s.db).Create(s.ctx, sup))

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.db.Exec("ALTER TABLE suppliers DISABLE TRIGGER trg_suppliers_updated_at").Error)
	s.Require().NoError(s.db.Exec("UPDATE suppliers SET updated_at = ? WHERE id = ?", past, sup.ID).Error)
	s.Require().NoError(s.db.Exec("ALTER TABLE suppliers ENABLE TRIGGER trg_suppliers_updated_at").Error)

	s.Require().NoError(s.db.Exec("UPDATE suppliers SET remarks = 'weekly' WHERE id = ?", sup.ID).Error)
	var got models.Supplier
	s.Require().NoError(s.db.First(&got, "id = ?", sup.ID).Error)
	s.True(got.UpdatedAt.After(past))
}

func (s *PostgresSuite) TestSeedAndRecordWithRowLocks() {
	res, err := Seed(s.ctx, s.db, zap.NewNop(), SeedOptions{})
	s.Require().NoError(err)
	s.Greater(res.Transactions, 0)

	items := repository.NewItemStore(s.db)
	txns := repository.NewTransactionStore(s.db)
	all, err := items.All(s.ctx, false)
	s.Require().NoError(err)
	s.Require().NotEmpty(all)

	target := all[0]
	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := txns.Record(s.ctx, repository.RecordInput{
				ItemID:    target.ID,
				Type:      models.TransactionPurchase,
				Quantity:  5,
				UnitPrice: decimal.RequireFromString("10"),
			})
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		s.Require().NoError(<-done)
	}

	got, err := items.Get(s.ctx, target.ID)
	s.Require().NoError(err)
	s.Equal(target.Quantity+20, got.Quantity)
}
