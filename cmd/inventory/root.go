package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/cache"
	"github.com/kpdgayao/vivita-inventory/config"
	"github.com/kpdgayao/vivita-inventory/database"
	"github.com/kpdgayao/vivita-inventory/logger"
	"github.com/kpdgayao/vivita-inventory/repository"
)

// NewRootCommand creates the inventory command tree
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inventory",
		Short:         "Vivita inventory tracking",
		Long:          "Track items, suppliers and stock movements with a weighted average cost ledger.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewExportCommand())

	return cmd
}

// env is what every subcommand needs once configuration is loaded
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(cfg.Log, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Open(&cfg.Database, log, database.Options{QueryLog: database.SQLLogger})
	if err != nil {
		return nil, err
	}
	if err := database.CheckConnection(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.Warn("closing database", zap.Error(err))
	}
	_ = e.log.Sync()
}

func (e *env) migrate(schemaOnly bool) error {
	return database.Migrate(e.db, e.log, database.MigrateOptions{
		Schema:     e.cfg.Database.Schema,
		SchemaOnly: schemaOnly,
	})
}

// services wires the stores and the analytics service
type services struct {
	items     *repository.ItemStore
	suppliers *repository.SupplierStore
	txns      *repository.TransactionStore
	activity  *repository.ActivityStore
	analytics *analytics.Service
	cache     cache.Cache
}

func (e *env) services(ctx context.Context) (*services, error) {
	loc, err := e.cfg.App.Location()
	if err != nil {
		return nil, err
	}
	c, err := cache.New(ctx, e.cfg.Cache)
	if err != nil {
		return nil, err
	}

	s := &services{
		items:     repository.NewItemStore(e.db),
		suppliers: repository.NewSupplierStore(e.db),
		txns:      repository.NewTransactionStore(e.db),
		activity:  repository.NewActivityStore(e.db),
		cache:     c,
	}
	s.analytics = analytics.New(s.items, s.txns, c, e.log,
		analytics.WithLocation(loc),
		analytics.WithTTL(e.cfg.Cache.TTL),
	)
	return s, nil
}

func (s *services) close() {
	if closer, ok := s.cache.(io.Closer); ok {
		_ = closer.Close()
	}
}
