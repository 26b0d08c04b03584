package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/config"
)

// Options tune Open
type Options struct {
	// DisableQueryLog keeps statements out of the debug query log
	DisableQueryLog bool
	// QueryLog receives executed statements; defaults to SQLLogger
	QueryLog *QueryLogger
}

// Open connects to the configured database
func Open(cfg *config.DatabaseConfig, log *zap.Logger, opts Options) (*gorm.DB, error) {
	qlog := opts.QueryLog
	if qlog == nil {
		qlog = SQLLogger
	}
	if opts.DisableQueryLog {
		qlog = nil
	}

	gormConfig := &gorm.Config{
		Logger: NewGormLogger(log, qlog),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		QueryFields: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=1&_busy_timeout=5000")
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		if err := db.Exec(fmt.Sprintf("SET search_path TO %s, public", quoteIdent(cfg.Schema))).Error; err != nil {
			log.Warn("could not set search_path", zap.String("schema", cfg.Schema), zap.Error(err))
		}
	}

	log.Info("database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// CheckConnection pings the database
func CheckConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
