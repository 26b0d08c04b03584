package database

import (
	"embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/models"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// MigrateOptions control Migrate
type MigrateOptions struct {
	Schema string
	// SchemaOnly creates types and tables but skips triggers and policies
	SchemaOnly bool
}

// Migrate brings the schema up to date. Enum types, check constraints,
// triggers and row level security are postgres only; other dialects get
// the tables and indexes.
func Migrate(db *gorm.DB, log *zap.Logger, opts MigrateOptions) error {
	postgres := db.Dialector.Name() == "postgres"
	log.Info("starting migration", zap.String("dialect", db.Dialector.Name()))

	if postgres {
		if opts.Schema != "" {
			if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + quoteIdent(opts.Schema)).Error; err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
			if err := db.Exec(fmt.Sprintf("SET search_path TO %s, public", quoteIdent(opts.Schema))).Error; err != nil {
				return fmt.Errorf("failed to set search path: %w", err)
			}
		}
		if err := CreateEnumTypes(db, log); err != nil {
			return err
		}
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("tables migrated", zap.Int("count", len(models.AllModels())))

	if postgres {
		AddCustomConstraints(db, log)
	}
	CreateIndexes(db, log)

	if postgres && !opts.SchemaOnly {
		if err := CreateTriggers(db, log); err != nil {
			return err
		}
		if err := EnableRowLevelSecurity(db, log); err != nil {
			return err
		}
	}

	log.Info("migration completed")
	return nil
}

type enumType struct {
	name   string
	values []string
}

func enumTypes() []enumType {
	var cats, units, types []string
	for _, c := range models.Categories() {
		cats = append(cats, string(c))
	}
	for _, u := range models.UnitTypes() {
		units = append(units, string(u))
	}
	for _, t := range models.TransactionTypes() {
		types = append(types, string(t))
	}
	return []enumType{
		{"item_category", cats},
		{"unit_type", units},
		{"transaction_type", types},
	}
}

// CreateEnumTypes creates the postgres enum types used by the models.
// Values added to an existing type are appended.
func CreateEnumTypes(db *gorm.DB, log *zap.Logger) error {
	for _, e := range enumTypes() {
		quoted := make([]string, len(e.values))
		for i, v := range e.values {
			quoted[i] = quoteLiteral(v)
		}
		create := fmt.Sprintf(`DO $$ BEGIN
    CREATE TYPE %s AS ENUM (%s);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;`, e.name, strings.Join(quoted, ", "))
		if err := db.Exec(create).Error; err != nil {
			return fmt.Errorf("create type %s: %w", e.name, err)
		}
		for _, v := range e.values {
			if err := db.Exec(fmt.Sprintf("ALTER TYPE %s ADD VALUE IF NOT EXISTS %s", e.name, quoteLiteral(v))).Error; err != nil {
				return fmt.Errorf("extend type %s: %w", e.name, err)
			}
		}
		log.Debug("enum type ready", zap.String("type", e.name))
	}
	return nil
}

// AddCustomConstraints adds check constraints that gorm tags cannot express
func AddCustomConstraints(db *gorm.DB, log *zap.Logger) {
	constraints := []struct {
		name  string
		query string
	}{
		{"chk_items_quantity", "ALTER TABLE items ADD CONSTRAINT chk_items_quantity CHECK (quantity >= 0)"},
		{"chk_items_min_quantity", "ALTER TABLE items ADD CONSTRAINT chk_items_min_quantity CHECK (min_quantity >= 0)"},
		{"chk_items_max_quantity", "ALTER TABLE items ADD CONSTRAINT chk_items_max_quantity CHECK (max_quantity IS NULL OR max_quantity >= min_quantity)"},
		{"chk_items_unit_cost", "ALTER TABLE items ADD CONSTRAINT chk_items_unit_cost CHECK (unit_cost >= 0)"},
		{"chk_transactions_unit_price", "ALTER TABLE transactions ADD CONSTRAINT chk_transactions_unit_price CHECK (unit_price >= 0)"},
		{"chk_transactions_quantity", "ALTER TABLE transactions ADD CONSTRAINT chk_transactions_quantity CHECK (quantity <> 0 AND (transaction_type = 'adjustment' OR quantity > 0))"},
	}

	for _, c := range constraints {
		if err := db.Exec(c.query).Error; err != nil {
			// 42710 duplicate_object
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "42710") {
				log.Warn("failed to add constraint", zap.String("constraint", c.name), zap.Error(err))
			}
			continue
		}
		log.Info("added constraint", zap.String("constraint", c.name))
	}
}

// CreateIndexes creates the composite indexes the ledger queries use
func CreateIndexes(db *gorm.DB, log *zap.Logger) {
	indexes := []struct {
		name  string
		query string
	}{
		{"idx_transactions_item_created", "CREATE INDEX IF NOT EXISTS idx_transactions_item_created ON transactions(item_id, created_at)"},
		{"idx_transactions_created", "CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions(created_at)"},
		{"idx_items_stock_level", "CREATE INDEX IF NOT EXISTS idx_items_stock_level ON items(quantity, min_quantity)"},
		{"idx_activity_logs_table_record", "CREATE INDEX IF NOT EXISTS idx_activity_logs_table_record ON activity_logs(table_name, record_id)"},
	}

	created := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Warn("failed to create index", zap.String("index", idx.name), zap.Error(err))
			continue
		}
		created++
	}
	log.Info("indexes ready", zap.Int("count", created))
}

// CreateTriggers installs set_updated_at and its per-table triggers
func CreateTriggers(db *gorm.DB, log *zap.Logger) error {
	if err := executeSQLFile(db, "triggers.sql"); err != nil {
		return err
	}
	log.Info("triggers installed")
	return nil
}

// rlsTables are the tables guarded by row level security
var rlsTables = []string{"suppliers", "items", "transactions", "activity_logs"}

// EnableRowLevelSecurity turns on RLS and installs the policies:
// authenticated users may read, insert and update, service_role may do
// anything.
func EnableRowLevelSecurity(db *gorm.DB, log *zap.Logger) error {
	if err := executeSQLFile(db, "roles.sql"); err != nil {
		return err
	}

	for _, table := range rlsTables {
		stmts := []string{
			fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", table),
			fmt.Sprintf("GRANT SELECT, INSERT, UPDATE ON %s TO authenticated", table),
			fmt.Sprintf("GRANT ALL ON %s TO service_role", table),
		}
		policies := []struct {
			name string
			body string
		}{
			{table + "_select_authenticated", "FOR SELECT TO authenticated USING (true)"},
			{table + "_insert_authenticated", "FOR INSERT TO authenticated WITH CHECK (true)"},
			{table + "_update_authenticated", "FOR UPDATE TO authenticated USING (true) WITH CHECK (true)"},
			{table + "_all_service_role", "FOR ALL TO service_role USING (true) WITH CHECK (true)"},
		}
		for _, p := range policies {
			stmts = append(stmts,
				fmt.Sprintf("DROP POLICY IF EXISTS %s ON %s", p.name, table),
				fmt.Sprintf("CREATE POLICY %s ON %s %s", p.name, table, p.body),
			)
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("row level security on %s: %w", table, err)
			}
		}
		log.Info("row level security enabled", zap.String("table", table))
	}
	return nil
}

// Drop removes every table, and on postgres the enum types and trigger
// function.
func Drop(db *gorm.DB, log *zap.Logger) error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	if db.Dialector.Name() == "postgres" {
		for _, e := range enumTypes() {
			if err := db.Exec("DROP TYPE IF EXISTS " + e.name).Error; err != nil {
				return fmt.Errorf("drop type %s: %w", e.name, err)
			}
		}
		if err := db.Exec("DROP FUNCTION IF EXISTS set_updated_at()").Error; err != nil {
			return fmt.Errorf("drop function: %w", err)
		}
	}
	log.Warn("all tables dropped")
	return nil
}

// executeSQLFile runs an embedded file in one statement so dollar quoted
// bodies stay intact.
func executeSQLFile(db *gorm.DB, filename string) error {
	sqlBytes, err := sqlFiles.ReadFile("sql/" + filename)
	if err != nil {
		return fmt.Errorf("failed to read SQL file %s: %w", filename, err)
	}
	if err := db.Exec(string(sqlBytes)).Error; err != nil {
		return fmt.Errorf("failed to execute SQL file %s: %w", filename, err)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
