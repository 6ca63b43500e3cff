package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/model"
)

// sqlitePrefix selects the sqlite driver for local runs, e.g. "sqlite:fixtures.db".
const sqlitePrefix = "sqlite:"

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&model.Fixture{},
	&model.FixturePart{},
	&model.Usage{},
	&model.HealthEvent{},
	&model.MaintenanceEvent{},
	&model.User{},
	&model.PushSubscription{},
}

// Open connects to the configured database without migrating it.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
	return db, nil
}

// Init opens the database and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. The slot index is PostgreSQL only.
func Migrate(db *gorm.DB, cfg *config.DatabaseConfig) error {
	log := slog.With("component", "db")

	log.Info("Running database migrations...")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableSlotIndex && db.Dialector.Name() == "postgres" {
		log.Info("Applying fixture slot indexes...")
		if err := applySlotDDL(db); err != nil {
			log.Warn("failed to apply slot DDL, continuing without it", "err", err)
		}
	}

	log.Info("Database initialization complete.")
	return nil
}

func dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	return postgres.Open(dsn)
}

func applySlotDDL(db *gorm.DB) error {
	ddls := []string{
		// at most one LA Slot and one RA Slot per parent
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_fixture_parts_parent_slot ON fixture_parts (parent_fixture_id, tester_type) " +
			"WHERE tester_type IN ('LA Slot', 'RA Slot');",

		// latest-usage-per-part lookups
		"CREATE INDEX IF NOT EXISTS idx_usage_part_create_date ON usage (fixture_part_id, create_date DESC);",

		// open ticket counts
		"CREATE INDEX IF NOT EXISTS idx_fixture_maintenance_open ON fixture_maintenance (fixture_id) WHERE is_completed = false;",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
