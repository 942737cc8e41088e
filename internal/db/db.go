package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/logging"
	"factory-chatbot-backend/internal/model"
)

// Models lists every table owned by the setup routine, parents first.
var Models = []interface{}{
	&model.Machine{},
	&model.ProductionRecord{},
	&model.MaintenanceEntry{},
	&model.DowntimeIncident{},
	&model.PushSubscription{},
	&model.SubscriptionLine{},
}

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(log, gormlogger.Warn),
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

	log.Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.ApplyConstraints && cfg.Driver == "postgres" {
		log.Info("applying postgres constraints and indexes")
		if err := applyPostgresDDL(db); err != nil {
			log.Warn("failed to apply some postgres DDL, continuing without it", zap.Error(err))
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates every table in Models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// applyPostgresDDL enforces the enumerations and the non-negative downtime
// invariant at the database level, and adds the indexes the chatbot queries
// lean on. Each statement is idempotent.
func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		"ALTER TABLE machines DROP CONSTRAINT IF EXISTS machines_status_valid;",
		"ALTER TABLE machines ADD CONSTRAINT machines_status_valid " +
			"CHECK (status IN ('Running', 'Stopped', 'Maintenance'));",

		"ALTER TABLE production DROP CONSTRAINT IF EXISTS production_shift_valid;",
		"ALTER TABLE production ADD CONSTRAINT production_shift_valid " +
			"CHECK (shift IN ('Morning', 'Evening', 'Night'));",
		"ALTER TABLE production DROP CONSTRAINT IF EXISTS production_downtime_non_negative;",
		"ALTER TABLE production ADD CONSTRAINT production_downtime_non_negative CHECK (downtime_minutes >= 0);",

		"ALTER TABLE maintenance DROP CONSTRAINT IF EXISTS maintenance_status_valid;",
		"ALTER TABLE maintenance ADD CONSTRAINT maintenance_status_valid " +
			"CHECK (status IN ('Scheduled', 'In Progress', 'Completed'));",

		"ALTER TABLE downtime DROP CONSTRAINT IF EXISTS downtime_reason_valid;",
		"ALTER TABLE downtime ADD CONSTRAINT downtime_reason_valid " +
			"CHECK (reason IN ('Breakdown', 'Maintenance', 'Material Shortage', 'Quality Check', 'Power Outage', 'Other'));",

		// Latest rows for a line, newest first.
		"CREATE INDEX IF NOT EXISTS idx_production_line_id_date ON production (line_id, date DESC);",
		// Alert scan: today's rows above the threshold.
		"CREATE INDEX IF NOT EXISTS idx_production_date_downtime ON production (date, downtime_minutes);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
