package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"microblog/internal/config"
	"microblog/internal/models"
)

// Open connects to the configured database. PostgreSQL is used in
// production; SQLite backs development and tests.
func Open(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	sqlLogger, err := newSQLLogger(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         sqlLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DatabaseDriver, err)
	}

	logger.Info("Database connection opened", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

// newSQLLogger routes gorm's statement log through zap. Slow queries and
// failures are logged at warn; every statement is traced at debug level.
func newSQLLogger(cfg *config.Config, logger *zap.Logger) (gormlogger.Interface, error) {
	zapLevel, gormLevel := zap.WarnLevel, gormlogger.Warn
	if cfg.LogLevel == "debug" {
		zapLevel, gormLevel = zap.DebugLevel, gormlogger.Info
	}
	writer, err := zap.NewStdLogAt(logger.Named("gorm"), zapLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build sql logger: %w", err)
	}
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
	}), nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Micropost{}, &models.RevokedToken{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
