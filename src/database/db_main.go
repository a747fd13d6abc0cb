package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"positionalerts/src/model"
)

// OpenPostgres connects to the durable SQL backend and migrates the
// key-value table.
func OpenPostgres(config Config) (*gorm.DB, error) {
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseURL),
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	logrus.Info("[database] postgres connection established")

	return db, migrate(db)
}

// OpenSQLite opens the local-file database used outside production.
func OpenSQLite(config Config) (*gorm.DB, error) {
	path := config.SQLitePath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path),
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logrus.WithField("path", path).Info("[database] sqlite file opened")

	return db, migrate(db)
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")
	return nil
}
