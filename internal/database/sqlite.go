package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bramment1/poke-trade-scan-web/internal/models"
)

// Open connects to the SQLite file at dbPath, migrates the schema and returns
// the handle. The caller owns the handle; there is no package-level DB.
func Open(dbPath string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("Database connected successfully")

	if err := db.AutoMigrate(&models.Card{}, &models.CollectionEntry{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("data migrations: %w", err)
	}

	log.Info().Msg("Database migration completed")
	return db, nil
}

// dsn enables WAL, a busy timeout and foreign keys on the mattn driver.
// Transactions take the write lock at BEGIN so concurrent writers wait on the
// busy timeout instead of failing a lock upgrade.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
}
