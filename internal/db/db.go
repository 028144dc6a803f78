package db

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/inkpost/internal/models"
)

// Open returns a GORM connection for a sqlite:// or postgres:// URL.
func Open(dbURL string, verbose bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isSQLite := false

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		isSQLite = true
		log.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix: must start with 'postgres://' or 'sqlite://'")
	}

	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		// and keeps in-memory databases alive between queries.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Println("Database connection established.")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// isDuplicate reports whether err is a unique constraint violation. Not every
// dialector translates errors, so the driver messages are checked too.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
