package database

import (
	"errors"
	"fmt"
	"log"
	"os"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Builder is the shared squirrel statement builder for composed queries.
// SQLite uses ? placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// ErrUnavailable indicates the backing database file is missing or cannot
// be opened. Handlers map it to a 5xx response rather than a not-found.
var ErrUnavailable = errors.New("sanctions database unavailable")

// Open opens a read-only connection to the sanctions database file. The
// dataset is externally owned; this service never writes or migrates it.
// Each request opens its own connection and closes it before returning.
func Open(path string) (*gorm.DB, error) {
	if _, err := os.Stat(path); err != nil {
		log.Printf("Error: database file not found: %s", path)
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Error: failed to open database %s: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return db, nil
}

// Close releases the underlying connection of a gorm handle opened by Open.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Warning: could not get underlying sql.DB for close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Warning: failed to close database connection: %v", err)
	}
}
