package store

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("record not found")

// OpenLocal opens the on-disk sqlite database that serves the fast path.
// An empty path opens an in-memory database, which tests rely on.
func OpenLocal(path string) (*gorm.DB, error) {
	if path == "" {
		path = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	return db, Migrate(db)
}

// OpenRemote opens the durable postgres database.
func OpenRemote(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open remote database: %w", err)
	}
	return db, Migrate(db)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ProfileRow{}, &RecordingRow{}, &UserProgressRow{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
