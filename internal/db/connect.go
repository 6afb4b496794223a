// Package db owns the embedded SQLite database: opening it, migrating its
// schema, and detecting external modification of the database file.
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the SQLite DSN for a database file. Foreign keys are enforced
// so project deletion cascades to items and file cards; the busy timeout
// covers brief lock contention with the change watcher.
func DSN(path string) string {
	if path == ":memory:" {
		path = "file::memory:"
	}
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// Open opens a GORM connection to the database file and brings the schema
// up to date. The store must not be used if Open returns an error: a failed
// migration step is fatal, not a degraded mode.
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Close closes the underlying sql.DB handle.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("db: close: %w", err)
	}
	return sqlDB.Close()
}
