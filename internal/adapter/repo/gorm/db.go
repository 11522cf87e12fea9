package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the bookmark table when it does not exist yet. Records
// are append-only, so no further migrations apply in place.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	createSQL := `
CREATE TABLE IF NOT EXISTS bookmark_records (
  id TEXT PRIMARY KEY,
  token TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(createSQL).Error; err != nil {
		return fmt.Errorf("create bookmark_records: %w", err)
	}
	return nil
}
