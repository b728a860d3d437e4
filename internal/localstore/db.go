package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
)

// ErrMemoryDriver is returned by Open for the memory driver, which needs no
// database.
var ErrMemoryDriver = errors.New("localstore: memory driver has no database")

// Open connects to the configured database.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case runtimeconfig.StorageSQLite:
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("localstore: open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.StoragePostgres:
		sqldb, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("localstore: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "", runtimeconfig.StorageMemory:
		return nil, ErrMemoryDriver
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}
}

// Migrate creates the entries table when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("localstore: migrate requires a database")
	}
	if _, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("localstore: create entries table: %w", err)
	}
	return nil
}
