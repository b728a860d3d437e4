package di

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-admin/internal/localstore"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/internal/session"
	"github.com/goliatone/go-cms-admin/pkg/testsupport"
)

func TestContainerDefaultsToMemoryStore(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.SessionStore().(*session.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", container.SessionStore())
	}
}

func TestContainerOpensSQLiteStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:container_sqlite_%d?mode=memory&cache=shared", time.Now().UnixNano())

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.SessionStore().(*localstore.Store); !ok {
		t.Fatalf("expected localstore, got %T", container.SessionStore())
	}
	if container.cacheService == nil {
		t.Fatalf("expected cache service from storage cache ttl")
	}

	ctx := context.Background()
	if err := container.SessionStore().Set(ctx, session.KeyAccessToken, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !container.Session().Authenticated(ctx) {
		t.Fatalf("expected session to read the persisted token")
	}
}

func TestContainerUsesSuppliedBunDB(t *testing.T) {
	sqlDB, err := testsupport.NewSQLiteMemoryDB("container_supplied_db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.SessionStore().(*localstore.Store); !ok {
		t.Fatalf("expected localstore, got %T", container.SessionStore())
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("expected supplied db to stay open: %v", err)
	}
}
