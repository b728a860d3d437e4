package localstore

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/pkg/testsupport"
)

func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	sqldb, err := testsupport.NewSQLiteMemoryDB(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStoreSetGetDelete(t *testing.T) {
	store := NewStore(newTestDB(t, "localstore_crud"))
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "access_token"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "access_token", "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "access_token", "tok-2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	value, ok, err := store.Get(ctx, "access_token")
	if err != nil || !ok || value != "tok-2" {
		t.Fatalf("unexpected value %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Delete(ctx, "access_token", "never_set"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "access_token"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestStoreWithCache(t *testing.T) {
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	store := NewStore(newTestDB(t, "localstore_cache"), WithCache(service, repocache.NewDefaultKeySerializer()))
	ctx := context.Background()

	if err := store.Set(ctx, "user", `{"id":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := store.Get(ctx, "user")
	if err != nil || !ok || value != `{"id":1}` {
		t.Fatalf("unexpected value %q ok=%v err=%v", value, ok, err)
	}
}

func TestOpenRejectsMemoryAndUnknownDrivers(t *testing.T) {
	if _, err := Open(runtimeconfig.StorageConfig{Driver: runtimeconfig.StorageMemory}); !errors.Is(err, ErrMemoryDriver) {
		t.Fatalf("expected ErrMemoryDriver, got %v", err)
	}
	if _, err := Open(runtimeconfig.StorageConfig{Driver: "redis"}); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(runtimeconfig.StorageConfig{Driver: runtimeconfig.StorageSQLite, DSN: "file:localstore_open?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
}
