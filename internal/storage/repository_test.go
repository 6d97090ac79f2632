package storage

import (
	"context"
	"path/filepath"
	"testing"
)

var _ KV = (*SQLiteRepository)(nil)

func TestSQLiteRepositoryGetSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "piggy.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	if _, found, err := repo.Get(ctx, "transactions"); err != nil || found {
		t.Fatalf("expected absent key, found=%v err=%v", found, err)
	}

	if err := repo.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "transactions", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, found, err := repo.Get(ctx, "transactions")
	if err != nil || !found || string(value) != `[{"id":"a"}]` {
		t.Fatalf("unexpected get: %q found=%v err=%v", value, found, err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "piggy.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Migrations are idempotent on an existing file.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	value, found, err := repo.Get(ctx, "k")
	if err != nil || !found || string(value) != "v" {
		t.Fatalf("value lost across reopen: %q found=%v err=%v", value, found, err)
	}
}

func TestRunMigrationsVersion(t *testing.T) {
	version, err := RunMigrations(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}
}
