package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"piggy/internal/storage"
)

var _ storage.KV = (*Store)(nil)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, found, err := s.Get(ctx, "transactions"); found || err != nil {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	buf := []byte("[]")
	if err := s.Set(ctx, "transactions", buf); err != nil {
		t.Fatalf("set: %v", err)
	}
	// The store keeps its own copy.
	buf[0] = 'X'

	v, found, err := s.Get(ctx, "transactions")
	if err != nil || !found || string(v) != "[]" {
		t.Fatalf("unexpected get: %q found=%v err=%v", v, found, err)
	}
	v[0] = 'Y'
	again, _, _ := s.Get(ctx, "transactions")
	if string(again) != "[]" {
		t.Fatalf("store mutated through returned slice: %q", again)
	}
}

func TestNewFromDirSeeds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Missing directory -> empty store
	s := NewFromDir(filepath.Join(dir, "missing"))
	if len(s.Keys()) != 0 {
		t.Fatalf("expected no keys, got %v", s.Keys())
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("transactions.json", `[{"id":"seed"}]`)
	mustWrite("notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s = NewFromDir(dir)
	keys := s.Keys()
	if len(keys) != 1 || keys[0] != "transactions" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	v, found, _ := s.Get(ctx, "transactions")
	if !found || string(v) != `[{"id":"seed"}]` {
		t.Fatalf("unexpected seed: %q", v)
	}
}
