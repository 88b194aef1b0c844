package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func newMemStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(&Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadBeforeFirstSave(t *testing.T) {
	store := newMemStore(t)

	data, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false on a fresh store, got data %q", data)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	blob := []byte(`{"tasks":[],"journal":[]}`)
	if err := store.Save(ctx, blob); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true after save")
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Load returned %q, want %q", got, blob)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	if err := store.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("expected latest blob to win, got %q", got)
	}
}

func TestFileBackedPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "mindweek.db")

	store, err := New(&Config{Path: path})
	if err != nil {
		t.Fatalf("failed to open file store: %v", err)
	}
	blob := []byte(`{"tasks":[{"id":"t1"}]}`)
	if err := store.Save(ctx, blob); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen and verify the blob survived the process boundary.
	store, err = New(&Config{Path: path})
	if err != nil {
		t.Fatalf("failed to reopen file store: %v", err)
	}
	defer store.Close()

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load after reopen: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("blob did not survive reopen: %q", got)
	}
}
