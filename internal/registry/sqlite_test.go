package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := Entry{ID: "sheet-a", Tag: "shop", AddedAt: now, LastUsed: now}
	if err := store.Put(ctx, "u1", e); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "u1", "sheet-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "sheet-a" || got.Tag != "shop" {
		t.Errorf("Get = %+v", got)
	}
	if !got.AddedAt.Equal(now) || !got.LastUsed.Equal(now) {
		t.Errorf("timestamps = %v / %v, want %v", got.AddedAt, got.LastUsed, now)
	}
}

func TestSQLiteStore_UpsertKeepsAddedAt(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	added := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Put(ctx, "u1", Entry{ID: "sheet-a", Tag: "shop", AddedAt: added, LastUsed: added}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	later := added.Add(time.Hour)
	if err := store.Put(ctx, "u1", Entry{ID: "sheet-a", Tag: "renamed", AddedAt: later, LastUsed: later}); err != nil {
		t.Fatalf("re-Put: %v", err)
	}

	got, err := store.Get(ctx, "u1", "sheet-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// The upsert deliberately leaves added_at alone.
	if !got.AddedAt.Equal(added) {
		t.Errorf("AddedAt = %v, want original %v", got.AddedAt, added)
	}
	if got.Tag != "renamed" || !got.LastUsed.Equal(later) {
		t.Errorf("Get = %+v", got)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newSQLiteStore(t)
	if _, err := store.Get(context.Background(), "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ActivePointer(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	id, err := store.ActiveID(ctx, "u1")
	if err != nil || id != "" {
		t.Fatalf("fresh ActiveID = %q, %v", id, err)
	}

	if err := store.SetActiveID(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("SetActiveID: %v", err)
	}
	if err := store.SetActiveID(ctx, "u1", "sheet-b"); err != nil {
		t.Fatalf("SetActiveID overwrite: %v", err)
	}
	id, err = store.ActiveID(ctx, "u1")
	if err != nil || id != "sheet-b" {
		t.Fatalf("ActiveID = %q, %v", id, err)
	}

	if err := store.SetActiveID(ctx, "u1", ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	id, err = store.ActiveID(ctx, "u1")
	if err != nil || id != "" {
		t.Fatalf("cleared ActiveID = %q, %v", id, err)
	}
}

func TestSQLiteStore_ListOrderedByAddedAt(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"sheet-c", "sheet-a", "sheet-b"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := store.Put(ctx, "u1", Entry{ID: id, Tag: id, AddedAt: ts, LastUsed: ts}); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	entries, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].ID != "sheet-c" || entries[2].ID != "sheet-b" {
		t.Errorf("order = %s, %s, %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestSQLiteStore_DeleteScopedToUser(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	now := time.Now().UTC()
	for _, user := range []string{"u1", "u2"} {
		if err := store.Put(ctx, user, Entry{ID: "sheet-a", Tag: "shop", AddedAt: now, LastUsed: now}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if err := store.Delete(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "u1", "sheet-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("u1 entry survived delete: %v", err)
	}
	if _, err := store.Get(ctx, "u2", "sheet-a"); err != nil {
		t.Errorf("u2 entry vanished: %v", err)
	}
}
