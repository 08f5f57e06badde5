package registry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() *Service {
	svc := NewService(NewMemoryStore())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return svc
}

func TestAdd_MakesSheetActive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	active, err := svc.GetActive(ctx, "u1")
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active != "sheet-a" {
		t.Errorf("active = %q, want sheet-a", active)
	}

	entries, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Tag != "shop" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAdd_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for _, tc := range []struct{ id, tag string }{
		{"", "shop"},
		{"sheet-a", ""},
		{"   ", "shop"},
		{"sheet-a", "   "},
	} {
		if err := svc.Add(ctx, "u1", tc.id, tc.tag); !errors.Is(err, ErrBadInput) {
			t.Errorf("Add(%q, %q) = %v, want ErrBadInput", tc.id, tc.tag, err)
		}
	}
}

func TestAdd_ReAddPreservesAddedAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	first, _ := svc.List(ctx, "u1")

	if err := svc.Add(ctx, "u1", "sheet-a", "renamed shop"); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	second, _ := svc.List(ctx, "u1")

	if len(second) != 1 {
		t.Fatalf("entries = %+v", second)
	}
	if !second[0].AddedAt.Equal(first[0].AddedAt) {
		t.Errorf("AddedAt changed on re-add: %v -> %v", first[0].AddedAt, second[0].AddedAt)
	}
	if second[0].Tag != "renamed shop" {
		t.Errorf("tag = %q", second[0].Tag)
	}
	if !second[0].LastUsed.After(first[0].LastUsed) {
		t.Errorf("LastUsed not bumped: %v -> %v", first[0].LastUsed, second[0].LastUsed)
	}
}

func TestSetActive_UnknownSheet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.SetActive(ctx, "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetActive = %v, want ErrNotFound", err)
	}
}

func TestSetActive_BumpsLastUsed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, "u1", "sheet-b", "warehouse"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before, _ := svc.List(ctx, "u1")

	if err := svc.SetActive(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, _ := svc.GetActive(ctx, "u1")
	if active != "sheet-a" {
		t.Errorf("active = %q", active)
	}

	after, _ := svc.List(ctx, "u1")
	var beforeUsed, afterUsed time.Time
	for _, e := range before {
		if e.ID == "sheet-a" {
			beforeUsed = e.LastUsed
		}
	}
	for _, e := range after {
		if e.ID == "sheet-a" {
			afterUsed = e.LastUsed
		}
	}
	if !afterUsed.After(beforeUsed) {
		t.Errorf("LastUsed not bumped: %v -> %v", beforeUsed, afterUsed)
	}
}

func TestRemove_ActiveSheetClearsPointer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Remove(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	active, err := svc.GetActive(ctx, "u1")
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active != "" {
		t.Errorf("active = %q, want disconnected", active)
	}
}

func TestRemove_OtherSheetKeepsPointer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, "u1", "sheet-b", "warehouse"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// sheet-b is active; remove sheet-a.
	if err := svc.Remove(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	active, _ := svc.GetActive(ctx, "u1")
	if active != "sheet-b" {
		t.Errorf("active = %q, want sheet-b", active)
	}
}

func TestGetActive_StalePointerReportsDisconnected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Delete behind the service's back, leaving the pointer dangling.
	if err := store.Delete(ctx, "u1", "sheet-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	active, err := svc.GetActive(ctx, "u1")
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active != "" {
		t.Errorf("active = %q, want disconnected", active)
	}
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Rename(ctx, "u1", "sheet-a", "main shop"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	entries, _ := svc.List(ctx, "u1")
	if entries[0].Tag != "main shop" {
		t.Errorf("tag = %q", entries[0].Tag)
	}

	if err := svc.Rename(ctx, "u1", "sheet-a", "  "); !errors.Is(err, ErrBadInput) {
		t.Errorf("blank rename = %v, want ErrBadInput", err)
	}
	if err := svc.Rename(ctx, "u1", "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename unknown = %v, want ErrNotFound", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.Add(ctx, "u1", "sheet-a", "shop"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := svc.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("u2 sees u1's sheets: %+v", entries)
	}
	active, _ := svc.GetActive(ctx, "u2")
	if active != "" {
		t.Errorf("u2 active = %q", active)
	}
}

func TestMemoryStore_ListOrderedByAddedAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Inserted newest-first; List must come back in added_at order like
	// the sqlite store.
	for i, id := range []string{"sheet-c", "sheet-b", "sheet-a"} {
		e := Entry{ID: id, Tag: id, AddedAt: base.Add(-time.Duration(i) * time.Hour), LastUsed: base}
		if err := store.Put(ctx, "u1", e); err != nil {
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
	for i, want := range []string{"sheet-a", "sheet-b", "sheet-c"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, want)
		}
	}
}
