package memory

import (
	"context"
	"reflect"
	"testing"
)

func TestRead_EmptyTabReturnsEmptySlice(t *testing.T) {
	s := New()
	rows, err := s.Read(context.Background(), "Inventory!A2:G")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("Read = %#v, want empty non-nil slice", rows)
	}
}

func TestRead_MalformedRange(t *testing.T) {
	s := New()
	for _, rng := range []string{"", "A2:G", "Inventory!", "Inventory!2:5"} {
		if _, err := s.Read(context.Background(), rng); err == nil {
			t.Errorf("Read(%q) succeeded, want error", rng)
		}
	}
}

func TestAppendThenRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Seed("Inventory", [][]string{
		{"id", "name", "sku", "stock", "cost", "sale", "date"},
	})

	if err := s.Append(ctx, "Inventory!A:G", []string{"1", "Widget", "W-1", "3", "2.5", "5", "2026-03-01"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "Inventory!A:G", []string{"2", "Gadget", "G-1", "7", "1", "2", "2026-03-02"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rows, err := s.Read(ctx, "Inventory!A2:G")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := [][]string{
		{"1", "Widget", "W-1", "3", "2.5", "5", "2026-03-01"},
		{"2", "Gadget", "G-1", "7", "1", "2", "2026-03-02"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Read = %v, want %v", rows, want)
	}
}

func TestAppend_FreshTabStartsAtRangeTop(t *testing.T) {
	s := New()
	ctx := context.Background()

	// No seed at all: the append lands on the first row of the open range.
	if err := s.Append(ctx, "Sales!A:H", []string{"1", "2026-03-01", "Acme", "Widget", "1", "5", "5", "Paid"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rows, err := s.Read(ctx, "Sales!A1:H")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
}

func TestUpdate_SingleCell(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed("Inventory", [][]string{
		{"header"},
		{"1", "Widget", "W-1", "3", "2.5", "5", "2026-03-01"},
	})

	if err := s.Update(ctx, "Inventory!D2", []string{"9"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rows, err := s.Read(ctx, "Inventory!A2:G")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rows[0][3] != "9" {
		t.Errorf("stock cell = %q, want 9", rows[0][3])
	}
}

func TestClear_LeavesTombstoneRow(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed("Inventory", [][]string{
		{"header"},
		{"1", "Widget", "W-1", "3", "2.5", "5", "2026-03-01"},
		{"2", "Gadget", "G-1", "7", "1", "2", "2026-03-02"},
	})

	if err := s.Clear(ctx, "Inventory!A2:G2"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	rows, err := s.Read(ctx, "Inventory!A2:G")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	// The blanked row survives because a non-empty row follows it.
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if len(rows[0]) != 0 {
		t.Errorf("cleared row = %v, want all cells empty", rows[0])
	}
	if rows[1][0] != "2" {
		t.Errorf("second row = %v", rows[1])
	}
}

func TestRead_TrimsTrailingEmptyRows(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed("Bills", [][]string{
		{"header"},
		{"1", "2026-03-01", "Acme", "100"},
		{"", "", "", ""},
		{"", "", "", ""},
	})

	rows, err := s.Read(ctx, "Bills!A2:L")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %v, want just the bill row", rows)
	}
}
