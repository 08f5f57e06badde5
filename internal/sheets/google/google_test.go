package google

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"bizbook/internal/sheets"
)

func TestToRows(t *testing.T) {
	got := toRows([][]any{
		{"a", " b ", 3},
		{12.5, true},
		{},
	})
	want := [][]string{
		{"a", "b", "3"},
		{"12.5", "true"},
		{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toRows = %v, want %v", got, want)
	}
}

func TestToCells(t *testing.T) {
	got := toCells([]string{"a", "", "3"})
	want := []any{"a", "", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toCells = %v, want %v", got, want)
	}
}

func TestFor_BindsWithoutModifyingReceiver(t *testing.T) {
	base := New(nil)
	bound := base.For("  sheet-a  ")

	if bound.SpreadsheetID() != "sheet-a" {
		t.Errorf("bound id = %q", bound.SpreadsheetID())
	}
	if base.SpreadsheetID() != "" {
		t.Errorf("receiver id = %q, want unbound", base.SpreadsheetID())
	}
	if other := base.For("sheet-b"); other.SpreadsheetID() != "sheet-b" {
		t.Errorf("second binding = %q", other.SpreadsheetID())
	}
}

func TestUnboundClientRejectsOperations(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	if _, err := c.Read(ctx, "Sales!A2:H"); !errors.Is(err, sheets.ErrNoActiveSheet) {
		t.Errorf("Read = %v, want ErrNoActiveSheet", err)
	}
	if err := c.Append(ctx, "Sales!A:H", []string{"x"}); !errors.Is(err, sheets.ErrNoActiveSheet) {
		t.Errorf("Append = %v, want ErrNoActiveSheet", err)
	}
	if err := c.Update(ctx, "Sales!H2", []string{"x"}); !errors.Is(err, sheets.ErrNoActiveSheet) {
		t.Errorf("Update = %v, want ErrNoActiveSheet", err)
	}
	if err := c.Clear(ctx, "Sales!A2:H2"); !errors.Is(err, sheets.ErrNoActiveSheet) {
		t.Errorf("Clear = %v, want ErrNoActiveSheet", err)
	}
}
