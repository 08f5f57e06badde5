package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := NewID(now); got != "1772366400000" {
		t.Errorf("NewID = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"item missing id", InventoryItem{Name: "x"}.Validate(), ErrEmptyID},
		{"item missing name", InventoryItem{ID: "1"}.Validate(), ErrEmptyName},
		{"item negative stock", InventoryItem{ID: "1", Name: "x", Stock: -1}.Validate(), ErrNegativeQty},
		{"item ok", InventoryItem{ID: "1", Name: "x"}.Validate(), nil},
		{"sale missing customer", Sale{ID: "1"}.Validate(), ErrEmptyParty},
		{"sale negative total", Sale{ID: "1", Customer: "a", Total: -1}.Validate(), ErrNegativeTotal},
		{"purchase missing supplier", Purchase{ID: "1"}.Validate(), ErrEmptyParty},
		{"bill ok", Bill{ID: "1", Supplier: "a"}.Validate(), nil},
		{"invoice missing customer", Invoice{ID: "1"}.Validate(), ErrEmptyParty},
		{"whitespace id is empty", Sale{ID: "  ", Customer: "a"}.Validate(), ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("got %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestStatusKnown(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusPartial, StatusOverdue, StatusCompleted} {
		if !s.Known() {
			t.Errorf("%q not known", s)
		}
	}
	for _, s := range []Status{"", "paid", "Bogus"} {
		if s.Known() {
			t.Errorf("%q should not be known", s)
		}
	}
}

func TestComputeDashboardStats(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	sales := []Sale{
		{ID: "1", Date: "2026-03-15", Total: 100, Status: StatusPaid},
		{ID: "2", Date: "2026-03-01", Total: 50, Status: StatusPending},
		{ID: "3", Date: "2026-02-28", Total: 25, Status: StatusPartial},
		{ID: "4", Date: "garbage", Total: 10, Status: StatusPending},
	}
	inventory := []InventoryItem{
		{ID: "1", Name: "Low", Stock: 2},
		{ID: "2", Name: "Fine", Stock: 50},
	}

	stats := ComputeDashboardStats(now, sales, inventory)

	if stats.TodaySales != 100 || stats.TodayCount != 1 {
		t.Errorf("today = %v/%d", stats.TodaySales, stats.TodayCount)
	}
	if stats.MonthSales != 150 || stats.MonthCount != 2 {
		t.Errorf("month = %v/%d", stats.MonthSales, stats.MonthCount)
	}
	// Pending counts by status regardless of date parseability.
	if stats.PendingAmount != 85 || stats.PendingCount != 3 {
		t.Errorf("pending = %v/%d", stats.PendingAmount, stats.PendingCount)
	}
	if stats.LowStockCount != 1 || stats.LowStockItems[0].Name != "Low" {
		t.Errorf("low stock = %d %v", stats.LowStockCount, stats.LowStockItems)
	}
}

func TestInventoryItemIsEmpty(t *testing.T) {
	if !(InventoryItem{}).IsEmpty() {
		t.Error("zero item should be empty")
	}
	if (InventoryItem{ID: "1"}).IsEmpty() {
		t.Error("item with id should not be empty")
	}
	if (InventoryItem{Stock: 3}).IsEmpty() {
		t.Error("item with stock should not be empty")
	}
}
