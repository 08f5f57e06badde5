package core

import "time"

// LowStockThreshold is the stock level below which an item appears in the
// dashboard's low-stock list.
const LowStockThreshold = 5

// DashboardStats is a compact summary computed from loaded sales and
// inventory records.
type DashboardStats struct {
	TodaySales    float64         `json:"todaySales"`
	TodayCount    int             `json:"todayCount"`
	MonthSales    float64         `json:"monthSales"`
	MonthCount    int             `json:"monthCount"`
	PendingAmount float64         `json:"pendingAmount"`
	PendingCount  int             `json:"pendingCount"`
	LowStockCount int             `json:"lowStockCount"`
	LowStockItems []InventoryItem `json:"lowStockItems"`
}

// ComputeDashboardStats aggregates sales and inventory for the dashboard.
// Sale dates are stored as plain text; dates that do not parse are counted
// for the pending totals but excluded from the today/month buckets.
func ComputeDashboardStats(now time.Time, sales []Sale, inventory []InventoryItem) DashboardStats {
	var stats DashboardStats
	today := now.Format("2006-01-02")

	for _, s := range sales {
		if s.Date == today {
			stats.TodaySales += s.Total
			stats.TodayCount++
		}
		if d, err := time.Parse("2006-01-02", s.Date); err == nil {
			if d.Year() == now.Year() && d.Month() == now.Month() {
				stats.MonthSales += s.Total
				stats.MonthCount++
			}
		}
		if s.Status == StatusPending || s.Status == StatusPartial {
			stats.PendingAmount += s.Total
			stats.PendingCount++
		}
	}

	for _, item := range inventory {
		if item.IsEmpty() {
			continue
		}
		if item.Stock < LowStockThreshold {
			stats.LowStockItems = append(stats.LowStockItems, item)
		}
	}
	stats.LowStockCount = len(stats.LowStockItems)

	return stats
}
