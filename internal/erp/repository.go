// Package erp maps raw sheet rows to typed ERP records and back. Each
// repository owns one tab's column contract; the storage layer underneath
// enforces no schema of its own.
//
// Parsing is forgiving by contract: a numeric cell that fails to parse
// defaults to 0 and a missing cell defaults to the empty string, so one
// malformed cell never aborts a whole load. Rows blanked by a soft delete
// (tombstones) are skipped.
package erp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bizbook/internal/sheets"
)

// ErrRowNotFound reports a mutation aimed past the last visible row of a tab.
var ErrRowNotFound = errors.New("row not found")

// Repos bundles the per-entity repositories over one bound range client.
type Repos struct {
	Inventory *InventoryRepo
	Sales     *SalesRepo
	Purchases *PurchasesRepo
	Invoices  *InvoicesRepo
	Bills     *BillsRepo
}

func NewRepos(client sheets.RangeClient) *Repos {
	return &Repos{
		Inventory: NewInventoryRepo(client),
		Sales:     NewSalesRepo(client),
		Purchases: NewPurchasesRepo(client),
		Invoices:  NewInvoicesRepo(client),
		Bills:     NewBillsRepo(client),
	}
}

// AppendRange maps an entity name to the append range of its tab. Used by
// the queued-append worker, which carries pre-serialized rows and only needs
// to know where they go.
func AppendRange(entity string) (string, bool) {
	switch entity {
	case "inventory":
		return inventoryAppendRange, true
	case "sales":
		return salesAppendRange, true
	case "purchases":
		return purchasesAppendRange, true
	case "invoices":
		return invoicesAppendRange, true
	case "bills":
		return billsAppendRange, true
	}
	return "", false
}

// dataRow converts a zero-based index into LoadAll's result to the 1-based
// sheet row it came from. Data starts on row 2, under the header.
func dataRow(index int) int {
	return index + 2
}

// resolveRow maps a LoadAll position to the absolute sheet row it came from.
// LoadAll skips rows that fail the visible predicate (tombstones, and for
// invoices rows with an undecodable items cell), so once anything has been
// deleted a list position is no longer a row offset. The tab is re-read and
// skipped rows are counted past before addressing the write.
func resolveRow(ctx context.Context, client sheets.RangeClient, readRange string, index int, visible func([]string) bool) (int, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: index %d", ErrRowNotFound, index)
	}
	rows, err := client.Read(ctx, readRange)
	if err != nil {
		return 0, err
	}
	seen := 0
	for i, row := range rows {
		if !visible(row) {
			continue
		}
		if seen == index {
			return dataRow(i), nil
		}
		seen++
	}
	return 0, fmt.Errorf("%w: index %d", ErrRowNotFound, index)
}

func rowVisible(row []string) bool {
	return !rowEmpty(row)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellFloat(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cell(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}

func cellInt(row []string, i int) int {
	s := cell(row, i)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Sheets sometimes renders integers as "3.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
