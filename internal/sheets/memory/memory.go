// Package memory implements sheets.RangeClient on an in-memory grid. It
// backs the memory data backend and doubles as the test fake for the
// repositories and HTTP handlers.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bizbook/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	tabs map[string][][]string
}

var _ sheets.RangeClient = (*Store)(nil)

func New() *Store {
	return &Store{tabs: make(map[string][][]string)}
}

// NewWorkbook returns a store provisioned like a fresh business workbook:
// every entity tab exists with its header row, so appends land under the
// header the way they do on a real spreadsheet.
func NewWorkbook() *Store {
	s := New()
	s.Seed("Inventory", [][]string{{"ID", "Name", "SKU", "Stock", "Cost", "Sale", "Date"}})
	s.Seed("Sales", [][]string{{"ID", "Date", "Customer", "Item", "Qty", "SalePerUnit", "Total", "Status"}})
	s.Seed("Purchases", [][]string{{"ID", "Date", "Supplier", "Item", "Qty", "CostPerUnit", "Total", "Status"}})
	s.Seed("Invoices", [][]string{{"ID", "Date", "Customer", "Phone", "Address", "Items", "Subtotal", "CGST", "SGST", "IGST", "RoundOff", "Total", "Status", "DueDate"}})
	s.Seed("Bills", [][]string{{"ID", "Date", "Supplier", "Total", "DueDate", "Status", "Notes", "Subtotal", "GSTRate", "CGST", "SGST", "IGST"}})
	return s
}

// Seed replaces the contents of a tab. Row 0 is the sheet's first row, so
// callers seeding data under a header should start with the header row.
func (s *Store) Seed(tab string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := make([][]string, len(rows))
	for i, r := range rows {
		grid[i] = append([]string(nil), r...)
	}
	s.tabs[tab] = grid
}

func (s *Store) Read(_ context.Context, rng string) ([][]string, error) {
	span, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.tabs[span.tab]
	out := [][]string{}
	last := lastDataRow(grid, span)
	for r := span.startRow; r <= last; r++ {
		out = append(out, sliceRow(grid, r, span))
	}
	// Trailing all-empty rows are not reported, matching remote semantics.
	for len(out) > 0 && rowEmpty(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (s *Store) Append(_ context.Context, rng string, row []string) error {
	span, err := parseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.tabs[span.tab]
	at := lastDataRow(grid, span) + 1
	if at < span.startRow {
		at = span.startRow
	}
	grid = writeRow(grid, at, span.startCol, row)
	s.tabs[span.tab] = grid
	return nil
}

func (s *Store) Update(_ context.Context, rng string, row []string) error {
	span, err := parseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tabs[span.tab] = writeRow(s.tabs[span.tab], span.startRow, span.startCol, row)
	return nil
}

func (s *Store) Clear(_ context.Context, rng string) error {
	span, err := parseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.tabs[span.tab]
	for r := span.startRow; r < len(grid) && r <= span.endRow; r++ {
		for c := span.startCol; c < len(grid[r]) && c <= span.endCol; c++ {
			grid[r][c] = ""
		}
	}
	return nil
}

// span is a parsed A1-notation range, zero-based and inclusive. endRow and
// endCol may be maxInt for open-ended ranges like "Inventory!A2:G".
type span struct {
	tab      string
	startRow int
	startCol int
	endRow   int
	endCol   int
}

const maxInt = int(^uint(0) >> 1)

func parseRange(rng string) (span, error) {
	tab, ref, ok := strings.Cut(rng, "!")
	if !ok || tab == "" || ref == "" {
		return span{}, fmt.Errorf("malformed range %q", rng)
	}
	first, second, hasEnd := strings.Cut(ref, ":")

	startCol, startRow, err := parseCell(first)
	if err != nil {
		return span{}, fmt.Errorf("malformed range %q: %w", rng, err)
	}
	if startRow == maxInt {
		// Column-only start ref, as in "Inventory!A:G": rows start at the top.
		startRow = 0
	}
	sp := span{tab: tab, startRow: startRow, startCol: startCol, endRow: startRow, endCol: startCol}
	if hasEnd {
		endCol, endRow, err := parseCell(second)
		if err != nil {
			return span{}, fmt.Errorf("malformed range %q: %w", rng, err)
		}
		sp.endCol = endCol
		sp.endRow = endRow
	}
	return sp, nil
}

// parseCell parses refs like "A2", "G", "AB10". A missing row number means
// the reference is unbounded on rows.
func parseCell(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("missing column in %q", ref)
	}
	col--
	if i == len(ref) {
		return col, maxInt, nil
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("bad row in %q", ref)
	}
	if n == maxInt {
		return col, maxInt, nil
	}
	return col, n - 1, nil
}

func lastDataRow(grid [][]string, sp span) int {
	last := sp.startRow - 1
	for r := sp.startRow; r < len(grid) && r <= sp.endRow; r++ {
		if !rowEmpty(sliceRow(grid, r, sp)) {
			last = r
		}
	}
	return last
}

func sliceRow(grid [][]string, r int, sp span) []string {
	if r >= len(grid) {
		return []string{}
	}
	row := grid[r]
	out := []string{}
	for c := sp.startCol; c < len(row) && c <= sp.endCol; c++ {
		out = append(out, row[c])
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func writeRow(grid [][]string, r, c int, row []string) [][]string {
	for len(grid) <= r {
		grid = append(grid, []string{})
	}
	need := c + len(row)
	if len(grid[r]) < need {
		grid[r] = append(grid[r], make([]string, need-len(grid[r]))...)
	}
	copy(grid[r][c:], row)
	return grid
}
