package erp

import (
	"context"
	"fmt"
	"strconv"

	"bizbook/internal/core"
	"bizbook/internal/sheets"
)

// Sales column contract: [id, date, customer, item, qty, salePerUnit, total, status].
const (
	salesReadRange   = "Sales!A2:H"
	salesAppendRange = "Sales!A:H"
)

type SalesRepo struct {
	client sheets.RangeClient
}

func NewSalesRepo(client sheets.RangeClient) *SalesRepo {
	return &SalesRepo{client: client}
}

func (r *SalesRepo) LoadAll(ctx context.Context) ([]core.Sale, error) {
	rows, err := r.client.Read(ctx, salesReadRange)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	sales := make([]core.Sale, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		sales = append(sales, saleFromRow(row))
	}
	return sales, nil
}

func (r *SalesRepo) Add(ctx context.Context, s core.Sale) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate sale: %w", err)
	}
	if err := r.client.Append(ctx, salesAppendRange, SaleRow(s)); err != nil {
		return fmt.Errorf("add sale: %w", err)
	}
	return nil
}

// UpdateStatus overwrites only the status cell of the record at the given
// LoadAll position.
func (r *SalesRepo) UpdateStatus(ctx context.Context, index int, status core.Status) error {
	row, err := resolveRow(ctx, r.client, salesReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	rng := fmt.Sprintf("Sales!H%d", row)
	if err := r.client.Update(ctx, rng, []string{string(status)}); err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

func (r *SalesRepo) Delete(ctx context.Context, index int) error {
	row, err := resolveRow(ctx, r.client, salesReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	rng := fmt.Sprintf("Sales!A%d:H%d", row, row)
	if err := r.client.Clear(ctx, rng); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func saleFromRow(row []string) core.Sale {
	status := core.Status(cell(row, 7))
	if status == "" {
		status = core.StatusPending
	}
	return core.Sale{
		ID:          cell(row, 0),
		Date:        cell(row, 1),
		Customer:    cell(row, 2),
		Item:        cell(row, 3),
		Qty:         cellInt(row, 4),
		SalePerUnit: cellFloat(row, 5),
		Total:       cellFloat(row, 6),
		Status:      status,
	}
}

func SaleRow(s core.Sale) []string {
	return []string{
		s.ID,
		s.Date,
		s.Customer,
		s.Item,
		strconv.Itoa(s.Qty),
		formatFloat(s.SalePerUnit),
		formatFloat(s.Total),
		string(s.Status),
	}
}
