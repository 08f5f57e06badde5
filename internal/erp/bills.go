package erp

import (
	"context"
	"fmt"

	"bizbook/internal/core"
	"bizbook/internal/sheets"
)

// Bills column contract:
// [id, date, supplier, total, dueDate, status, notes, subtotal, gstRate, cgst, sgst, igst].
const (
	billsReadRange   = "Bills!A2:L"
	billsAppendRange = "Bills!A:L"
)

type BillsRepo struct {
	client sheets.RangeClient
}

func NewBillsRepo(client sheets.RangeClient) *BillsRepo {
	return &BillsRepo{client: client}
}

func (r *BillsRepo) LoadAll(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.client.Read(ctx, billsReadRange)
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}
	bills := make([]core.Bill, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		bills = append(bills, billFromRow(row))
	}
	return bills, nil
}

func (r *BillsRepo) Add(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate bill: %w", err)
	}
	if err := r.client.Append(ctx, billsAppendRange, BillRow(b)); err != nil {
		return fmt.Errorf("add bill: %w", err)
	}
	return nil
}

// UpdateStatus overwrites only the status cell (column F).
func (r *BillsRepo) UpdateStatus(ctx context.Context, index int, status core.Status) error {
	row, err := resolveRow(ctx, r.client, billsReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("update bill status: %w", err)
	}
	rng := fmt.Sprintf("Bills!F%d", row)
	if err := r.client.Update(ctx, rng, []string{string(status)}); err != nil {
		return fmt.Errorf("update bill status: %w", err)
	}
	return nil
}

func (r *BillsRepo) Delete(ctx context.Context, index int) error {
	row, err := resolveRow(ctx, r.client, billsReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	rng := fmt.Sprintf("Bills!A%d:L%d", row, row)
	if err := r.client.Clear(ctx, rng); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func billFromRow(row []string) core.Bill {
	status := core.Status(cell(row, 5))
	if status == "" {
		status = core.StatusPending
	}
	return core.Bill{
		ID:       cell(row, 0),
		Date:     cell(row, 1),
		Supplier: cell(row, 2),
		Total:    cellFloat(row, 3),
		DueDate:  cell(row, 4),
		Status:   status,
		Notes:    cell(row, 6),
		Subtotal: cellFloat(row, 7),
		GSTRate:  cellFloat(row, 8),
		CGST:     cellFloat(row, 9),
		SGST:     cellFloat(row, 10),
		IGST:     cellFloat(row, 11),
	}
}

func BillRow(b core.Bill) []string {
	return []string{
		b.ID,
		b.Date,
		b.Supplier,
		formatFloat(b.Total),
		b.DueDate,
		string(b.Status),
		b.Notes,
		formatFloat(b.Subtotal),
		formatFloat(b.GSTRate),
		formatFloat(b.CGST),
		formatFloat(b.SGST),
		formatFloat(b.IGST),
	}
}
