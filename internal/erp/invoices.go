package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"bizbook/internal/core"
	"bizbook/internal/sheets"
)

// Invoices column contract:
// [id, date, customer, phone, address, itemsJSON, subtotal, cgst, sgst, igst,
//  roundOff, total, status, dueDate].
// Column F holds the line items as a JSON array in a single cell.
const (
	invoicesReadRange   = "Invoices!A2:N"
	invoicesAppendRange = "Invoices!A:N"
)

type InvoicesRepo struct {
	client sheets.RangeClient
}

func NewInvoicesRepo(client sheets.RangeClient) *InvoicesRepo {
	return &InvoicesRepo{client: client}
}

// LoadAll materializes invoices. A row whose items cell fails to decode is
// skipped with a warning; one corrupt cell must not abort the whole load.
func (r *InvoicesRepo) LoadAll(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.client.Read(ctx, invoicesReadRange)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	invoices := make([]core.Invoice, 0, len(rows))
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		inv, err := invoiceFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invoice row with corrupt items cell",
				"row", dataRow(i), "id", cell(row, 0), "error", err)
			continue
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *InvoicesRepo) Add(ctx context.Context, inv core.Invoice) error {
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("validate invoice: %w", err)
	}
	row, err := InvoiceRow(inv)
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	if err := r.client.Append(ctx, invoicesAppendRange, row); err != nil {
		return fmt.Errorf("add invoice: %w", err)
	}
	return nil
}

// UpdateStatus overwrites only the status cell (column M).
func (r *InvoicesRepo) UpdateStatus(ctx context.Context, index int, status core.Status) error {
	row, err := resolveRow(ctx, r.client, invoicesReadRange, index, invoiceRowVisible)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	rng := fmt.Sprintf("Invoices!M%d", row)
	if err := r.client.Update(ctx, rng, []string{string(status)}); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

func (r *InvoicesRepo) Delete(ctx context.Context, index int) error {
	row, err := resolveRow(ctx, r.client, invoicesReadRange, index, invoiceRowVisible)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	rng := fmt.Sprintf("Invoices!A%d:N%d", row, row)
	if err := r.client.Clear(ctx, rng); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// invoiceRowVisible matches LoadAll's filtering: tombstones and rows with an
// undecodable items cell are invisible, so positions line up with the list
// clients actually saw.
func invoiceRowVisible(row []string) bool {
	if rowEmpty(row) {
		return false
	}
	_, err := invoiceFromRow(row)
	return err == nil
}

func invoiceFromRow(row []string) (core.Invoice, error) {
	itemsJSON := cell(row, 5)
	if itemsJSON == "" {
		itemsJSON = "[]"
	}
	var items []core.InvoiceItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return core.Invoice{}, fmt.Errorf("decode items: %w", err)
	}

	status := core.Status(cell(row, 12))
	if status == "" {
		status = core.StatusPending
	}
	return core.Invoice{
		ID:              cell(row, 0),
		Date:            cell(row, 1),
		Customer:        cell(row, 2),
		CustomerPhone:   cell(row, 3),
		CustomerAddress: cell(row, 4),
		Items:           items,
		Subtotal:        cellFloat(row, 6),
		CGST:            cellFloat(row, 7),
		SGST:            cellFloat(row, 8),
		IGST:            cellFloat(row, 9),
		RoundOff:        cellFloat(row, 10),
		Total:           cellFloat(row, 11),
		Status:          status,
		DueDate:         cell(row, 13),
	}, nil
}

func InvoiceRow(inv core.Invoice) ([]string, error) {
	items := inv.Items
	if items == nil {
		items = []core.InvoiceItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return []string{
		inv.ID,
		inv.Date,
		inv.Customer,
		inv.CustomerPhone,
		inv.CustomerAddress,
		string(itemsJSON),
		formatFloat(inv.Subtotal),
		formatFloat(inv.CGST),
		formatFloat(inv.SGST),
		formatFloat(inv.IGST),
		formatFloat(inv.RoundOff),
		formatFloat(inv.Total),
		string(inv.Status),
		inv.DueDate,
	}, nil
}
