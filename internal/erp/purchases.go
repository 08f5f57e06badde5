package erp

import (
	"context"
	"fmt"
	"strconv"

	"bizbook/internal/core"
	"bizbook/internal/sheets"
)

// Purchases column contract: [id, date, supplier, item, qty, costPerUnit, total, status].
const (
	purchasesReadRange   = "Purchases!A2:H"
	purchasesAppendRange = "Purchases!A:H"
)

type PurchasesRepo struct {
	client sheets.RangeClient
}

func NewPurchasesRepo(client sheets.RangeClient) *PurchasesRepo {
	return &PurchasesRepo{client: client}
}

func (r *PurchasesRepo) LoadAll(ctx context.Context) ([]core.Purchase, error) {
	rows, err := r.client.Read(ctx, purchasesReadRange)
	if err != nil {
		return nil, fmt.Errorf("load purchases: %w", err)
	}
	purchases := make([]core.Purchase, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		purchases = append(purchases, purchaseFromRow(row))
	}
	return purchases, nil
}

func (r *PurchasesRepo) Add(ctx context.Context, p core.Purchase) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate purchase: %w", err)
	}
	if err := r.client.Append(ctx, purchasesAppendRange, PurchaseRow(p)); err != nil {
		return fmt.Errorf("add purchase: %w", err)
	}
	return nil
}

func (r *PurchasesRepo) UpdateStatus(ctx context.Context, index int, status core.Status) error {
	row, err := resolveRow(ctx, r.client, purchasesReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	rng := fmt.Sprintf("Purchases!H%d", row)
	if err := r.client.Update(ctx, rng, []string{string(status)}); err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	return nil
}

func (r *PurchasesRepo) Delete(ctx context.Context, index int) error {
	row, err := resolveRow(ctx, r.client, purchasesReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	rng := fmt.Sprintf("Purchases!A%d:H%d", row, row)
	if err := r.client.Clear(ctx, rng); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func purchaseFromRow(row []string) core.Purchase {
	status := core.Status(cell(row, 7))
	if status == "" {
		status = core.StatusPending
	}
	return core.Purchase{
		ID:          cell(row, 0),
		Date:        cell(row, 1),
		Supplier:    cell(row, 2),
		Item:        cell(row, 3),
		Qty:         cellInt(row, 4),
		CostPerUnit: cellFloat(row, 5),
		Total:       cellFloat(row, 6),
		Status:      status,
	}
}

func PurchaseRow(p core.Purchase) []string {
	return []string{
		p.ID,
		p.Date,
		p.Supplier,
		p.Item,
		strconv.Itoa(p.Qty),
		formatFloat(p.CostPerUnit),
		formatFloat(p.Total),
		string(p.Status),
	}
}
