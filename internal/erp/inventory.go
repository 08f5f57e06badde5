package erp

import (
	"context"
	"fmt"
	"strconv"

	"bizbook/internal/core"
	"bizbook/internal/sheets"
)

// Inventory column contract: [id, name, sku, stock, cost, sale, date].
const (
	inventoryReadRange   = "Inventory!A2:G"
	inventoryAppendRange = "Inventory!A:G"
)

type InventoryRepo struct {
	client sheets.RangeClient
}

func NewInventoryRepo(client sheets.RangeClient) *InventoryRepo {
	return &InventoryRepo{client: client}
}

func (r *InventoryRepo) LoadAll(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := r.client.Read(ctx, inventoryReadRange)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	items := make([]core.InventoryItem, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		items = append(items, inventoryFromRow(row))
	}
	return items, nil
}

func (r *InventoryRepo) Add(ctx context.Context, item core.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate inventory item: %w", err)
	}
	if err := r.client.Append(ctx, inventoryAppendRange, InventoryRow(item)); err != nil {
		return fmt.Errorf("add inventory item: %w", err)
	}
	return nil
}

// Update overwrites the whole record at the given LoadAll position.
func (r *InventoryRepo) Update(ctx context.Context, index int, item core.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate inventory item: %w", err)
	}
	row, err := resolveRow(ctx, r.client, inventoryReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	rng := fmt.Sprintf("Inventory!A%d:G%d", row, row)
	if err := r.client.Update(ctx, rng, InventoryRow(item)); err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// UpdateStock overwrites only the stock cell.
func (r *InventoryRepo) UpdateStock(ctx context.Context, index int, stock int) error {
	row, err := resolveRow(ctx, r.client, inventoryReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	rng := fmt.Sprintf("Inventory!D%d", row)
	if err := r.client.Update(ctx, rng, []string{strconv.Itoa(stock)}); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete blanks the record's row, leaving a tombstone; rows are never
// physically removed.
func (r *InventoryRepo) Delete(ctx context.Context, index int) error {
	row, err := resolveRow(ctx, r.client, inventoryReadRange, index, rowVisible)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	rng := fmt.Sprintf("Inventory!A%d:G%d", row, row)
	if err := r.client.Clear(ctx, rng); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

func inventoryFromRow(row []string) core.InventoryItem {
	return core.InventoryItem{
		ID:    cell(row, 0),
		Name:  cell(row, 1),
		SKU:   cell(row, 2),
		Stock: cellInt(row, 3),
		Cost:  cellFloat(row, 4),
		Sale:  cellFloat(row, 5),
		Date:  cell(row, 6),
	}
}

// InventoryRow serializes an item into its sheet column order.
func InventoryRow(item core.InventoryItem) []string {
	return []string{
		item.ID,
		item.Name,
		item.SKU,
		strconv.Itoa(item.Stock),
		formatFloat(item.Cost),
		formatFloat(item.Sale),
		item.Date,
	}
}
