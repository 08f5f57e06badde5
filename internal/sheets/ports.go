package sheets

import "context"

// RangeClient exposes range-addressed operations against a single active
// spreadsheet. Ranges use A1 notation qualified by a tab name, e.g.
// "Inventory!A2:G". All implementations soft-delete: Clear blanks the
// addressed cells, it never removes rows.
type RangeClient interface {
	// Read returns the rows in the range. An empty range yields an empty
	// slice, never an error.
	Read(ctx context.Context, rng string) ([][]string, error)

	// Append adds row after the last non-empty row of the addressed table.
	Append(ctx context.Context, rng string, row []string) error

	// Update overwrites the addressed cells positionally with row's values.
	Update(ctx context.Context, rng string, row []string) error

	// Clear blanks the addressed cells.
	Clear(ctx context.Context, rng string) error
}
