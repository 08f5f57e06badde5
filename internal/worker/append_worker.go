// Package worker applies queued row appends to spreadsheets. Clients that
// want a serialized write path (for example to avoid double-submit races in
// a flaky-network UI) publish appends instead of writing inline; the worker
// drains the queue one message at a time.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"bizbook/internal/amqp"
	"bizbook/internal/erp"
	"bizbook/internal/sheets"
)

// ClientFactory returns a range client bound to the given spreadsheet.
type ClientFactory func(spreadsheetID string) sheets.RangeClient

type AppendWorker struct {
	clients ClientFactory
	handled atomic.Int64
}

func NewAppendWorker(clients ClientFactory) *AppendWorker {
	return &AppendWorker{clients: clients}
}

// HandleRowAppend processes one queued append. Messages that can never
// succeed (unknown entity, missing fields) are dropped rather than requeued.
func (w *AppendWorker) HandleRowAppend(ctx context.Context, msg *amqp.RowAppendMessage) error {
	if err := msg.Validate(); err != nil {
		slog.WarnContext(ctx, "Dropping invalid row append message", "error", err)
		return nil
	}

	rng, ok := erp.AppendRange(msg.Entity)
	if !ok {
		slog.WarnContext(ctx, "Dropping row append for unknown entity", "entity", msg.Entity)
		return nil
	}

	client := w.clients(msg.SpreadsheetID)
	if err := client.Append(ctx, rng, msg.Row); err != nil {
		return fmt.Errorf("append %s row: %w", msg.Entity, err)
	}

	w.handled.Add(1)
	slog.InfoContext(ctx, "Applied queued row append",
		"entity", msg.Entity,
		"spreadsheet_id", msg.SpreadsheetID,
		"user_id", msg.UserID)
	return nil
}

// Handled reports how many appends were applied since startup.
func (w *AppendWorker) Handled() int64 {
	return w.handled.Load()
}
