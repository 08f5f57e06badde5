package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity kinds accepted on the queued-append pipeline.
const (
	EntityInventory = "inventory"
	EntitySales     = "sales"
	EntityPurchases = "purchases"
	EntityInvoices  = "invoices"
	EntityBills     = "bills"
)

// RowAppendMessage asks the worker to append one already-serialized row to
// an entity sheet of a specific spreadsheet. The server pre-serializes the
// record so the worker needs no entity-specific knowledge beyond the target
// range.
type RowAppendMessage struct {
	Entity        string    `json:"entity"`
	UserID        string    `json:"user_id"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	Row           []string  `json:"row"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewRowAppendMessage(entity, userID, spreadsheetID string, row []string) *RowAppendMessage {
	return &RowAppendMessage{
		Entity:        entity,
		UserID:        userID,
		SpreadsheetID: spreadsheetID,
		Row:           row,
		Timestamp:     time.Now(),
	}
}

func (m *RowAppendMessage) Validate() error {
	switch m.Entity {
	case EntityInventory, EntitySales, EntityPurchases, EntityInvoices, EntityBills:
	default:
		return fmt.Errorf("unknown entity %q", m.Entity)
	}
	if m.SpreadsheetID == "" {
		return fmt.Errorf("missing spreadsheet id")
	}
	if len(m.Row) == 0 {
		return fmt.Errorf("empty row")
	}
	return nil
}

func (m *RowAppendMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RowAppendMessageFromJSON(data []byte) (*RowAppendMessage, error) {
	var msg RowAppendMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal row append message: %w", err)
	}
	return &msg, nil
}
