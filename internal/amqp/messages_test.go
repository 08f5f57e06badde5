package amqp

import (
	"strings"
	"testing"
)

func TestRowAppendMessage_Validate(t *testing.T) {
	valid := NewRowAppendMessage(EntitySales, "u1", "sheet-a", []string{"1", "2026-03-01"})
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*RowAppendMessage)
		wantErr string
	}{
		{"unknown entity", func(m *RowAppendMessage) { m.Entity = "widgets" }, "unknown entity"},
		{"missing spreadsheet", func(m *RowAppendMessage) { m.SpreadsheetID = "" }, "missing spreadsheet id"},
		{"empty row", func(m *RowAppendMessage) { m.Row = nil }, "empty row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewRowAppendMessage(EntitySales, "u1", "sheet-a", []string{"1"})
			tt.mutate(msg)
			err := msg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRowAppendMessage_JSONRoundTrip(t *testing.T) {
	msg := NewRowAppendMessage(EntityBills, "u1", "sheet-a", []string{"1", "2026-03-01", "Acme", "100"})

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := RowAppendMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Entity != msg.Entity || got.SpreadsheetID != msg.SpreadsheetID || got.UserID != msg.UserID {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Row) != 4 || got.Row[2] != "Acme" {
		t.Errorf("row = %v", got.Row)
	}

	if _, err := RowAppendMessageFromJSON([]byte("{broken")); err == nil {
		t.Error("FromJSON accepted malformed payload")
	}
}
