package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusPartial   Status = "Partial"
	StatusOverdue   Status = "Overdue"
	StatusCompleted Status = "Completed"
)

// Status is the payment/fulfilment state carried in the last column of most
// entity sheets. The spreadsheet stores it as plain text, so unknown values
// round-trip untouched on reads.
type Status string

// Known reports whether the status is one the API accepts on writes.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusPaid, StatusPartial, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

type (
	InventoryItem struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		SKU   string  `json:"sku"`
		Stock int     `json:"stock"`
		Cost  float64 `json:"cost"`
		Sale  float64 `json:"sale"`
		Date  string  `json:"date"`
	}

	Sale struct {
		ID          string  `json:"id"`
		Date        string  `json:"date"`
		Customer    string  `json:"customer"`
		Item        string  `json:"item"`
		Qty         int     `json:"qty"`
		SalePerUnit float64 `json:"salePerUnit"`
		Total       float64 `json:"total"`
		Status      Status  `json:"status"`
	}

	Purchase struct {
		ID          string  `json:"id"`
		Date        string  `json:"date"`
		Supplier    string  `json:"supplier"`
		Item        string  `json:"item"`
		Qty         int     `json:"qty"`
		CostPerUnit float64 `json:"costPerUnit"`
		Total       float64 `json:"total"`
		Status      Status  `json:"status"`
	}

	Bill struct {
		ID       string  `json:"id"`
		Date     string  `json:"date"`
		Supplier string  `json:"supplier"`
		Total    float64 `json:"total"`
		DueDate  string  `json:"dueDate"`
		Status   Status  `json:"status"`
		Notes    string  `json:"notes"`
		Subtotal float64 `json:"subtotal"`
		GSTRate  float64 `json:"gstRate"`
		CGST     float64 `json:"cgst"`
		SGST     float64 `json:"sgst"`
		IGST     float64 `json:"igst"`
	}

	InvoiceItem struct {
		Name   string  `json:"name"`
		SKU    string  `json:"sku"`
		Qty    int     `json:"qty"`
		Rate   float64 `json:"rate"`
		Amount float64 `json:"amount"`
	}

	Invoice struct {
		ID              string        `json:"id"`
		Date            string        `json:"date"`
		Customer        string        `json:"customer"`
		CustomerPhone   string        `json:"customerPhone"`
		CustomerAddress string        `json:"customerAddress"`
		Items           []InvoiceItem `json:"items"`
		Subtotal        float64       `json:"subtotal"`
		CGST            float64       `json:"cgst"`
		SGST            float64       `json:"sgst"`
		IGST            float64       `json:"igst"`
		RoundOff        float64       `json:"roundOff"`
		Total           float64       `json:"total"`
		Status          Status        `json:"status"`
		DueDate         string        `json:"dueDate"`
	}
)

var (
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyParty    = errors.New("empty customer or supplier")
	ErrNegativeQty   = errors.New("negative quantity")
	ErrNegativeTotal = errors.New("negative total")
)

// NewID derives a caller-generated record id from the current time.
// Uniqueness within a sheet is advisory only; the storage layer does not
// enforce it.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Stock < 0 {
		return ErrNegativeQty
	}
	return nil
}

// IsEmpty reports whether the item is a tombstone: a row blanked by a soft
// delete. Repositories skip these on load.
func (i InventoryItem) IsEmpty() bool {
	return i.ID == "" && i.Name == "" && i.SKU == "" && i.Stock == 0 &&
		i.Cost == 0 && i.Sale == 0 && i.Date == ""
}

func (s Sale) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(s.Customer) == "" {
		return ErrEmptyParty
	}
	if s.Qty < 0 {
		return ErrNegativeQty
	}
	if s.Total < 0 {
		return ErrNegativeTotal
	}
	return nil
}

func (p Purchase) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Supplier) == "" {
		return ErrEmptyParty
	}
	if p.Qty < 0 {
		return ErrNegativeQty
	}
	if p.Total < 0 {
		return ErrNegativeTotal
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.Supplier) == "" {
		return ErrEmptyParty
	}
	if b.Total < 0 {
		return ErrNegativeTotal
	}
	return nil
}

func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(inv.Customer) == "" {
		return ErrEmptyParty
	}
	if inv.Total < 0 {
		return ErrNegativeTotal
	}
	return nil
}
