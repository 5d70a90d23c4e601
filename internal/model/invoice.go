package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// InvoiceItem is a single billed line.
type InvoiceItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// InvoiceItems is the ordered line-item list, stored as JSONB.
type InvoiceItems []InvoiceItem

func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		return nil, nil
	}
	return json.Marshal(i)
}

func (i *InvoiceItems) Scan(src interface{}) error {
	if src == nil {
		*i = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for InvoiceItems", src)
	}
	return json.Unmarshal(b, i)
}

// Invoice bills a patient. DueDate defaults to seven days after creation.
type Invoice struct {
	ID        int64         `db:"id" json:"id"`
	Code      string        `db:"code" json:"invoiceId"`
	PatientID int64         `db:"patient_id" json:"-"`
	Amount    float64       `db:"amount" json:"amount"`
	Status    InvoiceStatus `db:"status" json:"status"`
	DueDate   time.Time     `db:"due_date" json:"dueDate"`
	Method    string        `db:"method" json:"method"`
	Items     InvoiceItems  `db:"items" json:"items"`
	CreatedAt time.Time     `db:"created_at" json:"date"`
	UpdatedAt time.Time     `db:"updated_at" json:"-"`

	PatientName  string `db:"patient_name" json:"patient,omitempty"`
	PatientCode  string `db:"patient_code" json:"patientId,omitempty"`
	PatientEmail string `db:"patient_email" json:"patientEmail,omitempty"`
}

type InvoiceFilter struct {
	Search    string
	Status    string
	PatientID *int64
	ListOptions
}

type CreateInvoiceRequest struct {
	PatientID string       `json:"patientId" binding:"required"`
	Amount    float64      `json:"amount" binding:"required"`
	DueDate   *string      `json:"dueDate"`
	Method    string       `json:"method"`
	Items     InvoiceItems `json:"items"`
}

type UpdateInvoiceRequest struct {
	Amount  *float64      `json:"amount"`
	Status  *string       `json:"status"`
	DueDate *string       `json:"dueDate"`
	Method  *string       `json:"method"`
	Items   *InvoiceItems `json:"items"`
}

type InvoiceSummary struct {
	ID      int64         `json:"id"`
	Code    string        `json:"invoiceId"`
	Patient string        `json:"patient"`
	Amount  float64       `json:"amount"`
	Status  InvoiceStatus `json:"status"`
	DueDate time.Time     `json:"dueDate"`
}

// StatusBucket is one count+amount aggregation cell.
type StatusBucket struct {
	Count  int     `db:"count" json:"count"`
	Amount float64 `db:"amount" json:"amount"`
}

// BillingSummary is the /invoices/summary response.
type BillingSummary struct {
	Total   StatusBucket `json:"total"`
	Pending StatusBucket `json:"pending"`
	Paid    StatusBucket `json:"paid"`
	Overdue StatusBucket `json:"overdue"`
}
