package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DocumentStatus represents the stored lifecycle of an invoice document.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"
	DocumentStatusFinalized DocumentStatus = "FINALIZED"
)

// InvoiceDocument is the persisted form of an invoice. Payload carries the
// full record (items, columns, schedule, bank details) as JSON so a stored
// draft re-enters the pipeline without loss; the scalar columns exist for
// listing and filtering only.
type InvoiceDocument struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	InvoiceNumber string         `gorm:"type:text;not null;index" json:"invoiceNumber"`
	Status        DocumentStatus `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	Currency      string         `gorm:"type:text;not null" json:"currency"`
	TotalAmount   float64        `gorm:"not null;default:0" json:"totalAmount"`
	ScheduleValid bool           `gorm:"not null;default:true" json:"scheduleValid"`
	Payload       datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
	FinalizedAt   *time.Time     `json:"finalizedAt,omitempty"`
}

// TableName sets the database table name.
func (InvoiceDocument) TableName() string { return "invoice_documents" }

// Record decodes the stored payload back into an Invoice.
func (d *InvoiceDocument) Record() (Invoice, error) {
	var record Invoice
	if err := json.Unmarshal(d.Payload, &record); err != nil {
		return Invoice{}, err
	}
	return record, nil
}
