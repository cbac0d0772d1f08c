package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CapexEntry represents a one-off capital expenditure booked against a
// vendor and a department.
type CapexEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor       *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	DepartmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Category     string          `gorm:"type:varchar(100);not null" json:"category"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	EntryDate    time.Time       `gorm:"not null;index" json:"entry_date"`
	InvoiceURL   string          `gorm:"type:text" json:"invoice_url"`
	Remarks      string          `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (e *CapexEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
