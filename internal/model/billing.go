package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus enum constants: the ordered approval pipeline plus two
// exception states reachable from any stage.
const (
	StatusInvoiceReceive      = "invoice_receive"
	StatusInvoiceInward       = "invoice_inward"
	StatusAccountVerification = "account_verification"
	StatusPHSignature         = "ph_signature"
	StatusPortalUpdate        = "portal_update"
	StatusDelayed             = "delayed"
	StatusIssue               = "issue"
)

// OrderedStages lists the nominal pipeline in approval order.
// portal_update is the terminal success state.
var OrderedStages = []string{
	StatusInvoiceReceive,
	StatusInvoiceInward,
	StatusAccountVerification,
	StatusPHSignature,
	StatusPortalUpdate,
}

// PaymentStatus enum constants, independent of invoice_status.
const (
	PaymentPaid      = "Paid"
	PaymentPending   = "Pending"
	PaymentPOPending = "PO Pending"
)

// GSTType enum constants
const (
	GSTTypeCGSTSGST = "CGST + SGST"
	GSTTypeIGST     = "IGST"
	GSTTypeExempted = "Exempted"
)

// IsValidInvoiceStatus reports whether s belongs to the closed status set.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case StatusInvoiceReceive, StatusInvoiceInward, StatusAccountVerification,
		StatusPHSignature, StatusPortalUpdate, StatusDelayed, StatusIssue:
		return true
	}
	return false
}

// StageIndex derives the progress-bar index for a status: position in
// OrderedStages for pipeline statuses, 0 for the exception states (an
// exception visually resets progress), -1 when the status is unset.
func StageIndex(status string) int {
	if status == "" {
		return -1
	}
	if status == StatusDelayed || status == StatusIssue {
		return 0
	}
	for i, s := range OrderedStages {
		if s == status {
			return i
		}
	}
	return -1
}

// BillingRecord represents a monthly recurring expenditure invoice tracked
// through the multi-role status workflow.
type BillingRecord struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID         *uuid.UUID `gorm:"type:uuid;index" json:"vendor_id"`
	Vendor           *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ManualVendorName string     `gorm:"type:varchar(255)" json:"manual_vendor_name"` // free-text vendor when no structured vendor exists
	InvoiceNumber    string     `gorm:"type:varchar(100);index" json:"invoice_number"`
	ServiceType      string     `gorm:"type:varchar(255);not null" json:"service_type"`
	BillDate         time.Time  `gorm:"not null;index" json:"bill_date"`
	ServiceStartDate *time.Time `json:"service_start_date"`

	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"` // base amount, pre-tax
	GSTType     string          `gorm:"type:varchar(20);not null;default:'CGST + SGST'" json:"gst_type"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"gst_rate"`
	CGSTRate    decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"cgst_rate"`
	SGSTRate    decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"sgst_rate"`
	GSTAmount   decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"gst_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"` // amount + gst_amount

	BillURL string `gorm:"type:text" json:"bill_url"` // invoice attachment
	POURL   string `gorm:"type:text" json:"po_url"`   // PO attachment
	Remarks string `gorm:"type:text" json:"remarks"`  // append-only free-text log

	PaymentStatus string `gorm:"type:varchar(20);not null;default:'Pending';index" json:"payment_status"`
	InvoiceStatus string `gorm:"type:varchar(30);index" json:"invoice_status"` // empty = not generated yet

	// Milestone timestamps are set once when a stage is first reached and
	// never overwritten on re-entry.
	InvoiceGeneratedAt *time.Time `json:"invoice_generated_at"`
	InvoiceMailedAt    *time.Time `json:"invoice_mailed_at"`
	BillInwardedAt     *time.Time `json:"bill_inwarded_at"`

	// Version supports optional optimistic concurrency on status writes.
	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key app-side so records work on both the
// Postgres and the SQLite fallback store.
func (r *BillingRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
