package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification severity constants. The status tracker emits info and
// warning; success is reserved for client-raised toasts stored through the
// same feed.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
)

// AppNotification is a human-readable message emitted as a side effect of a
// status transition. Insert-only; never deleted, only marked read.
type AppNotification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Severity  string    `gorm:"type:varchar(20);not null;default:'info'" json:"severity"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (n *AppNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
