package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Vendor{},
		&model.Department{},
		&model.CapexEntry{},
		&model.BillingRecord{},
		&model.AppNotification{},
		&model.Setting{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func mustCreateBillingRecord(t *testing.T, db *gorm.DB, mutate func(*model.BillingRecord)) *model.BillingRecord {
	t.Helper()

	record := &model.BillingRecord{
		ManualVendorName: "Acme Networks",
		InvoiceNumber:    "INV-001",
		ServiceType:      "Internet Leased Line",
		BillDate:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(1000),
		GSTType:          model.GSTTypeIGST,
		GSTRate:          decimal.NewFromInt(18),
		GSTAmount:        decimal.NewFromInt(180),
		TotalAmount:      decimal.NewFromInt(1180),
		PaymentStatus:    model.PaymentPending,
	}
	if mutate != nil {
		mutate(record)
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create billing record: %v", err)
	}
	return record
}

// stubNotifier records published notifications without touching any store.
type stubNotifier struct {
	messages   []string
	severities []string
}

func (s *stubNotifier) Publish(ctx context.Context, message, severity string) {
	s.messages = append(s.messages, message)
	s.severities = append(s.severities, severity)
}

func (s *stubNotifier) List(ctx context.Context, limit int) ([]NotificationResponse, error) {
	return nil, nil
}

func (s *stubNotifier) UnreadCount(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubNotifier) MarkRead(ctx context.Context, id string) error { return nil }

func (s *stubNotifier) MarkAllRead(ctx context.Context) error { return nil }
