package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBillingFixture(t *testing.T) (BillingService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewBillingService(
		repository.NewBillingRepository(db),
		repository.NewVendorRepository(db),
		repository.NewSettingRepository(db),
	)
	return svc, db
}

func TestCreateRecordSplitGST(t *testing.T) {
	svc, _ := newBillingFixture(t)

	result, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		ManualVendorName: "Acme Networks",
		ServiceType:      "Internet Leased Line",
		BillDate:         "2026-08-01",
		Amount:           "1000",
		GSTType:          model.GSTTypeCGSTSGST,
		CGSTRate:         "9",
		SGSTRate:         "9",
	})
	require.NoError(t, err)

	assert.Equal(t, "18.00", result.Record.GSTRate)
	assert.Equal(t, "180.00", result.Record.GSTAmount)
	assert.Equal(t, "1180.00", result.Record.TotalAmount)
	assert.Equal(t, model.PaymentPending, result.Record.PaymentStatus)
	// Records start with no tracking status.
	assert.Equal(t, "", result.Record.InvoiceStatus)
	assert.Equal(t, -1, result.Record.StageIndex)
}

func TestCreateRecordIGST(t *testing.T) {
	svc, _ := newBillingFixture(t)

	result, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		ManualVendorName: "Acme Networks",
		ServiceType:      "Cloud Backup",
		BillDate:         "2026-08-01",
		Amount:           "2500",
		GSTType:          model.GSTTypeIGST,
		GSTRate:          "18",
	})
	require.NoError(t, err)

	assert.Equal(t, "450.00", result.Record.GSTAmount)
	assert.Equal(t, "2950.00", result.Record.TotalAmount)
}

func TestCreateRecordExempted(t *testing.T) {
	svc, _ := newBillingFixture(t)

	result, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		ManualVendorName: "Acme Networks",
		ServiceType:      "Training",
		BillDate:         "2026-08-01",
		Amount:           "500",
		GSTType:          model.GSTTypeExempted,
	})
	require.NoError(t, err)

	assert.Equal(t, "0.00", result.Record.GSTAmount)
	assert.Equal(t, "500.00", result.Record.TotalAmount)
}

func TestCreateRecordBudgetWarning(t *testing.T) {
	svc, db := newBillingFixture(t)

	require.NoError(t, db.Create(&model.Setting{Key: model.SettingTotalBillingBudget, Value: "1000"}).Error)

	result, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		ManualVendorName: "Acme Networks",
		ServiceType:      "Internet",
		BillDate:         "2026-08-01",
		Amount:           "2000",
		GSTType:          model.GSTTypeExempted,
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "WARNING: Total Billing Budget has been exceeded!", result.Warnings[0])
}

func TestCreateRecordZeroBudgetDisablesWarning(t *testing.T) {
	svc, _ := newBillingFixture(t)

	result, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		ManualVendorName: "Acme Networks",
		ServiceType:      "Internet",
		BillDate:         "2026-08-01",
		Amount:           "999999",
		GSTType:          model.GSTTypeExempted,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestCreateRecordUnknownVendor(t *testing.T) {
	svc, _ := newBillingFixture(t)

	_, err := svc.CreateRecord(context.Background(), CreateBillingRequest{
		VendorID:    "b7f6f9a4-1f54-4c3a-9a39-3d2f6e0c0a11",
		ServiceType: "Internet",
		BillDate:    "2026-08-01",
		Amount:      "100",
		GSTType:     model.GSTTypeExempted,
	})
	assert.Error(t, err)
}

func TestListRecordsVendorScope(t *testing.T) {
	svc, db := newBillingFixture(t)

	vendor := model.Vendor{Name: "Acme Networks"}
	require.NoError(t, db.Create(&vendor).Error)

	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.VendorID = &vendor.ID
		r.InvoiceNumber = "INV-SCOPED"
	})
	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.InvoiceNumber = "INV-OTHER"
	})

	records, total, err := svc.ListRecords(context.Background(), BillingFilter{VendorID: vendor.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "INV-SCOPED", records[0].InvoiceNumber)
	assert.Equal(t, "Acme Networks", records[0].VendorName)
}

func TestListRecordsSearch(t *testing.T) {
	svc, db := newBillingFixture(t)

	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.ServiceType = "Firewall AMC"
		r.InvoiceNumber = "INV-FW"
	})
	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.ServiceType = "Internet Leased Line"
		r.InvoiceNumber = "INV-NET"
	})

	records, total, err := svc.ListRecords(context.Background(), BillingFilter{Search: "Firewall"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "INV-FW", records[0].InvoiceNumber)
}
