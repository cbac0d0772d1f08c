package service

import (
	"bytes"
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBillingWorkbookRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(repository.NewBillingRepository(db), repository.NewCapexRepository(db))

	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.InvoiceNumber = "INV-777"
	})

	data, err := svc.BillingWorkbook(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Billing", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Vendor", header)

	invoiceNo, err := f.GetCellValue("Billing", "B2")
	require.NoError(t, err)
	assert.Equal(t, "INV-777", invoiceNo)
}

func TestBillingRecordPDF(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(repository.NewBillingRepository(db), repository.NewCapexRepository(db))

	record := mustCreateBillingRecord(t, db, nil)

	data, err := svc.BillingRecordPDF(context.Background(), record.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBillingRecordPDFNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(repository.NewBillingRepository(db), repository.NewCapexRepository(db))

	_, err := svc.BillingRecordPDF(context.Background(), "6d2f7a94-9a3c-45f4-97a1-7f43d2f2b100")
	assert.ErrorIs(t, err, ErrNotFound)
}
