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

func newCapexFixture(t *testing.T) (CapexService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewCapexService(
		repository.NewCapexRepository(db),
		repository.NewVendorRepository(db),
		repository.NewDepartmentRepository(db),
		repository.NewSettingRepository(db),
	)
	return svc, db
}

func TestCreateEntryRequiresExistingRefs(t *testing.T) {
	svc, db := newCapexFixture(t)

	vendor := model.Vendor{Name: "Acme Networks"}
	require.NoError(t, db.Create(&vendor).Error)

	_, err := svc.CreateEntry(context.Background(), CreateCapexRequest{
		VendorID:     vendor.ID.String(),
		DepartmentID: "0b7cb0ae-44e2-4b29-a88f-6a1a7e2f9f00",
		Category:     "Hardware",
		Description:  "Core switch",
		Amount:       "1200",
		EntryDate:    "2026-08-15",
	})
	assert.Error(t, err)
}

func TestCreateEntryWithWarning(t *testing.T) {
	svc, db := newCapexFixture(t)

	vendor := model.Vendor{Name: "Acme Networks"}
	dept := model.Department{Name: "IT"}
	require.NoError(t, db.Create(&vendor).Error)
	require.NoError(t, db.Create(&dept).Error)
	require.NoError(t, db.Create(&model.Setting{Key: model.SettingTotalCapexBudget, Value: "1000"}).Error)

	result, err := svc.CreateEntry(context.Background(), CreateCapexRequest{
		VendorID:     vendor.ID.String(),
		DepartmentID: dept.ID.String(),
		Category:     "Hardware",
		Description:  "Core switch",
		Amount:       "1200",
		EntryDate:    "2026-08-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Networks", result.Entry.VendorName)
	assert.Equal(t, "IT", result.Entry.DepartmentName)
	assert.Equal(t, "1200.00", result.Entry.Amount)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "WARNING: Total CAPEX Budget has been exceeded!", result.Warnings[0])
}

func TestDeleteEntry(t *testing.T) {
	svc, db := newCapexFixture(t)

	vendor := model.Vendor{Name: "Acme Networks"}
	dept := model.Department{Name: "IT"}
	require.NoError(t, db.Create(&vendor).Error)
	require.NoError(t, db.Create(&dept).Error)

	result, err := svc.CreateEntry(context.Background(), CreateCapexRequest{
		VendorID:     vendor.ID.String(),
		DepartmentID: dept.ID.String(),
		Category:     "Hardware",
		Description:  "Access points",
		Amount:       "300",
		EntryDate:    "2026-08-15",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(context.Background(), result.Entry.ID))

	_, total, err := svc.ListEntries(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	err = svc.DeleteEntry(context.Background(), result.Entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
