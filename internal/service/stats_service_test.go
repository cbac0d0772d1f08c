package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStatsFixture(t *testing.T) (*statsService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewStatsService(
		repository.NewCapexRepository(db),
		repository.NewBillingRepository(db),
		repository.NewSettingRepository(db),
	).(*statsService)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	}
	return svc, db
}

func mustCreateCapexEntry(t *testing.T, db *gorm.DB, vendor *model.Vendor, amount int64, date time.Time) {
	t.Helper()

	var dept model.Department
	require.NoError(t, db.Where(model.Department{Name: "IT"}).FirstOrCreate(&dept).Error)

	entry := model.CapexEntry{
		DepartmentID: dept.ID,
		Category:     "Hardware",
		Description:  "Switches",
		Amount:       decimal.NewFromInt(amount),
		EntryDate:    date,
	}
	if vendor != nil {
		entry.VendorID = vendor.ID
	}
	require.NoError(t, db.Create(&entry).Error)
}

func TestDashboardStatsZeroBudgetReportsZeroRemaining(t *testing.T) {
	svc, db := newStatsFixture(t)

	mustCreateCapexEntry(t, db, nil, 500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 500.0, stats.TotalConsumed)
	assert.Equal(t, 500.0, stats.MonthlyConsumed)
	// Unconfigured budgets never report negative remaining figures.
	assert.Equal(t, 0.0, stats.RemainingBudget)
	assert.Equal(t, 0.0, stats.BillingRemainingBudget)
}

func TestDashboardStatsRemaining(t *testing.T) {
	svc, db := newStatsFixture(t)

	require.NoError(t, db.Create(&model.Setting{Key: model.SettingTotalCapexBudget, Value: "2000"}).Error)
	mustCreateCapexEntry(t, db, nil, 500, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	mustCreateBillingRecord(t, db, func(r *model.BillingRecord) {
		r.BillDate = time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	})

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2000.0, stats.TotalBudget)
	assert.Equal(t, 1500.0, stats.RemainingBudget)
	// February spend is outside the current month.
	assert.Equal(t, 0.0, stats.MonthlyConsumed)
	assert.Equal(t, 1180.0, stats.BillingTotalConsumed)
	assert.Equal(t, 1180.0, stats.BillingMonthlyConsumed)
}

func TestMonthlyCapexFullAxis(t *testing.T) {
	svc, db := newStatsFixture(t)

	mustCreateCapexEntry(t, db, nil, 300, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	mustCreateCapexEntry(t, db, nil, 200, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	mustCreateCapexEntry(t, db, nil, 900, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))

	points, err := svc.MonthlyCapex(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, points, 12)
	assert.Equal(t, "Jan", points[0].Month)
	assert.Equal(t, "Mar", points[2].Month)
	assert.Equal(t, 500.0, points[2].Amount)
	assert.Equal(t, 0.0, points[11].Amount)
}

func TestQuarterlyCapexSortedChronologically(t *testing.T) {
	svc, db := newStatsFixture(t)

	mustCreateCapexEntry(t, db, nil, 100, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	mustCreateCapexEntry(t, db, nil, 200, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC))
	mustCreateCapexEntry(t, db, nil, 50, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	points, err := svc.QuarterlyCapex(context.Background())
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "Q4 2025", points[0].Label)
	assert.Equal(t, 200.0, points[0].Amount)
	assert.Equal(t, "Q1 2026", points[1].Label)
	assert.Equal(t, 150.0, points[1].Amount)
}

func TestCapexByVendorUnknownBucket(t *testing.T) {
	svc, db := newStatsFixture(t)

	vendor := model.Vendor{Name: "Acme Networks"}
	require.NoError(t, db.Create(&vendor).Error)

	mustCreateCapexEntry(t, db, &vendor, 700, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	mustCreateCapexEntry(t, db, nil, 100, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	points, err := svc.CapexByVendor(context.Background())
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "Acme Networks", points[0].Name)
	assert.Equal(t, 700.0, points[0].Value)
	assert.Equal(t, "Unknown", points[1].Name)
	assert.Equal(t, 100.0, points[1].Value)
}
