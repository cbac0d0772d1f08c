package service

import (
	"context"
	"testing"

	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetsDefaultToZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))

	budgets, err := svc.GetBudgets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", budgets.TotalCapexBudget)
	assert.Equal(t, "0", budgets.MonthlyBillingLimit)
}

func TestUpdateBudgetsPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))

	total := "150000"
	budgets, err := svc.UpdateBudgets(context.Background(), UpdateBudgetsRequest{
		TotalCapexBudget: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, "150000", budgets.TotalCapexBudget)
	assert.Equal(t, "0", budgets.MonthlyCapexLimit)

	// Upsert overwrites on repeat.
	updated := "200000"
	budgets, err = svc.UpdateBudgets(context.Background(), UpdateBudgetsRequest{
		TotalCapexBudget: &updated,
	})
	require.NoError(t, err)
	assert.Equal(t, "200000", budgets.TotalCapexBudget)
}

func TestUpdateBudgetsRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))

	negative := "-5"
	_, err := svc.UpdateBudgets(context.Background(), UpdateBudgetsRequest{
		MonthlyCapexLimit: &negative,
	})
	assert.Error(t, err)
}
