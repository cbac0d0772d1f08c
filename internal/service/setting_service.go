package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type UpdateBudgetsRequest struct {
	TotalCapexBudget    *string `json:"total_capex_budget"`
	MonthlyCapexLimit   *string `json:"monthly_capex_limit"`
	TotalBillingBudget  *string `json:"total_billing_budget"`
	MonthlyBillingLimit *string `json:"monthly_billing_limit"`
}

type BudgetsResponse struct {
	TotalCapexBudget    string `json:"total_capex_budget"`
	MonthlyCapexLimit   string `json:"monthly_capex_limit"`
	TotalBillingBudget  string `json:"total_billing_budget"`
	MonthlyBillingLimit string `json:"monthly_billing_limit"`
}

// --- Interface ---

type SettingService interface {
	GetBudgets(ctx context.Context) (BudgetsResponse, error)
	UpdateBudgets(ctx context.Context, req UpdateBudgetsRequest) (BudgetsResponse, error)
}

type settingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

// --- Implementation ---

func (s *settingService) GetBudgets(ctx context.Context) (BudgetsResponse, error) {
	settings, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		return BudgetsResponse{}, fmt.Errorf("failed to fetch settings: %w", err)
	}

	values := map[string]string{
		model.SettingTotalCapexBudget:    "0",
		model.SettingMonthlyCapexLimit:   "0",
		model.SettingTotalBillingBudget:  "0",
		model.SettingMonthlyBillingLimit: "0",
	}
	for _, setting := range settings {
		if _, ok := values[setting.Key]; ok {
			values[setting.Key] = setting.Value
		}
	}

	return BudgetsResponse{
		TotalCapexBudget:    values[model.SettingTotalCapexBudget],
		MonthlyCapexLimit:   values[model.SettingMonthlyCapexLimit],
		TotalBillingBudget:  values[model.SettingTotalBillingBudget],
		MonthlyBillingLimit: values[model.SettingMonthlyBillingLimit],
	}, nil
}

func (s *settingService) UpdateBudgets(ctx context.Context, req UpdateBudgetsRequest) (BudgetsResponse, error) {
	updates := map[string]*string{
		model.SettingTotalCapexBudget:    req.TotalCapexBudget,
		model.SettingMonthlyCapexLimit:   req.MonthlyCapexLimit,
		model.SettingTotalBillingBudget:  req.TotalBillingBudget,
		model.SettingMonthlyBillingLimit: req.MonthlyBillingLimit,
	}

	for key, value := range updates {
		if value == nil {
			continue
		}
		amount, err := decimal.NewFromString(*value)
		if err != nil {
			return BudgetsResponse{}, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if amount.IsNegative() {
			return BudgetsResponse{}, fmt.Errorf("%s cannot be negative", key)
		}
		if err := s.settingRepo.Upsert(ctx, &model.Setting{Key: key, Value: amount.String()}); err != nil {
			return BudgetsResponse{}, fmt.Errorf("failed to update %s: %w", key, err)
		}
	}

	return s.GetBudgets(ctx)
}
