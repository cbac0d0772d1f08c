package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- Interface ---

// StatsService computes the dashboard summary and the chart roll-ups from
// the full capex and billing datasets. Aggregation happens in memory; both
// tables stay small enough for that on this system.
type StatsService interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	MonthlyCapex(ctx context.Context, year int) ([]model.MonthlyPoint, error)
	QuarterlyCapex(ctx context.Context) ([]model.QuarterlyPoint, error)
	CapexByVendor(ctx context.Context) ([]model.VendorPoint, error)
}

type statsService struct {
	capexRepo   repository.CapexRepository
	billingRepo repository.BillingRepository
	settingRepo repository.SettingRepository
	now         func() time.Time
}

func NewStatsService(
	capexRepo repository.CapexRepository,
	billingRepo repository.BillingRepository,
	settingRepo repository.SettingRepository,
) StatsService {
	return &statsService{
		capexRepo:   capexRepo,
		billingRepo: billingRepo,
		settingRepo: settingRepo,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *statsService) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to fetch capex entries: %w", err)
	}
	records, err := s.billingRepo.ListAll(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to fetch billing records: %w", err)
	}

	now := s.now()

	var capexTotal, capexMonthly float64
	for _, e := range entries {
		amount, _ := e.Amount.Float64()
		capexTotal += amount
		if e.EntryDate.Year() == now.Year() && e.EntryDate.Month() == now.Month() {
			capexMonthly += amount
		}
	}

	var billingTotal, billingMonthly float64
	for _, r := range records {
		amount, _ := r.TotalAmount.Float64()
		billingTotal += amount
		if r.BillDate.Year() == now.Year() && r.BillDate.Month() == now.Month() {
			billingMonthly += amount
		}
	}

	stats := model.DashboardStats{
		TotalBudget:            s.settingFloat(ctx, model.SettingTotalCapexBudget),
		MonthlyLimit:           s.settingFloat(ctx, model.SettingMonthlyCapexLimit),
		TotalConsumed:          capexTotal,
		MonthlyConsumed:        capexMonthly,
		BillingTotalBudget:     s.settingFloat(ctx, model.SettingTotalBillingBudget),
		BillingMonthlyLimit:    s.settingFloat(ctx, model.SettingMonthlyBillingLimit),
		BillingTotalConsumed:   billingTotal,
		BillingMonthlyConsumed: billingMonthly,
	}

	// A zero budget means "not configured": report zero remaining instead of
	// a negative figure that would render as overspend on the cards.
	if stats.TotalBudget > 0 {
		stats.RemainingBudget = stats.TotalBudget - stats.TotalConsumed
	}
	if stats.BillingTotalBudget > 0 {
		stats.BillingRemainingBudget = stats.BillingTotalBudget - stats.BillingTotalConsumed
	}

	return stats, nil
}

// MonthlyCapex rolls capex spend up per calendar month of the given year.
// Every month appears in the result, including zero months, so the chart
// axis stays stable.
func (s *statsService) MonthlyCapex(ctx context.Context, year int) ([]model.MonthlyPoint, error) {
	if year == 0 {
		year = s.now().Year()
	}

	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capex entries: %w", err)
	}

	totals := make(map[time.Month]float64)
	for _, e := range entries {
		if e.EntryDate.Year() != year {
			continue
		}
		amount, _ := e.Amount.Float64()
		totals[e.EntryDate.Month()] += amount
	}

	points := make([]model.MonthlyPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		points = append(points, model.MonthlyPoint{
			Month:  m.String()[:3],
			Amount: totals[m],
		})
	}
	return points, nil
}

// QuarterlyCapex rolls capex spend up per quarter across all years with
// data, sorted chronologically.
func (s *statsService) QuarterlyCapex(ctx context.Context) ([]model.QuarterlyPoint, error) {
	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capex entries: %w", err)
	}

	totals := make(map[int]float64)
	for _, e := range entries {
		quarter := (int(e.EntryDate.Month())-1)/3 + 1
		key := e.EntryDate.Year()*10 + quarter
		amount, _ := e.Amount.Float64()
		totals[key] += amount
	}

	points := make([]model.QuarterlyPoint, 0, len(totals))
	for key, amount := range totals {
		points = append(points, model.QuarterlyPoint{
			Label:   fmt.Sprintf("Q%d %d", key%10, key/10),
			Amount:  amount,
			SortKey: key,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].SortKey < points[j].SortKey })
	return points, nil
}

// CapexByVendor rolls capex spend up per vendor name, largest first.
// Entries whose vendor was deleted fall into an "Unknown" bucket.
func (s *statsService) CapexByVendor(ctx context.Context) ([]model.VendorPoint, error) {
	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capex entries: %w", err)
	}

	totals := make(map[string]float64)
	for _, e := range entries {
		name := "Unknown"
		if e.Vendor != nil && e.Vendor.Name != "" {
			name = e.Vendor.Name
		}
		amount, _ := e.Amount.Float64()
		totals[name] += amount
	}

	points := make([]model.VendorPoint, 0, len(totals))
	for name, value := range totals {
		points = append(points, model.VendorPoint{Name: name, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Name < points[j].Name
	})
	return points, nil
}

func (s *statsService) settingFloat(ctx context.Context, key string) float64 {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		return 0
	}
	v, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return 0
	}
	f, _ := v.Float64()
	return f
}
