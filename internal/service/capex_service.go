package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateCapexRequest struct {
	VendorID     string `json:"vendor_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	EntryDate    string `json:"entry_date" binding:"required"` // 2006-01-02
	InvoiceURL   string `json:"invoice_url"`
	Remarks      string `json:"remarks"`
}

type CapexResponse struct {
	ID             string `json:"id"`
	VendorID       string `json:"vendor_id"`
	VendorName     string `json:"vendor_name"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Amount         string `json:"amount"`
	EntryDate      string `json:"entry_date"`
	InvoiceURL     string `json:"invoice_url"`
	Remarks        string `json:"remarks"`
	CreatedAt      string `json:"created_at"`
}

type CreateCapexResult struct {
	Entry    CapexResponse `json:"entry"`
	Warnings []string      `json:"warnings,omitempty"`
}

// --- Interface ---

type CapexService interface {
	CreateEntry(ctx context.Context, req CreateCapexRequest) (CreateCapexResult, error)
	ListEntries(ctx context.Context, page, limit int) ([]CapexResponse, int64, error)
	DeleteEntry(ctx context.Context, id string) error
}

type capexService struct {
	capexRepo      repository.CapexRepository
	vendorRepo     repository.VendorRepository
	departmentRepo repository.DepartmentRepository
	settingRepo    repository.SettingRepository
}

func NewCapexService(
	capexRepo repository.CapexRepository,
	vendorRepo repository.VendorRepository,
	departmentRepo repository.DepartmentRepository,
	settingRepo repository.SettingRepository,
) CapexService {
	return &capexService{
		capexRepo:      capexRepo,
		vendorRepo:     vendorRepo,
		departmentRepo: departmentRepo,
		settingRepo:    settingRepo,
	}
}

// --- Implementation ---

func (s *capexService) CreateEntry(ctx context.Context, req CreateCapexRequest) (CreateCapexResult, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return CreateCapexResult{}, fmt.Errorf("invalid vendor_id: %w", err)
	}
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return CreateCapexResult{}, fmt.Errorf("invalid department_id: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CreateCapexResult{}, fmt.Errorf("invalid amount: %w", err)
	}

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return CreateCapexResult{}, fmt.Errorf("invalid entry_date: %w", err)
	}

	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return CreateCapexResult{}, fmt.Errorf("vendor not found: %w", err)
	}
	if _, err := s.departmentRepo.FindByID(ctx, departmentID); err != nil {
		return CreateCapexResult{}, fmt.Errorf("department not found: %w", err)
	}

	entry := model.CapexEntry{
		VendorID:     vendorID,
		DepartmentID: departmentID,
		Category:     req.Category,
		Description:  req.Description,
		Amount:       amount,
		EntryDate:    entryDate,
		InvoiceURL:   req.InvoiceURL,
		Remarks:      req.Remarks,
	}

	if err := s.capexRepo.Create(ctx, &entry); err != nil {
		return CreateCapexResult{}, fmt.Errorf("failed to create capex entry: %w", err)
	}

	warnings, err := s.budgetWarnings(ctx)
	if err != nil {
		warnings = nil
	}

	reloaded, err := s.capexRepo.FindByID(ctx, entry.ID)
	if err != nil {
		return CreateCapexResult{}, fmt.Errorf("failed to reload capex entry: %w", err)
	}

	return CreateCapexResult{Entry: toCapexResponse(*reloaded), Warnings: warnings}, nil
}

func (s *capexService) ListEntries(ctx context.Context, page, limit int) ([]CapexResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.capexRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch capex entries: %w", err)
	}

	result := make([]CapexResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toCapexResponse(e))
	}
	return result, total, nil
}

func (s *capexService) DeleteEntry(ctx context.Context, id string) error {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid entry id: %w", err)
	}
	if _, err := s.capexRepo.FindByID(ctx, entryID); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.capexRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete capex entry: %w", err)
	}
	return nil
}

func (s *capexService) budgetWarnings(ctx context.Context) ([]string, error) {
	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totalBudget := s.settingFloat(ctx, model.SettingTotalCapexBudget)
	monthlyLimit := s.settingFloat(ctx, model.SettingMonthlyCapexLimit)

	now := time.Now()
	var totalConsumed, monthlyConsumed decimal.Decimal
	for _, e := range entries {
		totalConsumed = totalConsumed.Add(e.Amount)
		if e.EntryDate.Year() == now.Year() && e.EntryDate.Month() == now.Month() {
			monthlyConsumed = monthlyConsumed.Add(e.Amount)
		}
	}

	var warnings []string
	if totalBudget > 0 && totalConsumed.GreaterThan(decimal.NewFromFloat(totalBudget)) {
		warnings = append(warnings, "WARNING: Total CAPEX Budget has been exceeded!")
	} else if monthlyLimit > 0 && monthlyConsumed.GreaterThan(decimal.NewFromFloat(monthlyLimit)) {
		warnings = append(warnings, "WARNING: Monthly CAPEX Limit has been exceeded!")
	}
	return warnings, nil
}

func (s *capexService) settingFloat(ctx context.Context, key string) float64 {
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

// --- Mapping ---

func toCapexResponse(e model.CapexEntry) CapexResponse {
	resp := CapexResponse{
		ID:           e.ID.String(),
		VendorID:     e.VendorID.String(),
		DepartmentID: e.DepartmentID.String(),
		Category:     e.Category,
		Description:  e.Description,
		Amount:       e.Amount.StringFixed(2),
		EntryDate:    e.EntryDate.Format("2006-01-02"),
		InvoiceURL:   e.InvoiceURL,
		Remarks:      e.Remarks,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.Vendor != nil {
		resp.VendorName = e.Vendor.Name
	}
	if e.Department != nil {
		resp.DepartmentName = e.Department.Name
	}
	return resp
}
