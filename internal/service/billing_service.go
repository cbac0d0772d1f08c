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

type CreateBillingRequest struct {
	VendorID         string `json:"vendor_id"`
	ManualVendorName string `json:"manual_vendor_name"`
	InvoiceNumber    string `json:"invoice_number"`
	ServiceType      string `json:"service_type" binding:"required"`
	BillDate         string `json:"bill_date" binding:"required"` // 2006-01-02
	ServiceStartDate string `json:"service_start_date"`
	Amount           string `json:"amount" binding:"required"`
	GSTType          string `json:"gst_type" binding:"required,oneof='CGST + SGST' IGST Exempted"`
	GSTRate          string `json:"gst_rate"`
	CGSTRate         string `json:"cgst_rate"`
	SGSTRate         string `json:"sgst_rate"`
	BillURL          string `json:"bill_url"`
	POURL            string `json:"po_url"`
	Remarks          string `json:"remarks"`
	PaymentStatus    string `json:"payment_status" binding:"omitempty,oneof=Paid Pending 'PO Pending'"`
}

type BillingFilter struct {
	PaymentStatus string
	InvoiceStatus string
	Search        string
	VendorID      string // non-empty restricts the listing to one vendor's records
	Page          int
	Limit         int
}

type BillingResponse struct {
	ID               string  `json:"id"`
	VendorID         *string `json:"vendor_id"`
	VendorName       string  `json:"vendor_name"`
	InvoiceNumber    string  `json:"invoice_number"`
	ServiceType      string  `json:"service_type"`
	BillDate         string  `json:"bill_date"`
	ServiceStartDate *string `json:"service_start_date"`
	Amount           string  `json:"amount"`
	GSTType          string  `json:"gst_type"`
	GSTRate          string  `json:"gst_rate"`
	CGSTRate         string  `json:"cgst_rate"`
	SGSTRate         string  `json:"sgst_rate"`
	GSTAmount        string  `json:"gst_amount"`
	TotalAmount      string  `json:"total_amount"`
	BillURL          string  `json:"bill_url"`
	POURL            string  `json:"po_url"`
	Remarks          string  `json:"remarks"`
	PaymentStatus    string  `json:"payment_status"`
	InvoiceStatus    string  `json:"invoice_status"`
	StageIndex       int     `json:"stage_index"`

	InvoiceGeneratedAt *string `json:"invoice_generated_at"`
	InvoiceMailedAt    *string `json:"invoice_mailed_at"`
	BillInwardedAt     *string `json:"bill_inwarded_at"`

	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateBillingResult carries the created record plus any advisory budget
// warnings. Warnings never block the create.
type CreateBillingResult struct {
	Record   BillingResponse `json:"record"`
	Warnings []string        `json:"warnings,omitempty"`
}

// --- Interface ---

type BillingService interface {
	CreateRecord(ctx context.Context, req CreateBillingRequest) (CreateBillingResult, error)
	GetRecord(ctx context.Context, id string) (BillingResponse, error)
	ListRecords(ctx context.Context, filter BillingFilter) ([]BillingResponse, int64, error)
}

type billingService struct {
	billingRepo repository.BillingRepository
	vendorRepo  repository.VendorRepository
	settingRepo repository.SettingRepository
}

func NewBillingService(
	billingRepo repository.BillingRepository,
	vendorRepo repository.VendorRepository,
	settingRepo repository.SettingRepository,
) BillingService {
	return &billingService{
		billingRepo: billingRepo,
		vendorRepo:  vendorRepo,
		settingRepo: settingRepo,
	}
}

// --- Implementation ---

func (s *billingService) CreateRecord(ctx context.Context, req CreateBillingRequest) (CreateBillingResult, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CreateBillingResult{}, fmt.Errorf("invalid amount: %w", err)
	}

	billDate, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		return CreateBillingResult{}, fmt.Errorf("invalid bill_date: %w", err)
	}

	var serviceStart *time.Time
	if req.ServiceStartDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.ServiceStartDate)
		if parseErr != nil {
			return CreateBillingResult{}, fmt.Errorf("invalid service_start_date: %w", parseErr)
		}
		serviceStart = &parsed
	}

	record := model.BillingRecord{
		ManualVendorName: req.ManualVendorName,
		InvoiceNumber:    req.InvoiceNumber,
		ServiceType:      req.ServiceType,
		BillDate:         billDate,
		ServiceStartDate: serviceStart,
		Amount:           amount,
		GSTType:          req.GSTType,
		BillURL:          req.BillURL,
		POURL:            req.POURL,
		Remarks:          req.Remarks,
		PaymentStatus:    req.PaymentStatus,
	}
	if record.PaymentStatus == "" {
		record.PaymentStatus = model.PaymentPending
	}

	if req.VendorID != "" {
		vendorID, parseErr := uuid.Parse(req.VendorID)
		if parseErr != nil {
			return CreateBillingResult{}, fmt.Errorf("invalid vendor_id: %w", parseErr)
		}
		if _, findErr := s.vendorRepo.FindByID(ctx, vendorID); findErr != nil {
			return CreateBillingResult{}, fmt.Errorf("vendor not found: %w", findErr)
		}
		record.VendorID = &vendorID
	}

	if err := applyGST(&record, req); err != nil {
		return CreateBillingResult{}, err
	}

	if err := s.billingRepo.Create(ctx, &record); err != nil {
		return CreateBillingResult{}, fmt.Errorf("failed to create billing record: %w", err)
	}

	warnings, err := s.budgetWarnings(ctx)
	if err != nil {
		// Budget checks are advisory; a failed check never fails the create.
		warnings = nil
	}

	reloaded, err := s.billingRepo.FindByID(ctx, record.ID)
	if err != nil {
		return CreateBillingResult{}, fmt.Errorf("failed to reload billing record: %w", err)
	}

	return CreateBillingResult{Record: toBillingResponse(*reloaded), Warnings: warnings}, nil
}

// applyGST computes gst_rate, gst_amount and total_amount from the request.
// CGST + SGST sums the two component rates, IGST uses the single rate and
// Exempted contributes nothing.
func applyGST(record *model.BillingRecord, req CreateBillingRequest) error {
	parseRate := func(field, v string) (decimal.Decimal, error) {
		if v == "" {
			return decimal.Zero, nil
		}
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
		}
		return rate, nil
	}

	var totalRate decimal.Decimal
	switch req.GSTType {
	case model.GSTTypeCGSTSGST:
		cgst, err := parseRate("cgst_rate", req.CGSTRate)
		if err != nil {
			return err
		}
		sgst, err := parseRate("sgst_rate", req.SGSTRate)
		if err != nil {
			return err
		}
		record.CGSTRate = cgst
		record.SGSTRate = sgst
		totalRate = cgst.Add(sgst)
	case model.GSTTypeIGST:
		rate, err := parseRate("gst_rate", req.GSTRate)
		if err != nil {
			return err
		}
		totalRate = rate
	case model.GSTTypeExempted:
		totalRate = decimal.Zero
	}

	record.GSTRate = totalRate
	record.GSTAmount = record.Amount.Mul(totalRate).Div(decimal.NewFromInt(100))
	record.TotalAmount = record.Amount.Add(record.GSTAmount)
	return nil
}

func (s *billingService) GetRecord(ctx context.Context, id string) (BillingResponse, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	record, err := s.billingRepo.FindByID(ctx, recordID)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return toBillingResponse(*record), nil
}

func (s *billingService) ListRecords(ctx context.Context, filter BillingFilter) ([]BillingResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.BillingListFilter{
		PaymentStatus: filter.PaymentStatus,
		InvoiceStatus: filter.InvoiceStatus,
		Search:        filter.Search,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}
	if filter.VendorID != "" {
		vendorID, err := uuid.Parse(filter.VendorID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid vendor_id: %w", err)
		}
		repoFilter.VendorID = &vendorID
	}

	records, total, err := s.billingRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch billing records: %w", err)
	}

	result := make([]BillingResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toBillingResponse(r))
	}
	return result, total, nil
}

// budgetWarnings compares consumed billing totals against the advisory
// budget settings. A zero budget disables its check.
func (s *billingService) budgetWarnings(ctx context.Context) ([]string, error) {
	records, err := s.billingRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totalBudget := s.settingFloat(ctx, model.SettingTotalBillingBudget)
	monthlyLimit := s.settingFloat(ctx, model.SettingMonthlyBillingLimit)

	now := time.Now()
	var totalConsumed, monthlyConsumed decimal.Decimal
	for _, r := range records {
		totalConsumed = totalConsumed.Add(r.TotalAmount)
		if r.BillDate.Year() == now.Year() && r.BillDate.Month() == now.Month() {
			monthlyConsumed = monthlyConsumed.Add(r.TotalAmount)
		}
	}

	var warnings []string
	if totalBudget > 0 && totalConsumed.GreaterThan(decimal.NewFromFloat(totalBudget)) {
		warnings = append(warnings, "WARNING: Total Billing Budget has been exceeded!")
	} else if monthlyLimit > 0 && monthlyConsumed.GreaterThan(decimal.NewFromFloat(monthlyLimit)) {
		warnings = append(warnings, "WARNING: Monthly Billing Limit has been exceeded!")
	}
	return warnings, nil
}

func (s *billingService) settingFloat(ctx context.Context, key string) float64 {
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

func toBillingResponse(r model.BillingRecord) BillingResponse {
	resp := BillingResponse{
		ID:            r.ID.String(),
		VendorName:    billingVendorName(&r),
		InvoiceNumber: r.InvoiceNumber,
		ServiceType:   r.ServiceType,
		BillDate:      r.BillDate.Format("2006-01-02"),
		Amount:        r.Amount.StringFixed(2),
		GSTType:       r.GSTType,
		GSTRate:       r.GSTRate.StringFixed(2),
		CGSTRate:      r.CGSTRate.StringFixed(2),
		SGSTRate:      r.SGSTRate.StringFixed(2),
		GSTAmount:     r.GSTAmount.StringFixed(2),
		TotalAmount:   r.TotalAmount.StringFixed(2),
		BillURL:       r.BillURL,
		POURL:         r.POURL,
		Remarks:       r.Remarks,
		PaymentStatus: r.PaymentStatus,
		InvoiceStatus: r.InvoiceStatus,
		StageIndex:    model.StageIndex(r.InvoiceStatus),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}

	if r.VendorID != nil {
		s := r.VendorID.String()
		resp.VendorID = &s
	}
	if r.ServiceStartDate != nil {
		s := r.ServiceStartDate.Format("2006-01-02")
		resp.ServiceStartDate = &s
	}
	if r.InvoiceGeneratedAt != nil {
		s := r.InvoiceGeneratedAt.Format(time.RFC3339)
		resp.InvoiceGeneratedAt = &s
	}
	if r.InvoiceMailedAt != nil {
		s := r.InvoiceMailedAt.Format(time.RFC3339)
		resp.InvoiceMailedAt = &s
	}
	if r.BillInwardedAt != nil {
		s := r.BillInwardedAt.Format(time.RFC3339)
		resp.BillInwardedAt = &s
	}

	return resp
}

// billingVendorName resolves the display name: structured vendor first,
// manual free-text name second.
func billingVendorName(r *model.BillingRecord) string {
	if r.Vendor != nil && r.Vendor.Name != "" {
		return r.Vendor.Name
	}
	return r.ManualVendorName
}
