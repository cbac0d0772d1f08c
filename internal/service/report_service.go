package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reportFooter = "Confidential - IT Expenditure Audit Protocol V3.0"

var two = decimal.NewFromInt(2)

// --- Interface ---

// ReportService renders the export surfaces: spreadsheet dumps of the two
// ledgers and a per-record billing summary PDF.
type ReportService interface {
	BillingWorkbook(ctx context.Context) ([]byte, error)
	CapexWorkbook(ctx context.Context) ([]byte, error)
	BillingRecordPDF(ctx context.Context, recordID string) ([]byte, error)
}

type reportService struct {
	billingRepo repository.BillingRepository
	capexRepo   repository.CapexRepository
}

func NewReportService(billingRepo repository.BillingRepository, capexRepo repository.CapexRepository) ReportService {
	return &reportService{billingRepo: billingRepo, capexRepo: capexRepo}
}

// --- Implementation ---

func (s *reportService) BillingWorkbook(ctx context.Context) ([]byte, error) {
	records, err := s.billingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch billing records: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Billing"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Vendor", "Invoice No", "Service Type", "Bill Date", "Amount",
		"GST Type", "GST Rate (%)", "GST Amount", "Total Amount",
		"Payment Status", "Invoice Status", "Remarks",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, r := range records {
		amount, _ := r.Amount.Float64()
		gstAmount, _ := r.GSTAmount.Float64()
		totalAmount, _ := r.TotalAmount.Float64()
		values := []interface{}{
			billingVendorName(&r),
			r.InvoiceNumber,
			r.ServiceType,
			r.BillDate.Format("2006-01-02"),
			amount,
			r.GSTType,
			r.GSTRate.StringFixed(2),
			gstAmount,
			totalAmount,
			r.PaymentStatus,
			r.InvoiceStatus,
			r.Remarks,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) CapexWorkbook(ctx context.Context) ([]byte, error) {
	entries, err := s.capexRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capex entries: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "CAPEX"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Vendor", "Department", "Category", "Description",
		"Amount", "Entry Date", "Remarks",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, e := range entries {
		vendorName := "Unknown"
		if e.Vendor != nil && e.Vendor.Name != "" {
			vendorName = e.Vendor.Name
		}
		departmentName := ""
		if e.Department != nil {
			departmentName = e.Department.Name
		}
		amount, _ := e.Amount.Float64()
		values := []interface{}{
			vendorName,
			departmentName,
			e.Category,
			e.Description,
			amount,
			e.EntryDate.Format("2006-01-02"),
			e.Remarks,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BillingRecordPDF renders the one-page expenditure summary for a single
// billing record: header, vendor block, financial breakdown with the
// CGST/SGST split when applicable, remark history and the audit footer.
func (s *reportService) BillingRecordPDF(ctx context.Context, recordID string) ([]byte, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, fmt.Errorf("invalid record id: %w", err)
	}
	record, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "IT Expenditure Report", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated on "+time.Now().Format("2006-01-02 15:04"), props.Text{
			Size:  9,
			Align: align.Center,
		}),
	)

	m.AddRow(4, line.NewCol(12))

	m.AddRow(24,
		col.New(6).Add(
			text.New("Vendor Details", props.Text{Style: fontstyle.Bold, Size: 11}),
			text.New("Vendor: "+pdfValue(billingVendorName(record)), props.Text{Top: 6, Size: 9}),
			text.New("Service: "+pdfValue(record.ServiceType), props.Text{Top: 10, Size: 9}),
			text.New("Invoice No: "+pdfValue(record.InvoiceNumber), props.Text{Top: 14, Size: 9}),
		),
		col.New(6).Add(
			text.New("Status", props.Text{Style: fontstyle.Bold, Size: 11}),
			text.New("Bill Date: "+record.BillDate.Format("2006-01-02"), props.Text{Top: 6, Size: 9}),
			text.New("Payment: "+record.PaymentStatus, props.Text{Top: 10, Size: 9}),
			text.New("Tracking: "+pdfValue(record.InvoiceStatus), props.Text{Top: 14, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Financial Breakdown", props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
	)
	m.AddRow(8,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount (INR)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	addAmountRow := func(label, amount string) {
		m.AddRow(7,
			text.NewCol(8, label, props.Text{Size: 9}),
			text.NewCol(4, amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	addAmountRow("Base Amount", record.Amount.StringFixed(2))
	switch record.GSTType {
	case model.GSTTypeCGSTSGST:
		half := record.GSTAmount.Div(two)
		addAmountRow(fmt.Sprintf("CGST (%s%%)", record.CGSTRate.StringFixed(2)), half.StringFixed(2))
		addAmountRow(fmt.Sprintf("SGST (%s%%)", record.SGSTRate.StringFixed(2)), half.StringFixed(2))
	case model.GSTTypeIGST:
		addAmountRow(fmt.Sprintf("IGST (%s%%)", record.GSTRate.StringFixed(2)), record.GSTAmount.StringFixed(2))
	case model.GSTTypeExempted:
		addAmountRow("GST (Exempted)", "0.00")
	}

	m.AddRow(2, line.NewCol(12))
	m.AddRow(9,
		text.NewCol(8, "Total Amount", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, record.TotalAmount.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if record.Remarks != "" {
		m.AddRow(10,
			text.NewCol(12, "Remarks & Updates", props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
		)
		m.AddRow(30,
			text.NewCol(12, record.Remarks, props.Text{Size: 8}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, reportFooter, props.Text{Size: 8, Align: align.Center, Top: 4}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func pdfValue(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
