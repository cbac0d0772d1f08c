package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingListFilter narrows the billing record listing.
type BillingListFilter struct {
	PaymentStatus string     // Paid, Pending, PO Pending or empty for all
	InvoiceStatus string     // tracker status or empty for all
	Search        string     // partial match on vendor name, invoice number or remarks
	VendorID      *uuid.UUID // restricts vendor-role callers to their own records
	Page          int
	Limit         int
}

type BillingRepository interface {
	Create(ctx context.Context, record *model.BillingRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BillingRecord, error)
	List(ctx context.Context, filter BillingListFilter) ([]model.BillingRecord, int64, error)
	ListAll(ctx context.Context) ([]model.BillingRecord, error)
	Update(ctx context.Context, record *model.BillingRecord) error
	// UpdateTrackerFields writes only the fields owned by the status tracker:
	// invoice_status, remarks, updated_at and the three milestone timestamps.
	// Last write wins; concurrent transitions clobber each other silently.
	UpdateTrackerFields(ctx context.Context, record *model.BillingRecord) error
	// UpdateTrackerFieldsVersioned is the optimistic variant: the write only
	// lands if the stored version still matches expectedVersion. Returns the
	// number of rows updated (0 means a concurrent writer got there first).
	UpdateTrackerFieldsVersioned(ctx context.Context, record *model.BillingRecord, expectedVersion int64) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, record *model.BillingRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *billingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BillingRecord, error) {
	var record model.BillingRecord
	if err := GetDB(ctx, r.db).Preload("Vendor").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *billingRepository) applyFilter(db *gorm.DB, filter BillingListFilter) *gorm.DB {
	query := db
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.InvoiceStatus != "" {
		query = query.Where("invoice_status = ?", filter.InvoiceStatus)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"manual_vendor_name LIKE ? OR invoice_number LIKE ? OR service_type LIKE ? OR remarks LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

func (r *billingRepository) List(ctx context.Context, filter BillingListFilter) ([]model.BillingRecord, int64, error) {
	var records []model.BillingRecord
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.BillingRecord{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := r.applyFilter(db.Preload("Vendor"), filter).
		Order("bill_date desc").Offset(offset).Limit(filter.Limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *billingRepository) ListAll(ctx context.Context) ([]model.BillingRecord, error) {
	var records []model.BillingRecord
	if err := GetDB(ctx, r.db).Preload("Vendor").Order("bill_date desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *billingRepository) Update(ctx context.Context, record *model.BillingRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}

var trackerFields = []string{
	"invoice_status", "remarks", "updated_at",
	"invoice_generated_at", "invoice_mailed_at", "bill_inwarded_at",
}

func (r *billingRepository) UpdateTrackerFields(ctx context.Context, record *model.BillingRecord) error {
	return GetDB(ctx, r.db).Model(record).
		Select(trackerFields).
		Updates(record).Error
}

func (r *billingRepository) UpdateTrackerFieldsVersioned(ctx context.Context, record *model.BillingRecord, expectedVersion int64) (int64, error) {
	fields := append([]string{"version"}, trackerFields...)
	res := GetDB(ctx, r.db).Model(&model.BillingRecord{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Select(fields).
		Updates(record)
	return res.RowsAffected, res.Error
}

func (r *billingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.BillingRecord{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}
