package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CapexRepository interface {
	Create(ctx context.Context, entry *model.CapexEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CapexEntry, error)
	List(ctx context.Context, page, limit int) ([]model.CapexEntry, int64, error)
	ListAll(ctx context.Context) ([]model.CapexEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type capexRepository struct {
	db *gorm.DB
}

func NewCapexRepository(db *gorm.DB) CapexRepository {
	return &capexRepository{db: db}
}

func (r *capexRepository) Create(ctx context.Context, entry *model.CapexEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *capexRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CapexEntry, error) {
	var entry model.CapexEntry
	if err := GetDB(ctx, r.db).Preload("Vendor").Preload("Department").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *capexRepository) List(ctx context.Context, page, limit int) ([]model.CapexEntry, int64, error) {
	var entries []model.CapexEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.CapexEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Vendor").Preload("Department").
		Order("entry_date desc").Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *capexRepository) ListAll(ctx context.Context) ([]model.CapexEntry, error) {
	var entries []model.CapexEntry
	if err := GetDB(ctx, r.db).Preload("Vendor").Preload("Department").
		Order("entry_date desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *capexRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CapexEntry{}).Error
}
