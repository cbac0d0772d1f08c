package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository is insert-only apart from the read flag;
// notifications are never deleted.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.AppNotification) error
	List(ctx context.Context, limit int) ([]model.AppNotification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.AppNotification) error {
	return GetDB(ctx, r.db).Create(n).Error
}

func (r *notificationRepository) List(ctx context.Context, limit int) ([]model.AppNotification, error) {
	var notes []model.AppNotification
	query := GetDB(ctx, r.db).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.AppNotification{}).Where("read = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.AppNotification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) error {
	return GetDB(ctx, r.db).Model(&model.AppNotification{}).
		Where("read = ?", false).
		Update("read", true).Error
}
