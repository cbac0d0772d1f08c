package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster pushes a raw payload to all connected WebSocket clients.
// Implemented by the websocket.Hub.
type Broadcaster interface {
	BroadcastMessage(payload []byte)
}

// --- DTOs ---

type NotificationResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

// NotificationService persists and delivers transition notifications.
// Delivery is best-effort: a primary-store failure falls back to the local
// store, and no failure ever propagates to the operation that triggered the
// notification.
type NotificationService interface {
	Publish(ctx context.Context, message, severity string)
	List(ctx context.Context, limit int) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

type notificationService struct {
	primary  repository.NotificationRepository
	fallback repository.NotificationRepository // nil when already running on the fallback store
	hub      Broadcaster
	logger   *zap.Logger
}

func NewNotificationService(
	primary repository.NotificationRepository,
	fallback repository.NotificationRepository,
	hub Broadcaster,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		primary:  primary,
		fallback: fallback,
		hub:      hub,
		logger:   logger,
	}
}

// --- Implementation ---

func (s *notificationService) Publish(ctx context.Context, message, severity string) {
	note := &model.AppNotification{
		Message:  message,
		Severity: severity,
	}

	if err := s.primary.Create(ctx, note); err != nil {
		s.logger.Warn("primary notification insert failed, trying fallback store",
			zap.String("message", message), zap.Error(err))
		if s.fallback == nil {
			return
		}
		if fbErr := s.fallback.Create(ctx, note); fbErr != nil {
			s.logger.Error("fallback notification insert failed, notification dropped",
				zap.String("message", message), zap.Error(fbErr))
			return
		}
	}

	if s.hub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":      "notification",
			"message":   note.Message,
			"severity":  note.Severity,
			"timestamp": time.Now().Format(time.RFC3339),
		})
		if err == nil {
			s.hub.BroadcastMessage(payload)
		}
	}
}

func (s *notificationService) List(ctx context.Context, limit int) ([]NotificationResponse, error) {
	notes, err := s.primary.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	result := make([]NotificationResponse, 0, len(notes))
	for _, n := range notes {
		result = append(result, NotificationResponse{
			ID:        n.ID.String(),
			Message:   n.Message,
			Severity:  n.Severity,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	count, err := s.primary.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	if err := s.primary.MarkRead(ctx, noteID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	if err := s.primary.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
