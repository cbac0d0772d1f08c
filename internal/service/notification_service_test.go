package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureHub struct {
	payloads [][]byte
}

func (h *captureHub) BroadcastMessage(payload []byte) {
	h.payloads = append(h.payloads, payload)
}

// failingNotificationRepo simulates an unreachable primary store.
type failingNotificationRepo struct{}

func (failingNotificationRepo) Create(ctx context.Context, n *model.AppNotification) error {
	return errors.New("connection refused")
}

func (failingNotificationRepo) List(ctx context.Context, limit int) ([]model.AppNotification, error) {
	return nil, errors.New("connection refused")
}

func (failingNotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return errors.New("connection refused")
}

func (failingNotificationRepo) MarkAllRead(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestPublishStoresAndBroadcasts(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewNotificationRepository(db)
	hub := &captureHub{}
	svc := NewNotificationService(repo, nil, hub, zap.NewNop())

	svc.Publish(context.Background(), "Invoice received for Internet.", model.SeverityInfo)

	notes, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Invoice received for Internet.", notes[0].Message)
	assert.False(t, notes[0].Read)

	require.Len(t, hub.payloads, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(hub.payloads[0], &payload))
	assert.Equal(t, "notification", payload["type"])
	assert.Equal(t, model.SeverityInfo, payload["severity"])
}

func TestPublishFallsBackWhenPrimaryFails(t *testing.T) {
	db := newTestDB(t)
	fallback := repository.NewNotificationRepository(db)
	hub := &captureHub{}
	svc := NewNotificationService(failingNotificationRepo{}, fallback, hub, zap.NewNop())

	svc.Publish(context.Background(), "Vendor Acme reported a DELAY in generating invoice for Internet.", model.SeverityWarning)

	notes, err := fallback.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.SeverityWarning, notes[0].Severity)

	// Broadcast still happens after a fallback save.
	assert.Len(t, hub.payloads, 1)
}

func TestPublishDropsWhenNoFallback(t *testing.T) {
	hub := &captureHub{}
	svc := NewNotificationService(failingNotificationRepo{}, nil, hub, zap.NewNop())

	// Must not panic and must not broadcast an unstored notification.
	svc.Publish(context.Background(), "lost", model.SeverityInfo)
	assert.Empty(t, hub.payloads)
}

func TestMarkReadFlow(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewNotificationRepository(db)
	svc := NewNotificationService(repo, nil, nil, zap.NewNop())

	svc.Publish(context.Background(), "first", model.SeverityInfo)
	svc.Publish(context.Background(), "second", model.SeverityInfo)

	count, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	notes, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	require.NoError(t, svc.MarkRead(context.Background(), notes[0].ID))

	count, err = svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAllRead(context.Background()))

	count, err = svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
