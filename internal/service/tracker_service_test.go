package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackerFixture(t *testing.T, cfg TrackerConfig) (*trackerService, repository.BillingRepository, *stubNotifier) {
	t.Helper()

	db := newTestDB(t)
	billingRepo := repository.NewBillingRepository(db)
	notifier := &stubNotifier{}

	svc := NewTrackerService(billingRepo, notifier, cfg).(*trackerService)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	}
	return svc, billingRepo, notifier
}

func TestAdvanceRejectsUnknownStatus(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), "shipped", "", Actor{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdvanceUnknownRecord(t *testing.T) {
	svc, _, _ := newTrackerFixture(t, TrackerConfig{})

	_, err := svc.Advance(context.Background(), uuid.NewString(), model.StatusInvoiceReceive, "", Actor{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceSetsStatusAndMilestone(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet Leased Line", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	resp, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{Role: model.RoleVendor})
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvoiceReceive, resp.InvoiceStatus)
	assert.Equal(t, 0, resp.StageIndex)
	require.NotNil(t, resp.InvoiceGeneratedAt)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Invoice received for Internet Leased Line.", notifier.messages[0])
	assert.Equal(t, model.SeverityInfo, notifier.severities[0])
}

func TestMilestoneFirstWriteWins(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	first, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.NoError(t, err)
	require.NotNil(t, first.InvoiceGeneratedAt)

	// Move the clock forward and revisit the same stage; the milestone
	// must keep its original value.
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}

	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusDelayed, "", Actor{})
	require.NoError(t, err)

	second, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.NoError(t, err)
	assert.Equal(t, *first.InvoiceGeneratedAt, *second.InvoiceGeneratedAt)
}

func TestAdvanceAppendsRemarkHistory(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Firewall AMC", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "invoice shared over mail", Actor{})
	require.NoError(t, err)

	resp, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceInward, "hard copy submitted", Actor{})
	require.NoError(t, err)

	parts := strings.Split(resp.Remarks, "\n\n")
	require.Len(t, parts, 2)
	assert.Equal(t, "[Vendor Update 2026-08-28 10:30:00]: invoice shared over mail", parts[0])
	assert.Equal(t, "[Vendor Update 2026-08-28 10:30:00]: hard copy submitted", parts[1])

	// The notification carries the remark as a suffix.
	require.Len(t, notifier.messages, 2)
	assert.True(t, strings.HasSuffix(notifier.messages[1], " | Remark: hard copy submitted"))
}

func TestAdvanceIssueWordingByRole(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{
		ServiceType:      "Campus WiFi",
		ManualVendorName: "Acme Networks",
		BillDate:         time.Now(),
	}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusIssue, "", Actor{Role: model.RoleSecurity})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusIssue, "", Actor{Role: model.RoleVendor})
	require.NoError(t, err)

	require.Len(t, notifier.messages, 2)
	assert.Equal(t, "Security reported an INWARD ISSUE for Campus WiFi.", notifier.messages[0])
	assert.Equal(t, "Vendor Acme Networks reported an ISSUE with Campus WiFi.", notifier.messages[1])
	assert.Equal(t, model.SeverityWarning, notifier.severities[0])
	assert.Equal(t, model.SeverityWarning, notifier.severities[1])
}

func TestAdvanceDelayWording(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	resp, err := svc.Advance(context.Background(), record.ID.String(), model.StatusDelayed, "", Actor{Role: model.RoleVendor, DisplayName: "acme-user"})
	require.NoError(t, err)

	// Exception states render at the head of the stage list.
	assert.Equal(t, 0, resp.StageIndex)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Vendor acme-user reported a DELAY in generating invoice for the service.", notifier.messages[0])
	assert.Equal(t, model.SeverityWarning, notifier.severities[0])
}

func TestAdvancePlaceholdersWhenUnresolvable(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusIssue, "", Actor{})
	require.NoError(t, err)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Vendor Unknown Vendor reported an ISSUE with the service.", notifier.messages[0])
}

func TestStrictTransitionsRejectBackward(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{StrictTransitions: true})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusPHSignature, "", Actor{})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceInward, "", Actor{})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// Same stage is allowed.
	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusPHSignature, "", Actor{})
	assert.NoError(t, err)
}

func TestStrictTransitionsExceptionsStayReachable(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{StrictTransitions: true})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusPortalUpdate, "", Actor{})
	require.NoError(t, err)

	// Exceptions are reachable from any stage.
	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusIssue, "", Actor{})
	require.NoError(t, err)

	// And any pipeline stage is reachable on the way out.
	resp, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvoiceReceive, resp.InvoiceStatus)
}

func TestOptimisticLockingDetectsStaleWrite(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{OptimisticLocking: true})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	resp, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Version)

	// A writer holding the pre-advance snapshot loses.
	stale := *record
	stale.InvoiceStatus = model.StatusDelayed
	rows, err := billingRepo.UpdateTrackerFieldsVersioned(context.Background(), &stale, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestDefaultModeConcurrentWritesLastWins(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.NoError(t, err)

	// Two writers working from the same snapshot. Without optimistic
	// locking both writes land and the later one sticks.
	snapshot, err := billingRepo.FindByID(context.Background(), record.ID)
	require.NoError(t, err)

	first := *snapshot
	first.InvoiceStatus = model.StatusInvoiceInward
	require.NoError(t, billingRepo.UpdateTrackerFields(context.Background(), &first))

	second := *snapshot
	second.InvoiceStatus = model.StatusDelayed
	require.NoError(t, billingRepo.UpdateTrackerFields(context.Background(), &second))

	stored, err := billingRepo.FindByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelayed, stored.InvoiceStatus)
}

func TestSetPaymentStatus(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now(), PaymentStatus: model.PaymentPending}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	for _, status := range []string{model.PaymentPaid, model.PaymentPOPending, model.PaymentPending} {
		resp, err := svc.SetPaymentStatus(context.Background(), record.ID.String(), status)
		require.NoError(t, err)
		assert.Equal(t, status, resp.PaymentStatus)
	}

	_, err := svc.SetPaymentStatus(context.Background(), record.ID.String(), "Overdue")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Payment changes never notify.
	assert.Empty(t, notifier.messages)
}

func TestProgressReflectsStageIndex(t *testing.T) {
	svc, billingRepo, _ := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	progress, err := svc.Progress(context.Background(), record.ID.String())
	require.NoError(t, err)
	assert.Equal(t, -1, progress.StageIndex)
	assert.Equal(t, model.OrderedStages, progress.Stages)

	_, err = svc.Advance(context.Background(), record.ID.String(), model.StatusAccountVerification, "", Actor{})
	require.NoError(t, err)

	progress, err = svc.Progress(context.Background(), record.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, progress.StageIndex)
	assert.Equal(t, model.StatusAccountVerification, progress.InvoiceStatus)
}

func TestAdvanceSkipsNotificationOnWriteFailure(t *testing.T) {
	svc, billingRepo, notifier := newTrackerFixture(t, TrackerConfig{})

	record := &model.BillingRecord{ServiceType: "Internet", BillDate: time.Now()}
	require.NoError(t, billingRepo.Create(context.Background(), record))

	svc.billingRepo = failingBillingRepo{BillingRepository: billingRepo}

	_, err := svc.Advance(context.Background(), record.ID.String(), model.StatusInvoiceReceive, "", Actor{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, notifier.messages)
}

type failingBillingRepo struct {
	repository.BillingRepository
}

func (failingBillingRepo) UpdateTrackerFields(ctx context.Context, record *model.BillingRecord) error {
	return errors.New("write failed")
}
