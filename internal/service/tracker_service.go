package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Placeholders used in notification text when the record carries no
// service description or no resolvable vendor name.
const (
	defaultSubject    = "the service"
	defaultVendorName = "Unknown Vendor"
)

// Actor identifies who is driving a transition. Role decides the message
// wording for the issue status; DisplayName backs the vendor name when the
// record has no structured vendor.
type Actor struct {
	Role        string
	DisplayName string
}

// TrackerConfig toggles the two behaviors the default deployment leaves off:
// transition-legality enforcement and optimistic concurrency. Defaults match
// the historical behavior (accept anything, last write wins).
type TrackerConfig struct {
	StrictTransitions bool
	OptimisticLocking bool
}

// --- DTOs ---

type AdvanceRequest struct {
	TargetStatus string `json:"target_status" binding:"required"`
	Remark       string `json:"remark"`
}

type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=Paid Pending 'PO Pending'"`
}

type ProgressResponse struct {
	RecordID      string   `json:"record_id"`
	InvoiceStatus string   `json:"invoice_status"`
	StageIndex    int      `json:"stage_index"`
	Stages        []string `json:"stages"`
}

// --- Interface ---

// TrackerService owns the per-record invoice_status field, the ordered stage
// list, and the notification side effect of each transition.
type TrackerService interface {
	Advance(ctx context.Context, recordID string, target string, remark string, actor Actor) (BillingResponse, error)
	SetPaymentStatus(ctx context.Context, recordID string, status string) (BillingResponse, error)
	Progress(ctx context.Context, recordID string) (ProgressResponse, error)
}

type trackerService struct {
	billingRepo repository.BillingRepository
	notifier    NotificationService
	cfg         TrackerConfig
	now         func() time.Time
}

func NewTrackerService(
	billingRepo repository.BillingRepository,
	notifier NotificationService,
	cfg TrackerConfig,
) TrackerService {
	return &trackerService{
		billingRepo: billingRepo,
		notifier:    notifier,
		cfg:         cfg,
		now:         time.Now,
	}
}

// --- Implementation ---

// Advance sets the record's invoice_status to target and runs the transition
// side effects: remark append, milestone capture, notification emission.
// The record write and the notification are deliberately not atomic: the
// notification is best-effort and must never block or roll back the status
// change.
func (s *trackerService) Advance(ctx context.Context, recordID string, target string, remark string, actor Actor) (BillingResponse, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	if !model.IsValidInvoiceStatus(target) {
		return BillingResponse{}, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	record, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillingResponse{}, fmt.Errorf("%w: %s", ErrNotFound, recordID)
		}
		return BillingResponse{}, fmt.Errorf("failed to load billing record: %w", err)
	}

	if s.cfg.StrictTransitions {
		if err := checkForwardOnly(record.InvoiceStatus, target); err != nil {
			return BillingResponse{}, err
		}
	}

	now := s.now()
	prevVersion := record.Version
	record.InvoiceStatus = target
	record.UpdatedAt = now

	if remark != "" {
		note := fmt.Sprintf("[Vendor Update %s]: %s", now.Format("2006-01-02 15:04:05"), remark)
		if record.Remarks != "" {
			record.Remarks = record.Remarks + "\n\n" + note
		} else {
			record.Remarks = note
		}
	}

	// Milestone timestamps are first-write-wins: evaluated against the
	// previous record state, never reset on re-entry to the same stage.
	switch target {
	case model.StatusInvoiceReceive:
		if record.InvoiceGeneratedAt == nil {
			record.InvoiceGeneratedAt = &now
		}
	case model.StatusInvoiceInward:
		if record.InvoiceMailedAt == nil {
			record.InvoiceMailedAt = &now
		}
	case model.StatusAccountVerification:
		if record.BillInwardedAt == nil {
			record.BillInwardedAt = &now
		}
	}

	if s.cfg.OptimisticLocking {
		record.Version = prevVersion + 1
		rows, updateErr := s.billingRepo.UpdateTrackerFieldsVersioned(ctx, record, prevVersion)
		if updateErr != nil {
			return BillingResponse{}, fmt.Errorf("failed to update billing record: %w", updateErr)
		}
		if rows == 0 {
			return BillingResponse{}, fmt.Errorf("%w: %s", ErrConflict, recordID)
		}
	} else {
		if updateErr := s.billingRepo.UpdateTrackerFields(ctx, record); updateErr != nil {
			// Record update failures propagate to the caller; the
			// notification is skipped entirely.
			return BillingResponse{}, fmt.Errorf("failed to update billing record: %w", updateErr)
		}
	}

	message := deriveMessage(target, actor, record)
	if remark != "" {
		message = message + " | Remark: " + remark
	}
	severity := model.SeverityInfo
	if target == model.StatusIssue || target == model.StatusDelayed {
		severity = model.SeverityWarning
	}
	s.notifier.Publish(ctx, message, severity)

	reloaded, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("failed to reload billing record: %w", err)
	}
	return toBillingResponse(*reloaded), nil
}

// checkForwardOnly rejects pipeline targets that would move the record
// backwards. Exception states stay reachable from anywhere, and leaving an
// exception state is always allowed.
func checkForwardOnly(current, target string) error {
	if target == model.StatusDelayed || target == model.StatusIssue {
		return nil
	}
	if current == "" || current == model.StatusDelayed || current == model.StatusIssue {
		return nil
	}
	if model.StageIndex(target) < model.StageIndex(current) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}
	return nil
}

// SetPaymentStatus is the simpler sibling of Advance: direct set, no remark
// history, no notification.
func (s *trackerService) SetPaymentStatus(ctx context.Context, recordID string, status string) (BillingResponse, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	switch status {
	case model.PaymentPaid, model.PaymentPending, model.PaymentPOPending:
	default:
		return BillingResponse{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if _, err := s.billingRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillingResponse{}, fmt.Errorf("%w: %s", ErrNotFound, recordID)
		}
		return BillingResponse{}, fmt.Errorf("failed to load billing record: %w", err)
	}

	if err := s.billingRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return BillingResponse{}, fmt.Errorf("failed to update payment status: %w", err)
	}

	reloaded, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		return BillingResponse{}, fmt.Errorf("failed to reload billing record: %w", err)
	}
	return toBillingResponse(*reloaded), nil
}

// Progress is the read-only derived view backing the progress bar.
func (s *trackerService) Progress(ctx context.Context, recordID string) (ProgressResponse, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return ProgressResponse{}, fmt.Errorf("invalid record id: %w", err)
	}

	record, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProgressResponse{}, fmt.Errorf("%w: %s", ErrNotFound, recordID)
		}
		return ProgressResponse{}, fmt.Errorf("failed to load billing record: %w", err)
	}

	return ProgressResponse{
		RecordID:      record.ID.String(),
		InvoiceStatus: record.InvoiceStatus,
		StageIndex:    model.StageIndex(record.InvoiceStatus),
		Stages:        model.OrderedStages,
	}, nil
}

// deriveMessage builds the human-readable notification text from the target
// status, the caller's role, and the record's subject/vendor labels. The
// stored status never distinguishes who raised an issue, only the message
// wording does.
func deriveMessage(target string, actor Actor, record *model.BillingRecord) string {
	subject := record.ServiceType
	if subject == "" {
		subject = defaultSubject
	}

	name := billingVendorName(record)
	if name == "" {
		name = actor.DisplayName
	}
	if name == "" {
		name = defaultVendorName
	}

	switch target {
	case model.StatusInvoiceReceive:
		return fmt.Sprintf("Invoice received for %s.", subject)
	case model.StatusInvoiceInward:
		return fmt.Sprintf("Invoice inwarded for %s.", subject)
	case model.StatusAccountVerification:
		return fmt.Sprintf("Account verification completed for %s.", subject)
	case model.StatusPHSignature:
		return fmt.Sprintf("PH Signature completed for %s.", subject)
	case model.StatusPortalUpdate:
		return fmt.Sprintf("Portal update completed for %s.", subject)
	case model.StatusDelayed:
		return fmt.Sprintf("Vendor %s reported a DELAY in generating invoice for %s.", name, subject)
	case model.StatusIssue:
		if actor.Role == model.RoleSecurity {
			return fmt.Sprintf("Security reported an INWARD ISSUE for %s.", subject)
		}
		return fmt.Sprintf("Vendor %s reported an ISSUE with %s.", name, subject)
	}
	return fmt.Sprintf("Status of %s changed to %s.", subject, target)
}
