package care

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"careboard/internal/cache"
	"careboard/internal/domain"
	"careboard/internal/modules/dashboard"
	"careboard/internal/notification"
	"careboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures approval-request notifications.
type Options struct {
	FormBaseURL string
	Subject     string
}

type Service struct {
	submissions SubmissionRepository
	units       UnitLookup
	approvers   Approvers
	notifier    notification.Notifier
	locker      cache.Locker
	opts        Options
	log         logrus.FieldLogger
}

// NewService wires the workflow. locker may be nil, in which case the
// database unique index alone guards against double approval.
func NewService(
	submissions SubmissionRepository,
	units UnitLookup,
	approvers Approvers,
	notifier notification.Notifier,
	locker cache.Locker,
	opts Options,
	log logrus.FieldLogger,
) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Subject == "" {
		opts.Subject = notification.DefaultSubject
	}
	return &Service{
		submissions: submissions,
		units:       units,
		approvers:   approvers,
		notifier:    notifier,
		locker:      locker,
		opts:        opts,
		log:         log.WithField("module", "care"),
	}
}

// Prefill loads what the form needs for one unit. In rvpMode the actor must
// be an RVP and the existing pending record, if any, is included for review.
func (s *Service) Prefill(ctx context.Context, req Request, unitID string, rvpMode bool) (*PrefillResponse, error) {
	if rvpMode {
		if err := s.authorize(ctx, req.ActorEmail); err != nil {
			return nil, err
		}
	}

	unit, err := s.units.UnitDetails(ctx, unitID, req.Now)
	if err != nil {
		return nil, mapLookupError(err)
	}

	resp := &PrefillResponse{
		Unit:           unit,
		BranchCode:     unit.BranchCode,
		RVPMode:        rvpMode,
		WorkOrderTypes: WorkOrderTypes,
	}

	pending, err := s.submissions.PendingByUnit(ctx, unit.UnitID)
	switch {
	case err == nil:
		resp.Pending = pending
	case !errors.Is(err, repository.ErrNotFound):
		return nil, persistence(err)
	}
	return resp, nil
}

// Submit moves a form to pending approval. A resubmission for the same unit
// replaces the previous pending record. Notification failures do not undo
// the submission; they are reported through Notified.
func (s *Service) Submit(ctx context.Context, req Request, form SubmissionForm) (*SubmitResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.units.UnitDetails(ctx, form.UnitID, req.Now); err != nil {
		return nil, mapLookupError(err)
	}

	pending := &domain.PendingSubmission{
		UnitID:           form.UnitID,
		SubmissionFields: form.fields(),
		Status:           domain.SubmissionPending,
		SubmittedBy:      req.ActorEmail,
		SubmittedAt:      req.Now,
	}
	if err := s.submissions.UpsertPending(ctx, pending); err != nil {
		return nil, persistence(err)
	}

	log := s.log.WithFields(logrus.Fields{"unit_id": form.UnitID, "actor": req.ActorEmail})
	log.WithField("value_approved", pending.ValueApproved).Info("care submission pending approval")

	recipients, notified := s.requestApproval(ctx, log, form.UnitID, form.Region)
	return &SubmitResult{Pending: pending, Notified: notified, Recipients: recipients}, nil
}

func (s *Service) requestApproval(ctx context.Context, log logrus.FieldLogger, unitID, region string) ([]string, bool) {
	if s.notifier == nil {
		return nil, false
	}

	link, err := notification.BuildApprovalLink(s.opts.FormBaseURL, unitID)
	if err != nil {
		log.WithError(err).Error("failed to build approval link")
		return nil, false
	}
	recipients, err := s.approvers.ForRegion(ctx, region)
	if err != nil {
		log.WithError(err).Error("failed to resolve approval recipients")
		return nil, false
	}
	if len(recipients) == 0 {
		log.Warn("no rvp recipients configured")
		return nil, false
	}

	notified := true
	for _, to := range recipients {
		msg := notification.NewApprovalRequest(to, s.opts.Subject, link, unitID)
		if err := s.notifier.Send(ctx, msg); err != nil {
			log.WithError(err).WithField("to", to).Error("failed to send approval request")
			notified = false
		}
	}
	return recipients, notified
}

// Pending returns the pending record for unitID. A unit that already has an
// approved submission reports ErrAlreadyApproved even though its pending row
// is kept.
func (s *Service) Pending(ctx context.Context, unitID string) (*domain.PendingSubmission, error) {
	unitID = strings.TrimSpace(unitID)

	_, err := s.submissions.ApprovedByUnit(ctx, unitID)
	if err == nil {
		return nil, ErrAlreadyApproved
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, persistence(err)
	}

	p, err := s.submissions.PendingByUnit(ctx, unitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPendingSubmission
	}
	if err != nil {
		return nil, persistence(err)
	}
	return p, nil
}

// Approve completes a pending submission. Checks run in order: the actor
// must be an RVP, the RVP fields must be filled, the form must be valid and
// a pending record must exist. The approved record and the unit status flip
// are written in one transaction.
func (s *Service) Approve(ctx context.Context, req Request, form SubmissionForm) (*domain.Submission, error) {
	if err := s.authorize(ctx, req.ActorEmail); err != nil {
		return nil, err
	}
	if !form.hasRVPFields() {
		return nil, ErrIncompleteApproval
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Pending(ctx, form.UnitID); err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, "care:approve:"+form.UnitID)
		if errors.Is(err, cache.ErrLocked) {
			return nil, ErrApprovalInProgress
		}
		if err != nil {
			return nil, persistence(err)
		}
		defer release()
	}

	sub := &domain.Submission{
		ID:               uuid.NewString(),
		UnitID:           form.UnitID,
		SubmissionFields: form.fields(),
		RVPApprovalDate:  strings.TrimSpace(form.RVPApprovalDate),
		ApprovalByRVP:    strings.TrimSpace(form.ApprovalByRVP),
		Status:           domain.SubmissionApproved,
		ApprovedBy:       req.ActorEmail,
		ApprovedAt:       req.Now,
	}

	if err := s.submissions.Approve(ctx, sub); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyApproved
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUnitNotFound
		default:
			return nil, persistence(err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"unit_id":        sub.UnitID,
		"submission_id":  sub.ID,
		"approver":       req.ActorEmail,
		"value_approved": sub.ValueApproved,
	}).Info("care submission approved")
	return sub, nil
}

func (s *Service) authorize(ctx context.Context, email string) error {
	ok, err := s.approvers.IsRVP(ctx, email)
	if err != nil {
		return persistence(err)
	}
	if !ok {
		return ErrUnauthorizedApprover
	}
	return nil
}

func mapLookupError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrUnitNotFound):
		return ErrUnitNotFound
	case errors.Is(err, dashboard.ErrValidation):
		return fmt.Errorf("%w: unit_id is required", ErrValidation)
	default:
		return persistence(err)
	}
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
