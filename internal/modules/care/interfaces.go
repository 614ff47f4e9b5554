package care

import (
	"context"
	"time"

	"careboard/internal/domain"
	"careboard/internal/modules/dashboard"
)

type SubmissionRepository interface {
	UpsertPending(ctx context.Context, p *domain.PendingSubmission) error
	PendingByUnit(ctx context.Context, unitID string) (*domain.PendingSubmission, error)
	ApprovedByUnit(ctx context.Context, unitID string) (*domain.Submission, error)
	Approve(ctx context.Context, s *domain.Submission) error
}

// UnitLookup resolves the single-unit view used for pre-fill.
type UnitLookup interface {
	UnitDetails(ctx context.Context, unitID string, now time.Time) (*dashboard.UnitDetails, error)
}

// Approvers answers RVP membership and picks notification recipients.
type Approvers interface {
	IsRVP(ctx context.Context, email string) (bool, error)
	ForRegion(ctx context.Context, region string) ([]string, error)
}
