package care

import (
	"context"
	"errors"
	"testing"
	"time"

	"careboard/internal/cache"
	"careboard/internal/domain"
	"careboard/internal/modules/dashboard"
	"careboard/internal/notification"
	"careboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) UpsertPending(ctx context.Context, p *domain.PendingSubmission) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockSubmissionRepository) PendingByUnit(ctx context.Context, unitID string) (*domain.PendingSubmission, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) ApprovedByUnit(ctx context.Context, unitID string) (*domain.Submission, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Approve(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

type MockUnitLookup struct {
	mock.Mock
}

func (m *MockUnitLookup) UnitDetails(ctx context.Context, unitID string, now time.Time) (*dashboard.UnitDetails, error) {
	args := m.Called(ctx, unitID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.UnitDetails), args.Error(1)
}

type MockApprovers struct {
	mock.Mock
}

func (m *MockApprovers) IsRVP(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockApprovers) ForRegion(ctx context.Context, region string) ([]string, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

var now = time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)

func validForm(unitID string) SubmissionForm {
	return SubmissionForm{
		UnitID:            unitID,
		Region:            "West",
		BranchCode:        "VAN1",
		Customer:          "Acme",
		WOType:            string(domain.WORopeReplacement),
		UnitOnList:        "Yes",
		MaxConnected:      "No",
		CustomerEmail:     "facilities@acme.test",
		NumberOfStops:     6,
		RepairTeamHours:   2.0,
		RepairLabourHours: 5.0,
	}
}

func approvalForm(unitID string) SubmissionForm {
	f := validForm(unitID)
	f.RVPApprovalDate = "2024-10-15"
	f.ApprovalByRVP = "Pat West"
	return f
}

type fixture struct {
	repo      *MockSubmissionRepository
	units     *MockUnitLookup
	approvers *MockApprovers
	notifier  *MockNotifier
	svc       *Service
}

func newFixture(locker cache.Locker) *fixture {
	f := &fixture{
		repo:      new(MockSubmissionRepository),
		units:     new(MockUnitLookup),
		approvers: new(MockApprovers),
		notifier:  new(MockNotifier),
	}
	f.svc = NewService(f.repo, f.units, f.approvers, f.notifier, locker,
		Options{FormBaseURL: "http://care.test/form"}, nil)
	return f
}

func TestSubmit_UpsertsPendingAndNotifies(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := Request{ActorEmail: "tech@example.com", Now: now}

	f.units.On("UnitDetails", ctx, "U1", now).Return(&dashboard.UnitDetails{UnitID: "U1"}, nil)
	f.repo.On("UpsertPending", ctx, mock.MatchedBy(func(p *domain.PendingSubmission) bool {
		return p.UnitID == "U1" &&
			p.Status == domain.SubmissionPending &&
			p.RepairLabourHours == 0 &&
			p.ValueApproved == 381.40 &&
			p.SubmittedBy == "tech@example.com"
	})).Return(nil)
	f.approvers.On("ForRegion", ctx, "West").Return([]string{"pat@example.com"}, nil)
	f.notifier.On("Send", ctx, mock.MatchedBy(func(m notification.Message) bool {
		return m.To == "pat@example.com" &&
			m.Subject == notification.DefaultSubject &&
			m.Link == "http://care.test/form?rvp_approval=True&unit_id=U1"
	})).Return(nil)

	res, err := f.svc.Submit(ctx, req, validForm("U1"))
	require.NoError(t, err)
	assert.True(t, res.Notified)
	assert.Equal(t, []string{"pat@example.com"}, res.Recipients)
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSubmit_NotificationFailureKeepsPending(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	f.units.On("UnitDetails", ctx, "U1", now).Return(&dashboard.UnitDetails{UnitID: "U1"}, nil)
	f.repo.On("UpsertPending", ctx, mock.Anything).Return(nil)
	f.approvers.On("ForRegion", ctx, "West").Return([]string{"pat@example.com"}, nil)
	f.notifier.On("Send", ctx, mock.Anything).Return(errors.New("smtp relay down"))

	res, err := f.svc.Submit(ctx, Request{ActorEmail: "tech@example.com", Now: now}, validForm("U1"))
	require.NoError(t, err)
	assert.False(t, res.Notified)
	f.repo.AssertCalled(t, "UpsertPending", ctx, mock.Anything)
}

func TestSubmit_UnknownUnit(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.units.On("UnitDetails", ctx, "U9", now).Return(nil, dashboard.ErrUnitNotFound)

	_, err := f.svc.Submit(ctx, Request{Now: now}, validForm("U9"))
	assert.ErrorIs(t, err, ErrUnitNotFound)
	f.repo.AssertNotCalled(t, "UpsertPending", mock.Anything, mock.Anything)
}

func TestSubmit_InvalidForm(t *testing.T) {
	f := newFixture(nil)
	form := validForm("U1")
	form.WOType = ""

	_, err := f.svc.Submit(context.Background(), Request{Now: now}, form)
	assert.ErrorIs(t, err, ErrValidation)
	f.units.AssertNotCalled(t, "UnitDetails", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_NonRVPRejected(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "tech@example.com").Return(false, nil)

	_, err := f.svc.Approve(ctx, Request{ActorEmail: "tech@example.com", Now: now}, approvalForm("U1"))
	assert.ErrorIs(t, err, ErrUnauthorizedApprover)
	f.repo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestApprove_MissingRVPFields(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "pat@example.com").Return(true, nil)

	form := approvalForm("U1")
	form.ApprovalByRVP = "  "
	_, err := f.svc.Approve(ctx, Request{ActorEmail: "pat@example.com", Now: now}, form)
	assert.ErrorIs(t, err, ErrIncompleteApproval)
	assert.NotErrorIs(t, err, ErrUnauthorizedApprover)
}

func TestApprove_RequiresPending(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "pat@example.com").Return(true, nil)
	f.repo.On("ApprovedByUnit", ctx, "U1").Return(nil, repository.ErrNotFound)
	f.repo.On("PendingByUnit", ctx, "U1").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Approve(ctx, Request{ActorEmail: "pat@example.com", Now: now}, approvalForm("U1"))
	assert.ErrorIs(t, err, ErrNoPendingSubmission)
}

func TestPending_ApprovedUnitReportsAlreadyApproved(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.repo.On("ApprovedByUnit", ctx, "U1").Return(&domain.Submission{UnitID: "U1", Status: domain.SubmissionApproved}, nil)

	_, err := f.svc.Pending(ctx, " U1 ")
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	f.repo.AssertNotCalled(t, "PendingByUnit", mock.Anything, mock.Anything)
}

func TestPending_ApprovedLookupFailure(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.repo.On("ApprovedByUnit", ctx, "U1").Return(nil, errors.New("disk full"))

	_, err := f.svc.Pending(ctx, "U1")
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestApprove_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		repoErr error
		want    error
	}{
		{repository.ErrDuplicate, ErrAlreadyApproved},
		{repository.ErrNotFound, ErrUnitNotFound},
		{errors.New("disk full"), ErrPersistence},
	}
	for _, tt := range tests {
		f := newFixture(nil)
		ctx := context.Background()
		f.approvers.On("IsRVP", ctx, "pat@example.com").Return(true, nil)
		f.repo.On("ApprovedByUnit", ctx, "U1").Return(nil, repository.ErrNotFound)
		f.repo.On("PendingByUnit", ctx, "U1").Return(&domain.PendingSubmission{UnitID: "U1"}, nil)
		f.repo.On("Approve", ctx, mock.Anything).Return(tt.repoErr)

		_, err := f.svc.Approve(ctx, Request{ActorEmail: "pat@example.com", Now: now}, approvalForm("U1"))
		assert.ErrorIs(t, err, tt.want)
	}
}

func TestApprove_LockContention(t *testing.T) {
	locker := new(MockLocker)
	f := newFixture(locker)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "pat@example.com").Return(true, nil)
	f.repo.On("ApprovedByUnit", ctx, "U1").Return(nil, repository.ErrNotFound)
	f.repo.On("PendingByUnit", ctx, "U1").Return(&domain.PendingSubmission{UnitID: "U1"}, nil)
	locker.On("Lock", ctx, "care:approve:U1").Return(nil, cache.ErrLocked)

	_, err := f.svc.Approve(ctx, Request{ActorEmail: "pat@example.com", Now: now}, approvalForm("U1"))
	assert.ErrorIs(t, err, ErrApprovalInProgress)
	f.repo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestApprove_Success(t *testing.T) {
	locker := new(MockLocker)
	released := false
	f := newFixture(locker)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "pat@example.com").Return(true, nil)
	f.repo.On("ApprovedByUnit", ctx, "U1").Return(nil, repository.ErrNotFound)
	f.repo.On("PendingByUnit", ctx, "U1").Return(&domain.PendingSubmission{UnitID: "U1"}, nil)
	locker.On("Lock", ctx, "care:approve:U1").Return(func() { released = true }, nil)
	f.repo.On("Approve", ctx, mock.MatchedBy(func(s *domain.Submission) bool {
		return s.UnitID == "U1" &&
			s.ID != "" &&
			s.Status == domain.SubmissionApproved &&
			s.ApprovalByRVP == "Pat West" &&
			s.RepairLabourHours == 0 &&
			s.ValueApproved == 381.40
	})).Return(nil)

	sub, err := f.svc.Approve(ctx, Request{ActorEmail: "pat@example.com", Now: now}, approvalForm("U1"))
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", sub.ApprovedBy)
	assert.Equal(t, now, sub.ApprovedAt)
	assert.True(t, released)
}

func TestPrefill_RVPModeRequiresRVP(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.approvers.On("IsRVP", ctx, "tech@example.com").Return(false, nil)

	_, err := f.svc.Prefill(ctx, Request{ActorEmail: "tech@example.com", Now: now}, "U1", true)
	assert.ErrorIs(t, err, ErrUnauthorizedApprover)
}

func TestPrefill_IncludesPending(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.units.On("UnitDetails", ctx, "U1", now).Return(&dashboard.UnitDetails{UnitID: "U1", BranchCode: "VAN1"}, nil)
	f.repo.On("PendingByUnit", ctx, "U1").Return(&domain.PendingSubmission{UnitID: "U1"}, nil)

	resp, err := f.svc.Prefill(ctx, Request{ActorEmail: "tech@example.com", Now: now}, "U1", false)
	require.NoError(t, err)
	assert.Equal(t, "VAN1", resp.BranchCode)
	require.NotNil(t, resp.Pending)
	assert.Len(t, resp.WorkOrderTypes, 5)
}
