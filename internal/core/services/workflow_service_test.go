package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/core/events"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/core/services"
)

// --- Mock PayrollRepository ---
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) FindRecordsByIDs(ctx context.Context, recordIDs []string) (map[string]domain.PayrollRecord, error) {
	args := m.Called(ctx, recordIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) FindRecordsByPeriod(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error) {
	args := m.Called(ctx, periodID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) FindExistingEmployeeIDs(ctx context.Context, periodID string) (map[string]string, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockPayrollRepository) SaveRecord(ctx context.Context, record domain.PayrollRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPayrollRepository) ResetRecord(ctx context.Context, recordID string, payDate time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, recordID, payDate, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdateRecordStatus(ctx context.Context, record domain.PayrollRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.PayrollPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollPeriod), args.Error(1)
}

// --- Test Suite ---
type WorkflowServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPayrollRepository
	notifier *events.Notifier
	events   []domain.StatusChangedEvent
	service  portssvc.WorkflowSvcFacade
	now      time.Time
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPayrollRepository)
	suite.notifier = events.NewNotifier()
	suite.events = nil
	suite.notifier.Subscribe(func(evt domain.StatusChangedEvent) {
		suite.events = append(suite.events, evt)
	})
	suite.now = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewWorkflowService(suite.mockRepo, suite.notifier,
		services.WithWorkflowClock(func() time.Time { return suite.now }))
}

func (suite *WorkflowServiceTestSuite) record(id string, status domain.PayrollStatus) *domain.PayrollRecord {
	return &domain.PayrollRecord{
		RecordID:   id,
		EmployeeID: "emp-" + id,
		PeriodID:   "period-1",
		Status:     status,
	}
}

// --- Approve ---

func (suite *WorkflowServiceTestSuite) TestApproveRecords_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusCalculated), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.MatchedBy(func(r domain.PayrollRecord) bool {
		return r.RecordID == "rec-1" &&
			r.Status == domain.StatusApproved &&
			r.ApprovedBy == "user-1" &&
			r.ApprovedAt != nil && r.ApprovedAt.Equal(suite.now) &&
			r.Notes == "looks good"
	})).Return(nil).Once()

	result, err := suite.service.ApproveRecords(ctx, []string{"rec-1"}, "looks good", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.Equal(0, result.FailedCount())

	suite.Require().Len(suite.events, 1)
	suite.Equal(domain.EventStatusChanged, suite.events[0].Type)
	suite.Equal(domain.StatusCalculated, suite.events[0].FromStatus)
	suite.Equal(domain.StatusApproved, suite.events[0].ToStatus)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApproveRecords_AlreadyApprovedIsNoOp() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusApproved), nil).Once()

	result, err := suite.service.ApproveRecords(ctx, []string{"rec-1"}, "", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.Equal("already approved", result.Outcomes[0].Message)
	suite.Empty(suite.events)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRecordStatus", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApproveRecords_PartialFailure() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusDraft), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(nil).Once()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-2").Return(suite.record("rec-2", domain.StatusPaid), nil).Once()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-3").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ApproveRecords(ctx, []string{"rec-1", "rec-2", "rec-3"}, "", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.Equal(2, result.FailedCount())

	// Outcomes keep input order.
	suite.Equal("rec-1", result.Outcomes[0].EntityID)
	suite.True(result.Outcomes[0].Success)
	suite.Equal("rec-2", result.Outcomes[1].EntityID)
	suite.False(result.Outcomes[1].Success)
	suite.Equal("rec-3", result.Outcomes[2].EntityID)
	suite.False(result.Outcomes[2].Success)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApproveRecords_EmptyInput() {
	result, err := suite.service.ApproveRecords(context.Background(), nil, "", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
}

// --- Reject ---

func (suite *WorkflowServiceTestSuite) TestRejectRecords_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusCalculated), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.MatchedBy(func(r domain.PayrollRecord) bool {
		return r.Status == domain.StatusCancelled &&
			r.RejectedBy == "user-1" &&
			r.RejectionReason == "numbers look off" &&
			r.RejectedAt != nil
	})).Return(nil).Once()

	result, err := suite.service.RejectRecords(ctx, []string{"rec-1"}, "numbers look off", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.Require().Len(suite.events, 1)
	suite.Equal(domain.StatusCancelled, suite.events[0].ToStatus)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestRejectRecords_EmptyReasonFailsWholeCall() {
	result, err := suite.service.RejectRecords(context.Background(), []string{"rec-1"}, "", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindRecordByID", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestRejectRecords_ApprovedRecordNotRejectable() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusApproved), nil).Once()

	result, err := suite.service.RejectRecords(ctx, []string{"rec-1"}, "too late", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.FailedCount())
	suite.Empty(suite.events)
}

// --- Cancel ---

func (suite *WorkflowServiceTestSuite) TestCancelRecords_ApprovedRecordIsCancellable() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusApproved), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.MatchedBy(func(r domain.PayrollRecord) bool {
		return r.Status == domain.StatusCancelled && r.RejectionReason == "period reopened"
	})).Return(nil).Once()

	result, err := suite.service.CancelRecords(ctx, []string{"rec-1"}, "period reopened", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestCancelRecords_TerminalRecordFails() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusPaid), nil).Once()

	result, err := suite.service.CancelRecords(ctx, []string{"rec-1"}, "mistake", "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.FailedCount())
	suite.Contains(result.Outcomes[0].Message, "paid")
}

// --- MarkPaid ---

func (suite *WorkflowServiceTestSuite) TestMarkPaid_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusApproved), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.MatchedBy(func(r domain.PayrollRecord) bool {
		return r.Status == domain.StatusPaid && r.LastUpdatedBy == "user-1"
	})).Return(nil).Once()

	result, err := suite.service.MarkPaid(ctx, []string{"rec-1"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.SucceededCount())
	suite.Require().Len(suite.events, 1)
	suite.Equal(domain.StatusPaid, suite.events[0].ToStatus)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestMarkPaid_DraftRecordFails() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusDraft), nil).Once()

	result, err := suite.service.MarkPaid(ctx, []string{"rec-1"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.FailedCount())
	suite.Empty(suite.events)
}

func (suite *WorkflowServiceTestSuite) TestMarkPaid_PersistFailureDoesNotPublish() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "rec-1").Return(suite.record("rec-1", domain.StatusApproved), nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", ctx, mock.AnythingOfType("domain.PayrollRecord")).Return(assert.AnError).Once()

	result, err := suite.service.MarkPaid(ctx, []string{"rec-1"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.FailedCount())
	suite.Empty(suite.events)
}

// --- Reads ---

func (suite *WorkflowServiceTestSuite) TestGetRecord_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	record, err := suite.service.GetRecord(ctx, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(record)
}

func (suite *WorkflowServiceTestSuite) TestListRecords_PassesStatusFilter() {
	ctx := context.Background()
	statuses := []domain.PayrollStatus{domain.StatusApproved}
	expected := []domain.PayrollRecord{*suite.record("rec-1", domain.StatusApproved)}
	suite.mockRepo.On("FindRecordsByPeriod", ctx, "period-1", statuses).Return(expected, nil).Once()

	records, err := suite.service.ListRecords(ctx, "period-1", statuses)

	suite.Require().NoError(err)
	suite.Equal(expected, records)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
