package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/core/services"
	"github.com/salarysys/payroll-backend/internal/dto"
)

// --- Mock ContributionBaseRepository (no atomic replace) ---
type MockContributionBaseRepository struct {
	mock.Mock
}

func (m *MockContributionBaseRepository) FindOpenBases(ctx context.Context, pairs []domain.BasePair) (map[domain.BasePair]domain.ContributionBaseRecord, error) {
	args := m.Called(ctx, pairs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.BasePair]domain.ContributionBaseRecord), args.Error(1)
}

func (m *MockContributionBaseRepository) FindOpenBasesForEmployees(ctx context.Context, employeeIDs []string) ([]domain.ContributionBaseRecord, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContributionBaseRecord), args.Error(1)
}

func (m *MockContributionBaseRepository) FindBasesByEmployee(ctx context.Context, employeeID string) ([]domain.ContributionBaseRecord, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContributionBaseRecord), args.Error(1)
}

func (m *MockContributionBaseRepository) TerminateBases(ctx context.Context, pairs []domain.BasePair, endDate time.Time, updatedBy string, updatedAt time.Time) ([]domain.BasePair, error) {
	args := m.Called(ctx, pairs, endDate, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BasePair), args.Error(1)
}

func (m *MockContributionBaseRepository) InsertBases(ctx context.Context, records []domain.ContributionBaseRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockContributionBaseRepository) ReopenBases(ctx context.Context, pairs []domain.BasePair, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, pairs, updatedBy, updatedAt)
	return args.Error(0)
}

// MockAtomicBaseRepository additionally supports atomic replacement.
type MockAtomicBaseRepository struct {
	MockContributionBaseRepository
}

func (m *MockAtomicBaseRepository) ReplaceBasesAtomic(ctx context.Context, pairs []domain.BasePair, endDate time.Time, records []domain.ContributionBaseRecord) error {
	args := m.Called(ctx, pairs, endDate, records)
	return args.Error(0)
}

// --- Test Suite ---
type ContributionBaseServiceTestSuite struct {
	suite.Suite
	mockBaseRepo   *MockContributionBaseRepository
	mockPeriodRepo *MockPayrollRepository
	now            time.Time
	ceiling        decimal.Decimal
}

func (suite *ContributionBaseServiceTestSuite) SetupTest() {
	suite.mockBaseRepo = new(MockContributionBaseRepository)
	suite.mockPeriodRepo = new(MockPayrollRepository)
	suite.now = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	suite.ceiling = decimal.NewFromInt(50000)
}

func (suite *ContributionBaseServiceTestSuite) newService(baseRepo portsrepo.ContributionBaseRepositoryFacade) portssvc.ContributionBaseSvcFacade {
	return services.NewContributionBaseService(baseRepo, suite.mockPeriodRepo, suite.ceiling,
		services.WithBaseClock(func() time.Time { return suite.now }))
}

func pair(employeeID, insuranceTypeID string) domain.BasePair {
	return domain.BasePair{EmployeeID: employeeID, InsuranceTypeID: insuranceTypeID}
}

func openBase(employeeID, insuranceTypeID string, amount int64) domain.ContributionBaseRecord {
	return domain.ContributionBaseRecord{
		BaseID:           "base-" + employeeID + "-" + insuranceTypeID,
		EmployeeID:       employeeID,
		InsuranceTypeID:  insuranceTypeID,
		ContributionBase: decimal.NewFromInt(amount),
		EffectiveStart:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- CarryForward ---

func (suite *ContributionBaseServiceTestSuite) TestCarryForward_ReportsCoverage() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	req := dto.CarryForwardRequest{SourcePeriodID: "period-1", EmployeeIDs: []string{"emp-1", "emp-2", "emp-3"}}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, "period-1").Return(&domain.PayrollPeriod{PeriodID: "period-1"}, nil).Once()
	suite.mockBaseRepo.On("FindOpenBasesForEmployees", ctx, req.EmployeeIDs).Return([]domain.ContributionBaseRecord{
		openBase("emp-1", "social", 10000),
		openBase("emp-1", "health", 10000),
		openBase("emp-3", "social", 8000),
	}, nil).Once()

	summary, err := service.CarryForward(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(3, summary.EmployeesChecked)
	suite.Equal(2, summary.EmployeesWithBases)
	suite.Equal([]string{"emp-2"}, summary.MissingEmployeeIDs)
	suite.mockBaseRepo.AssertExpectations(suite.T())
}

func (suite *ContributionBaseServiceTestSuite) TestCarryForward_UnknownSourcePeriod() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, "period-9").Return(nil, apperrors.ErrNotFound).Once()

	summary, err := service.CarryForward(ctx, dto.CarryForwardRequest{SourcePeriodID: "period-9", EmployeeIDs: []string{"emp-1"}})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(summary)
}

// --- ApplyNewBases validation ---

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_MixedEffectiveDatesFailWholeCall() {
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9000), EffectiveDate: "2026-09-01"},
		{EmployeeID: "emp-2", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9000), EffectiveDate: "2026-10-01"},
	}}

	result, err := service.ApplyNewBases(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "same effective date")
	suite.Nil(result)
	suite.mockBaseRepo.AssertNotCalled(suite.T(), "FindOpenBases", mock.Anything, mock.Anything)
}

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_MalformedDateFailsWholeCall() {
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9000), EffectiveDate: "01/09/2026"},
	}}

	_, err := service.ApplyNewBases(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_AmountViolationsRejectEntriesOnly() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(-10), EffectiveDate: "2026-09-01"},
		{EmployeeID: "emp-2", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(90000), EffectiveDate: "2026-09-01"},
	}}

	result, err := service.ApplyNewBases(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(result.RejectedEntries, 2)
	suite.Contains(result.RejectedEntries[0].Message, "negative")
	suite.Contains(result.RejectedEntries[1].Message, "ceiling")
	suite.Equal(0, result.TerminatedCount)
	suite.Equal(0, result.InsertedCount)
	// Nothing valid remained, so the store is never touched.
	suite.mockBaseRepo.AssertNotCalled(suite.T(), "FindOpenBases", mock.Anything, mock.Anything)
}

// --- ApplyNewBases non-atomic path ---

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_TerminatesThenInserts() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9500), EffectiveDate: "2026-09-01"},
		{EmployeeID: "emp-2", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(8800), EffectiveDate: "2026-09-01"},
	}}
	endDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	affected := []domain.BasePair{pair("emp-1", "social")}

	suite.mockBaseRepo.On("FindOpenBases", ctx, mock.AnythingOfType("[]domain.BasePair")).Return(map[domain.BasePair]domain.ContributionBaseRecord{
		// Only emp-1 has an open record to terminate.
		pair("emp-1", "social"): openBase("emp-1", "social", 9000),
	}, nil).Once()
	suite.mockBaseRepo.On("TerminateBases", ctx, affected, endDate, "user-1", suite.now).Return(affected, nil).Once()
	suite.mockBaseRepo.On("InsertBases", ctx, mock.MatchedBy(func(records []domain.ContributionBaseRecord) bool {
		if len(records) != 2 {
			return false
		}
		first := records[0]
		return first.BaseID != "" &&
			first.EffectiveStart.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) &&
			first.EffectiveEnd == nil &&
			first.CreatedBy == "user-1"
	})).Return(nil).Once()

	result, err := service.ApplyNewBases(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.TerminatedCount)
	suite.Equal(2, result.InsertedCount)
	suite.Empty(result.RejectedEntries)
	suite.mockBaseRepo.AssertExpectations(suite.T())
}

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_InsertFailureIsCompensated() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9500), EffectiveDate: "2026-09-01"},
	}}
	affected := []domain.BasePair{pair("emp-1", "social")}

	suite.mockBaseRepo.On("FindOpenBases", ctx, mock.AnythingOfType("[]domain.BasePair")).Return(map[domain.BasePair]domain.ContributionBaseRecord{
		pair("emp-1", "social"): openBase("emp-1", "social", 9000),
	}, nil).Once()
	suite.mockBaseRepo.On("TerminateBases", ctx, affected, mock.AnythingOfType("time.Time"), "user-1", suite.now).Return(affected, nil).Once()
	suite.mockBaseRepo.On("InsertBases", ctx, mock.AnythingOfType("[]domain.ContributionBaseRecord")).Return(assert.AnError).Once()
	suite.mockBaseRepo.On("ReopenBases", ctx, affected, "user-1", suite.now).Return(nil).Once()

	result, err := service.ApplyNewBases(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorContains(err, "terminations reversed")
	suite.Nil(result)

	var inconsistency *services.BaseInconsistencyError
	suite.False(errors.As(err, &inconsistency))
	suite.mockBaseRepo.AssertExpectations(suite.T())
}

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_FailedCompensationReportsPairs() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9500), EffectiveDate: "2026-09-01"},
	}}
	affected := []domain.BasePair{pair("emp-1", "social")}

	suite.mockBaseRepo.On("FindOpenBases", ctx, mock.AnythingOfType("[]domain.BasePair")).Return(map[domain.BasePair]domain.ContributionBaseRecord{
		pair("emp-1", "social"): openBase("emp-1", "social", 9000),
	}, nil).Once()
	suite.mockBaseRepo.On("TerminateBases", ctx, affected, mock.AnythingOfType("time.Time"), "user-1", suite.now).Return(affected, nil).Once()
	suite.mockBaseRepo.On("InsertBases", ctx, mock.AnythingOfType("[]domain.ContributionBaseRecord")).Return(assert.AnError).Once()
	suite.mockBaseRepo.On("ReopenBases", ctx, affected, "user-1", suite.now).Return(errors.New("connection lost")).Once()

	_, err := service.ApplyNewBases(ctx, req, "user-1")

	suite.Require().Error(err)
	var inconsistency *services.BaseInconsistencyError
	suite.Require().ErrorAs(err, &inconsistency)
	suite.Equal(affected, inconsistency.Pairs)
	suite.ErrorIs(err, assert.AnError)
}

// --- ApplyNewBases atomic path ---

func (suite *ContributionBaseServiceTestSuite) TestApplyNewBases_PrefersAtomicReplace() {
	ctx := context.Background()
	atomicRepo := new(MockAtomicBaseRepository)
	service := suite.newService(atomicRepo)
	req := dto.NewBaseRequest{Entries: []dto.NewBaseEntryRequest{
		{EmployeeID: "emp-1", InsuranceTypeID: "social", NewBase: decimal.NewFromInt(9500), EffectiveDate: "2026-09-01"},
	}}
	affected := []domain.BasePair{pair("emp-1", "social")}
	endDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	atomicRepo.On("FindOpenBases", ctx, mock.AnythingOfType("[]domain.BasePair")).Return(map[domain.BasePair]domain.ContributionBaseRecord{
		pair("emp-1", "social"): openBase("emp-1", "social", 9000),
	}, nil).Once()
	atomicRepo.On("ReplaceBasesAtomic", ctx, affected, endDate, mock.AnythingOfType("[]domain.ContributionBaseRecord")).Return(nil).Once()

	result, err := service.ApplyNewBases(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.TerminatedCount)
	suite.Equal(1, result.InsertedCount)
	atomicRepo.AssertNotCalled(suite.T(), "TerminateBases", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	atomicRepo.AssertExpectations(suite.T())
}

// --- ListBases ---

func (suite *ContributionBaseServiceTestSuite) TestListBases() {
	ctx := context.Background()
	service := suite.newService(suite.mockBaseRepo)
	history := []domain.ContributionBaseRecord{openBase("emp-1", "social", 9000)}

	suite.mockBaseRepo.On("FindBasesByEmployee", ctx, "emp-1").Return(history, nil).Once()

	bases, err := service.ListBases(ctx, "emp-1")

	suite.Require().NoError(err)
	suite.Equal(history, bases)
}

func TestContributionBaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContributionBaseServiceTestSuite))
}
