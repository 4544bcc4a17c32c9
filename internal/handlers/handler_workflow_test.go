package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
	"github.com/salarysys/payroll-backend/internal/handlers"
	"github.com/salarysys/payroll-backend/internal/platform/config"
)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) GetRecord(ctx context.Context, recordID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func (m *MockWorkflowService) ListRecords(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error) {
	args := m.Called(ctx, periodID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRecord), args.Error(1)
}

func (m *MockWorkflowService) ApproveRecords(ctx context.Context, recordIDs []string, comment string, actor string) (*domain.BatchOperationResult, error) {
	args := m.Called(ctx, recordIDs, comment, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOperationResult), args.Error(1)
}

func (m *MockWorkflowService) RejectRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error) {
	args := m.Called(ctx, recordIDs, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOperationResult), args.Error(1)
}

func (m *MockWorkflowService) CancelRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error) {
	args := m.Called(ctx, recordIDs, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOperationResult), args.Error(1)
}

func (m *MockWorkflowService) MarkPaid(ctx context.Context, recordIDs []string, actor string) (*domain.BatchOperationResult, error) {
	args := m.Called(ctx, recordIDs, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOperationResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

// --- Test Suite ---
type WorkflowHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockWorkflowService *MockWorkflowService
	jwtSecret           string
}

func (suite *WorkflowHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "payroll-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *WorkflowHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockWorkflowService = new(MockWorkflowService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Workflow: suite.mockWorkflowService,
	})
}

func (suite *WorkflowHandlerTestSuite) performRequest(method, path string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *WorkflowHandlerTestSuite) TestGetRecord_Success() {
	record := &domain.PayrollRecord{RecordID: "rec-1", EmployeeID: "emp-1", Status: domain.StatusApproved}
	suite.mockWorkflowService.On("GetRecord", mock.Anything, "rec-1").Return(record, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/payroll-records/rec-1", nil, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	var got domain.PayrollRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("rec-1", got.RecordID)
	suite.mockWorkflowService.AssertExpectations(suite.T())
}

func (suite *WorkflowHandlerTestSuite) TestGetRecord_NotFound() {
	suite.mockWorkflowService.On("GetRecord", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/payroll-records/missing", nil, "user-1")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *WorkflowHandlerTestSuite) TestGetRecord_Unauthorized() {
	w := suite.performRequest(http.MethodGet, "/api/v1/payroll-records/rec-1", nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockWorkflowService.AssertNotCalled(suite.T(), "GetRecord", mock.Anything, mock.Anything)
}

func (suite *WorkflowHandlerTestSuite) TestApproveRecords_Success() {
	result := &domain.BatchOperationResult{Outcomes: []domain.EntityOutcome{
		{EntityID: "rec-1", Success: true, Message: "approved"},
	}}
	suite.mockWorkflowService.On("ApproveRecords", mock.Anything, []string{"rec-1"}, "ok", "user-1").Return(result, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/payroll-records/approve",
		dto.BatchActionRequest{RecordIDs: []string{"rec-1"}, Comment: "ok"}, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BatchOperationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.SucceededCount)
	suite.mockWorkflowService.AssertExpectations(suite.T())
}

func (suite *WorkflowHandlerTestSuite) TestApproveRecords_MissingRecordIDs() {
	w := suite.performRequest(http.MethodPost, "/api/v1/payroll-records/approve", gin.H{"comment": "ok"}, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWorkflowService.AssertNotCalled(suite.T(), "ApproveRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowHandlerTestSuite) TestRejectRecords_MissingReasonFailsBinding() {
	w := suite.performRequest(http.MethodPost, "/api/v1/payroll-records/reject",
		gin.H{"recordIds": []string{"rec-1"}}, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWorkflowService.AssertNotCalled(suite.T(), "RejectRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowHandlerTestSuite) TestRejectRecords_Success() {
	result := &domain.BatchOperationResult{Outcomes: []domain.EntityOutcome{
		{EntityID: "rec-1", Success: true, Message: "cancelled"},
	}}
	suite.mockWorkflowService.On("RejectRecords", mock.Anything, []string{"rec-1"}, "bad numbers", "user-1").Return(result, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/payroll-records/reject",
		dto.BatchRejectRequest{RecordIDs: []string{"rec-1"}, Reason: "bad numbers"}, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWorkflowService.AssertExpectations(suite.T())
}

func (suite *WorkflowHandlerTestSuite) TestMarkPaid_ValidationErrorMapsToBadRequest() {
	suite.mockWorkflowService.On("MarkPaid", mock.Anything, []string{"rec-1"}, "user-1").
		Return(nil, fmt.Errorf("%w: no record IDs", apperrors.ErrValidation)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/payroll-records/mark-paid",
		dto.BatchActionRequest{RecordIDs: []string{"rec-1"}}, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WorkflowHandlerTestSuite) TestListRecords_StatusFilter() {
	records := []domain.PayrollRecord{{RecordID: "rec-1", Status: domain.StatusApproved}}
	suite.mockWorkflowService.On("ListRecords", mock.Anything, "period-1", []domain.PayrollStatus{domain.StatusApproved}).Return(records, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/periods/period-1/payroll-records?status=approved", nil, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWorkflowService.AssertExpectations(suite.T())
}

func (suite *WorkflowHandlerTestSuite) TestListRecords_InvalidStatusFilter() {
	w := suite.performRequest(http.MethodGet, "/api/v1/periods/period-1/payroll-records?status=pending", nil, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWorkflowService.AssertNotCalled(suite.T(), "ListRecords", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowHandlerTestSuite))
}
