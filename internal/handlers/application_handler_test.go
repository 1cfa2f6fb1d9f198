package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/lifecycle"
	"github.com/visaflow/backend/internal/workflow"
)

// MockLifecycleService is a mock implementation of LifecycleService
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) Submit(ctx context.Context, applicationID, actorID uuid.UUID) (*models.VisaApplication, error) {
	args := m.Called(ctx, applicationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VisaApplication), args.Error(1)
}

func (m *MockLifecycleService) UpdateStatus(ctx context.Context, applicationID, actorID uuid.UUID, target models.ApplicationStatus, comments string) (*models.VisaApplication, error) {
	args := m.Called(ctx, applicationID, actorID, target, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VisaApplication), args.Error(1)
}

func (m *MockLifecycleService) Assign(ctx context.Context, applicationID, employeeID, actorID uuid.UUID) (*models.VisaApplication, error) {
	args := m.Called(ctx, applicationID, employeeID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VisaApplication), args.Error(1)
}

func setupRouter(svc LifecycleService, userID uuid.UUID, userType models.UserType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_type", userType)
	})

	h := NewApplicationHandler(nil, svc)
	router.POST("/api/applications/:id/submit", h.Submit)
	router.POST("/api/applications/:id/status", h.UpdateStatus)
	router.POST("/api/applications/:id/assign", h.Assign)
	return router
}

func TestSubmitEndpointOK(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()

	app := &models.VisaApplication{Status: models.StatusSubmitted, CustomerID: userID}
	app.ID = appID

	svc := new(MockLifecycleService)
	svc.On("Submit", mock.Anything, appID, userID).Return(app, nil)

	router := setupRouter(svc, userID, models.UserTypeCustomer)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/submit", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSubmitEndpointInvalidTransitionIsConflict(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()

	svc := new(MockLifecycleService)
	svc.On("Submit", mock.Anything, appID, userID).
		Return(nil, &workflow.InvalidTransitionError{From: models.StatusSubmitted, Action: workflow.ActionSubmit})

	router := setupRouter(svc, userID, models.UserTypeCustomer)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/submit", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitEndpointForbidden(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()

	svc := new(MockLifecycleService)
	svc.On("Submit", mock.Anything, appID, userID).Return(nil, lifecycle.ErrForbidden)

	router := setupRouter(svc, userID, models.UserTypeCustomer)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/submit", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	adminID := uuid.New()
	appID := uuid.New()

	app := &models.VisaApplication{Status: models.StatusApproved}
	app.ID = appID

	svc := new(MockLifecycleService)
	svc.On("UpdateStatus", mock.Anything, appID, adminID, models.StatusApproved, "looks good").Return(app, nil)

	router := setupRouter(svc, adminID, models.UserTypeAdmin)
	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusApproved, Comments: "looks good"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Application models.VisaApplication `json:"application"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Application.Status)
}

func TestUpdateStatusEndpointNotFound(t *testing.T) {
	adminID := uuid.New()
	appID := uuid.New()

	svc := new(MockLifecycleService)
	svc.On("UpdateStatus", mock.Anything, appID, adminID, models.StatusRejected, "").Return(nil, lifecycle.ErrNotFound)

	router := setupRouter(svc, adminID, models.UserTypeAdmin)
	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusRejected})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignEndpointBadAssignee(t *testing.T) {
	adminID := uuid.New()
	appID := uuid.New()
	employeeID := uuid.New()

	svc := new(MockLifecycleService)
	svc.On("Assign", mock.Anything, appID, employeeID, adminID).Return(nil, lifecycle.ErrBadAssignee)

	router := setupRouter(svc, adminID, models.UserTypeAdmin)
	body, _ := json.Marshal(AssignRequest{EmployeeID: employeeID})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/"+appID.String()+"/assign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidIDParamIsBadRequest(t *testing.T) {
	svc := new(MockLifecycleService)
	router := setupRouter(svc, uuid.New(), models.UserTypeCustomer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/applications/not-a-uuid/submit", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}
