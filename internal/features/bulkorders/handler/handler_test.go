package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"
	"qc-dashboard/internal/features/bulkorders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBulkOrderService is a mock implementation of ports.BulkOrderService.
type MockBulkOrderService struct {
	mock.Mock
}

func (m *MockBulkOrderService) FetchPage(ctx context.Context, req ports.PageRequest) (*domain.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}

func (m *MockBulkOrderService) CompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error) {
	args := m.Called(ctx, orderNos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionBatch), args.Error(1)
}

func (m *MockBulkOrderService) StartFetch(ctx context.Context, req ports.StartFetchRequest) (*domain.FetchSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FetchSession), args.Error(1)
}

func (m *MockBulkOrderService) GetSession(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FetchSession), args.Error(1)
}

func (m *MockBulkOrderService) CancelFetch(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FetchSession), args.Error(1)
}

func (m *MockBulkOrderService) ImportSession(ctx context.Context, id uuid.UUID) (*domain.ImportResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func setupApp(svc *MockBulkOrderService) *fiber.App {
	app := fiber.New()
	NewFunctionsHandler(svc).Register(app)
	NewBulkOrderHandler(svc).Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

var may1 = domain.DateRange{From: "2024-05-01", To: "2024-05-01"}

func TestFunctionsHandler_SearchOrders(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	svc.On("FetchPage", mock.Anything, ports.PageRequest{Range: may1, Mode: domain.FetchModeSearch, AfterTag: "T0"}).
		Return(&domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A"}}, AfterTag: "T1"}, nil).Once()

	resp, body := doJSON(t, app, "POST", "/functions/search-orders", SearchOrdersRequest{StartDate: "2024-05-01", EndDate: "2024-05-01", AfterTag: "T0"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "T1", body["after_tag"])
	assert.Len(t, body["orders"], 1)
	assert.NotContains(t, body, "filtered")
	svc.AssertExpectations(t)
}

func TestFunctionsHandler_SearchOrdersWithCompletion(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	svc.On("FetchPage", mock.Anything, ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion}).
		Return(&domain.Page{Success: true, IsComplete: true, Orders: []domain.Order{
			{OrderNo: "A", Completion: &domain.CompletionDetails{Success: true, Data: &domain.CompletionData{Status: "on_route"}}},
			{OrderNo: "B"},
		}}, nil).Once()

	resp, body := doJSON(t, app, "POST", "/functions/search-orders-with-completion", SearchOrdersRequest{StartDate: "2024-05-01", EndDate: "2024-05-01"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isComplete"])
	assert.Len(t, body["orders"], 2)
	assert.Equal(t, []any{}, body["filtered"])
}

func TestFunctionsHandler_SearchOrdersWithCompletion_Filtered(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	done := &domain.CompletionDetails{Success: true, Data: &domain.CompletionData{Status: "success", StartTime: &start, EndTime: &end}}

	svc.On("FetchPage", mock.Anything, ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion}).
		Return(&domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A", Completion: done}, {OrderNo: "B"}}}, nil).Once()
	svc.On("FetchPage", mock.Anything, ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion, AfterTag: "T1"}).
		Return(domain.SoftFailure("ERR_LIMIT", "Too many requests"), nil).Once()

	_, body := doJSON(t, app, "POST", "/functions/search-orders-with-completion", SearchOrdersRequest{StartDate: "2024-05-01", EndDate: "2024-05-01"})
	filtered, ok := body["filtered"].([]any)
	require.True(t, ok, "filtered missing: %v", body)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].(map[string]any)["order_no"])

	_, body = doJSON(t, app, "POST", "/functions/search-orders-with-completion", SearchOrdersRequest{StartDate: "2024-05-01", EndDate: "2024-05-01", AfterTag: "T1"})
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{}, body["filtered"])
	svc.AssertExpectations(t)
}

func TestFunctionsHandler_SoftFailureIsData(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	svc.On("FetchPage", mock.Anything, mock.Anything).Return(domain.SoftFailure("ERR_AUTH", "Invalid key"), nil).Once()

	resp, body := doJSON(t, app, "POST", "/functions/search-orders", SearchOrdersRequest{StartDate: "2024-05-01", EndDate: "2024-05-01"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ERR_AUTH", body["code"])
	assert.Equal(t, "Invalid key", body["message"])
}

func TestFunctionsHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid date", fmt.Errorf("from: %w", domain.ErrInvalidDate), http.StatusBadRequest},
		{"upstream", fmt.Errorf("%w: timeout", domain.ErrUpstream), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBulkOrderService)
			app := setupApp(svc)
			svc.On("FetchPage", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			resp, body := doJSON(t, app, "POST", "/functions/search-orders", SearchOrdersRequest{StartDate: "x", EndDate: "y"})

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, body["message"])
			assert.Contains(t, body, "ray_id")
		})
	}
}

func TestFunctionsHandler_GetCompletionDetails(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	svc.On("CompletionDetails", mock.Anything, []string{"A"}).Return(&domain.CompletionBatch{
		Success: true,
		Details: map[string]domain.CompletionDetails{"A": {Success: true, Data: &domain.CompletionData{Status: "success"}}},
	}, nil).Once()

	resp, body := doJSON(t, app, "POST", "/functions/get-completion-details", CompletionDetailsRequest{OrderNos: []string{"A"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["details"], "A")

	resp, _ = doJSON(t, app, "POST", "/functions/get-completion-details", CompletionDetailsRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestBulkOrderHandler_StartFetch(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	prev := uuid.New()
	session := domain.NewFetchSession(may1, domain.FetchModeCompletion)
	svc.On("StartFetch", mock.Anything, ports.StartFetchRequest{Range: may1, Mode: domain.FetchModeCompletion, ResumeSessionID: &prev}).
		Return(session, nil).Once()

	resp, body := doJSON(t, app, "POST", "/bulk-orders/fetch", StartFetchRequest{From: "2024-05-01", To: "2024-05-01", ResumeSessionID: prev.String()})

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, session.ID.String(), body["id"])
	svc.AssertExpectations(t)
}

func TestBulkOrderHandler_StartFetch_BadResumeID(t *testing.T) {
	app := setupApp(new(MockBulkOrderService))

	resp, _ := doJSON(t, app, "POST", "/bulk-orders/fetch", StartFetchRequest{From: "2024-05-01", To: "2024-05-01", ResumeSessionID: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBulkOrderHandler_Sessions(t *testing.T) {
	svc := new(MockBulkOrderService)
	app := setupApp(svc)

	session := domain.NewFetchSession(may1, domain.FetchModeSearch)
	missing := uuid.New()
	svc.On("GetSession", mock.Anything, session.ID).Return(session, nil).Once()
	svc.On("GetSession", mock.Anything, missing).Return(nil, fmt.Errorf("service: %w", domain.ErrSessionNotFound)).Once()
	svc.On("CancelFetch", mock.Anything, session.ID).Return(nil, service.ErrSessionFinished).Once()
	svc.On("ImportSession", mock.Anything, session.ID).Return(&domain.ImportResult{SessionID: session.ID.String(), Imported: 2}, nil).Once()

	resp, body := doJSON(t, app, "GET", "/bulk-orders/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", body["state"])

	resp, _ = doJSON(t, app, "GET", "/bulk-orders/sessions/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/bulk-orders/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/bulk-orders/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/bulk-orders/sessions/"+session.ID.String()+"/import", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["imported"])
	svc.AssertExpectations(t)
}
