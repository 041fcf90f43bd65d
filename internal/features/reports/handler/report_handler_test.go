package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qc-dashboard/internal/features/reports/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportService is a mock implementation of ports.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) QCSummary(ctx context.Context, p domain.Period) (*domain.QCSummary, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QCSummary), args.Error(1)
}

func (m *MockReportService) AttendanceSummary(ctx context.Context, p domain.Period) (*domain.AttendanceSummary, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceSummary), args.Error(1)
}

func setupApp(svc *MockReportService) *fiber.App {
	app := fiber.New()
	NewReportHandler(svc).Register(app)
	return app
}

func TestReportHandler_QCSummary(t *testing.T) {
	svc := new(MockReportService)
	app := setupApp(svc)
	p := domain.Period{From: "2024-05-01", To: "2024-05-31"}

	svc.On("QCSummary", mock.Anything, p).Return(&domain.QCSummary{
		Period: p,
		Totals: domain.StatusCounts{Total: 2, Passed: 2},
	}, nil).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/qc-summary?from=2024-05-01&to=2024-05-31", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body domain.QCSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2024-05-01", body.From)
	assert.Equal(t, 2, body.Totals.Passed)
	svc.AssertExpectations(t)
}

func TestReportHandler_Errors(t *testing.T) {
	svc := new(MockReportService)
	app := setupApp(svc)

	svc.On("QCSummary", mock.Anything, domain.Period{}).Return(nil, domain.ErrInvalidRange).Once()
	resp, err := app.Test(httptest.NewRequest("GET", "/reports/qc-summary", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	svc.On("AttendanceSummary", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
	resp, err = app.Test(httptest.NewRequest("GET", "/reports/attendance?from=2024-05-01&to=2024-05-31", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
