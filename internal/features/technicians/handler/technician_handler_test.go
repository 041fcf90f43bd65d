package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"qc-dashboard/internal/features/technicians/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTechnicianService is a mock implementation of ports.TechnicianService.
type MockTechnicianService struct {
	mock.Mock
}

func (m *MockTechnicianService) CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockTechnicianService) UpdateGroup(ctx context.Context, id uuid.UUID, in domain.GroupInput) (*domain.Group, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockTechnicianService) GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockTechnicianService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockTechnicianService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTechnicianService) CreateTechnician(ctx context.Context, in domain.TechnicianInput) (*domain.Technician, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianService) UpdateTechnician(ctx context.Context, id uuid.UUID, in domain.TechnicianInput) (*domain.Technician, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianService) GetTechnician(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Technician), args.Error(1)
}

func (m *MockTechnicianService) ListTechnicians(ctx context.Context, filter domain.TechnicianFilter) ([]domain.Technician, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Technician), args.Error(1)
}

func (m *MockTechnicianService) DeleteTechnician(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func setupApp(svc *MockTechnicianService) *fiber.App {
	app := fiber.New()
	NewTechnicianHandler(svc).Register(app)
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestTechnicianHandler_Groups(t *testing.T) {
	svc := new(MockTechnicianService)
	app := setupApp(svc)
	id := uuid.New()

	svc.On("CreateGroup", mock.Anything, domain.GroupInput{Name: "North"}).Return(&domain.Group{ID: id, Name: "North"}, nil).Once()
	svc.On("CreateGroup", mock.Anything, domain.GroupInput{Name: "Dup"}).Return(nil, fmt.Errorf("service: %w", domain.ErrConflict)).Once()
	svc.On("ListGroups", mock.Anything).Return([]domain.Group{{ID: id, Name: "North"}}, nil).Once()
	svc.On("DeleteGroup", mock.Anything, id).Return(domain.ErrGroupInUse).Once()

	assert.Equal(t, http.StatusCreated, send(t, app, "POST", "/groups", domain.GroupInput{Name: "North"}).StatusCode)
	assert.Equal(t, http.StatusConflict, send(t, app, "POST", "/groups", domain.GroupInput{Name: "Dup"}).StatusCode)
	assert.Equal(t, http.StatusOK, send(t, app, "GET", "/groups", nil).StatusCode)
	assert.Equal(t, http.StatusConflict, send(t, app, "DELETE", "/groups/"+id.String(), nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(t, app, "GET", "/groups/abc", nil).StatusCode)
	svc.AssertExpectations(t)
}

func TestTechnicianHandler_ListTechnicians(t *testing.T) {
	svc := new(MockTechnicianService)
	app := setupApp(svc)
	gid := uuid.New()
	active := true

	svc.On("ListTechnicians", mock.Anything, domain.TechnicianFilter{GroupID: &gid, Active: &active}).
		Return([]domain.Technician{{ID: uuid.New(), Name: "Sam", GroupID: &gid, Active: true}}, nil).Once()

	resp := send(t, app, "GET", "/technicians?group_id="+gid.String()+"&active=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []domain.Technician
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Sam", body[0].Name)

	assert.Equal(t, http.StatusBadRequest, send(t, app, "GET", "/technicians?active=maybe", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(t, app, "GET", "/technicians?group_id=x", nil).StatusCode)
	svc.AssertExpectations(t)
}

func TestTechnicianHandler_CreateUpdateDelete(t *testing.T) {
	svc := new(MockTechnicianService)
	app := setupApp(svc)
	id := uuid.New()

	in := domain.TechnicianInput{Name: "Sam", DriverSerial: "D7"}
	svc.On("CreateTechnician", mock.Anything, in).Return(&domain.Technician{ID: id, Name: "Sam", Active: true}, nil).Once()
	svc.On("CreateTechnician", mock.Anything, domain.TechnicianInput{}).Return(nil, domain.ErrInvalidInput).Once()
	svc.On("UpdateTechnician", mock.Anything, id, in).Return(nil, domain.ErrNotFound).Once()
	svc.On("DeleteTechnician", mock.Anything, id).Return(nil).Once()

	assert.Equal(t, http.StatusCreated, send(t, app, "POST", "/technicians", in).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(t, app, "POST", "/technicians", domain.TechnicianInput{}).StatusCode)
	assert.Equal(t, http.StatusNotFound, send(t, app, "PUT", "/technicians/"+id.String(), in).StatusCode)
	assert.Equal(t, http.StatusNoContent, send(t, app, "DELETE", "/technicians/"+id.String(), nil).StatusCode)
	svc.AssertExpectations(t)
}
