package service

import (
	"context"
	"testing"

	"qc-dashboard/internal/features/attendance/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAttendanceRepository is a mock implementation of ports.AttendanceRepository.
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, r *domain.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockAttendanceRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockAttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestAttendanceService_Upsert(t *testing.T) {
	repo := new(MockAttendanceRepository)
	svc := NewAttendanceService(repo)
	tech := uuid.New()
	id := uuid.New()

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.Record) bool {
		return r.TechnicianID == tech && r.Date == "2024-05-01" && r.Status == domain.StatusPresent
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Record).ID = id
	}).Return(nil).Once()

	rec, err := svc.Upsert(context.Background(), domain.RecordInput{TechnicianID: tech, Date: "2024-05-01", Status: "present"})
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	repo.AssertExpectations(t)
}

func TestAttendanceService_UpsertErrors(t *testing.T) {
	repo := new(MockAttendanceRepository)
	svc := NewAttendanceService(repo)

	_, err := svc.Upsert(context.Background(), domain.RecordInput{Date: "2024-05-01", Status: "present"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(domain.ErrInvalidReference).Once()
	_, err = svc.Upsert(context.Background(), domain.RecordInput{TechnicianID: uuid.New(), Date: "2024-05-01", Status: "absent"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestAttendanceService_List(t *testing.T) {
	repo := new(MockAttendanceRepository)
	svc := NewAttendanceService(repo)

	_, err := svc.List(context.Background(), domain.Filter{From: "2024-06-01", To: "2024-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	filter := domain.Filter{From: "2024-05-01"}
	repo.On("List", mock.Anything, filter).Return(nil, nil).Once()
	records, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAttendanceService_Delete(t *testing.T) {
	repo := new(MockAttendanceRepository)
	svc := NewAttendanceService(repo)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(domain.ErrNotFound).Once()
	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrNotFound)
}
