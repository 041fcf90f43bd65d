package service

import (
	"context"
	"fmt"

	"qc-dashboard/internal/features/attendance/domain"
	"qc-dashboard/internal/features/attendance/ports"

	"github.com/google/uuid"
)

// AttendanceService implements ports.AttendanceService.
type AttendanceService struct {
	repo ports.AttendanceRepository
}

var _ ports.AttendanceService = (*AttendanceService)(nil)

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(repo ports.AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

// Upsert records the attendance of a technician on a day, replacing any earlier entry.
func (s *AttendanceService) Upsert(ctx context.Context, in domain.RecordInput) (*domain.Record, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{
		TechnicianID: in.TechnicianID,
		Date:         in.Date,
		Status:       in.Status,
		Notes:        in.Notes,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("service: failed to save attendance: %w", err)
	}
	return rec, nil
}

// List returns the records matching filter.
func (s *AttendanceService) List(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list attendance: %w", err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// Delete removes a record.
func (s *AttendanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete attendance: %w", err)
	}
	return nil
}
