package ports

import (
	"context"

	"qc-dashboard/internal/features/attendance/domain"

	"github.com/google/uuid"
)

// AttendanceService defines the primary port for attendance records.
type AttendanceService interface {
	Upsert(ctx context.Context, in domain.RecordInput) (*domain.Record, error)
	List(ctx context.Context, filter domain.Filter) ([]domain.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttendanceRepository defines the secondary port for attendance storage.
type AttendanceRepository interface {
	// Upsert inserts r or replaces the record for the same technician and date.
	// r.ID and the timestamps are set to the stored values.
	Upsert(ctx context.Context, r *domain.Record) error
	List(ctx context.Context, filter domain.Filter) ([]domain.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
