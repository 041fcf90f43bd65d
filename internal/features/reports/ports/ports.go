package ports

import (
	"context"

	"qc-dashboard/internal/features/reports/domain"
)

// ReportService defines the primary port for dashboard reports.
type ReportService interface {
	QCSummary(ctx context.Context, p domain.Period) (*domain.QCSummary, error)
	AttendanceSummary(ctx context.Context, p domain.Period) (*domain.AttendanceSummary, error)
}

// ReportRepository defines the secondary port running the aggregate queries.
type ReportRepository interface {
	QCSummary(ctx context.Context, p domain.Period) (*domain.QCSummary, error)
	AttendanceSummary(ctx context.Context, p domain.Period) ([]domain.TechnicianAttendance, error)
}
