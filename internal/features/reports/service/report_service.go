package service

import (
	"context"
	"fmt"

	"qc-dashboard/internal/features/reports/domain"
	"qc-dashboard/internal/features/reports/ports"
)

// ReportService implements ports.ReportService.
type ReportService struct {
	repo ports.ReportRepository
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new ReportService.
func NewReportService(repo ports.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// QCSummary aggregates work orders scheduled within p.
func (s *ReportService) QCSummary(ctx context.Context, p domain.Period) (*domain.QCSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	summary, err := s.repo.QCSummary(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("service: failed to build qc summary: %w", err)
	}
	summary.PassRate = summary.Totals.PassRate()
	for i := range summary.ByDriver {
		summary.ByDriver[i].PassRate = summary.ByDriver[i].Counts.PassRate()
	}
	if summary.ByDriver == nil {
		summary.ByDriver = []domain.DriverSummary{}
	}
	if summary.ByDay == nil {
		summary.ByDay = []domain.DaySummary{}
	}
	return summary, nil
}

// AttendanceSummary aggregates attendance recorded within p.
func (s *ReportService) AttendanceSummary(ctx context.Context, p domain.Period) (*domain.AttendanceSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.AttendanceSummary(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("service: failed to build attendance summary: %w", err)
	}
	if rows == nil {
		rows = []domain.TechnicianAttendance{}
	}
	return &domain.AttendanceSummary{Period: p, ByTechnician: rows}, nil
}
