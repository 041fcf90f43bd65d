package adapters

import (
	"context"
	"fmt"

	"qc-dashboard/internal/features/reports/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const countColumns = `
	COUNT(*),
	COUNT(*) FILTER (WHERE qc_status = 'pending'),
	COUNT(*) FILTER (WHERE qc_status = 'passed'),
	COUNT(*) FILTER (WHERE qc_status = 'failed'),
	COUNT(*) FILTER (WHERE qc_status = 'needs_review'),
	COUNT(*) FILTER (WHERE completion_status = 'success'),
	COUNT(*) FILTER (WHERE completion_status = 'failed')`

// avgServiceMinutes averages on-site time over visits with a start before their end.
const avgServiceMinutes = `COALESCE(AVG(EXTRACT(EPOCH FROM (ended_at - started_at)) / 60)
		FILTER (WHERE ended_at >= started_at), 0)::float8`

const inPeriod = `scheduled_date BETWEEN $1::date AND $2::date`

// PostgresRepository implements ports.ReportRepository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// QCSummary runs the totals, per-driver and per-day aggregates in one round trip.
func (r *PostgresRepository) QCSummary(ctx context.Context, p domain.Period) (*domain.QCSummary, error) {
	b := &pgx.Batch{}
	b.Queue(`SELECT `+countColumns+` FROM work_orders WHERE `+inPeriod, p.From, p.To)
	b.Queue(`SELECT driver_serial, MAX(driver_name), `+avgServiceMinutes+`, `+countColumns+`
		FROM work_orders WHERE `+inPeriod+`
		GROUP BY driver_serial ORDER BY driver_serial`, p.From, p.To)
	b.Queue(`SELECT scheduled_date::text, `+countColumns+`
		FROM work_orders WHERE `+inPeriod+`
		GROUP BY scheduled_date ORDER BY scheduled_date`, p.From, p.To)

	br := r.pool.SendBatch(ctx, b)
	defer br.Close()

	summary := &domain.QCSummary{Period: p}
	if err := br.QueryRow().Scan(countDest(&summary.Totals)...); err != nil {
		return nil, fmt.Errorf("qc totals: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, fmt.Errorf("qc by driver: %w", err)
	}
	summary.ByDriver, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DriverSummary, error) {
		var d domain.DriverSummary
		err := row.Scan(append([]any{&d.DriverSerial, &d.DriverName, &d.AvgServiceMinutes}, countDest(&d.Counts)...)...)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("qc by driver: %w", err)
	}

	rows, err = br.Query()
	if err != nil {
		return nil, fmt.Errorf("qc by day: %w", err)
	}
	summary.ByDay, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DaySummary, error) {
		var d domain.DaySummary
		err := row.Scan(append([]any{&d.Date}, countDest(&d.Counts)...)...)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("qc by day: %w", err)
	}
	return summary, nil
}

// AttendanceSummary counts statuses per technician. Technicians without records are omitted.
func (r *PostgresRepository) AttendanceSummary(ctx context.Context, p domain.Period) ([]domain.TechnicianAttendance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id::text, t.name,
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'late'),
			COUNT(*) FILTER (WHERE a.status = 'leave')
		FROM attendance_records a
		JOIN technicians t ON t.id = a.technician_id
		WHERE a.work_date BETWEEN $1::date AND $2::date
		GROUP BY t.id, t.name
		ORDER BY t.name, t.id`, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TechnicianAttendance, error) {
		var t domain.TechnicianAttendance
		err := row.Scan(&t.TechnicianID, &t.Name, &t.Present, &t.Absent, &t.Late, &t.Leave)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	return out, nil
}

func countDest(c *domain.StatusCounts) []any {
	return []any{&c.Total, &c.Pending, &c.Passed, &c.Failed, &c.NeedsReview, &c.Completed, &c.FailedVisits}
}
