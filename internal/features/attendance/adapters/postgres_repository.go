package adapters

import (
	"context"
	"fmt"
	"strings"

	"qc-dashboard/internal/core/database"
	"qc-dashboard/internal/features/attendance/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `id, technician_id, work_date::text, status, notes, created_at, updated_at`

// PostgresRepository implements ports.AttendanceRepository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert writes the record keyed by technician and date. An existing record keeps its id.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *domain.Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_records (id, technician_id, work_date, status, notes)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (technician_id, work_date) DO UPDATE
		SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = now()
		RETURNING `+recordColumns,
		rec.ID, rec.TechnicianID, rec.Date, string(rec.Status), rec.Notes).
		Scan(recordDest(rec)...)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrInvalidReference
	}
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// List returns records by date, then technician.
func (r *PostgresRepository) List(ctx context.Context, f domain.Filter) ([]domain.Record, error) {
	var (
		where []string
		args  []any
	)
	if f.From != "" {
		args = append(args, f.From)
		where = append(where, fmt.Sprintf("work_date >= $%d::date", len(args)))
	}
	if f.To != "" {
		args = append(args, f.To)
		where = append(where, fmt.Sprintf("work_date <= $%d::date", len(args)))
	}
	if f.TechnicianID != nil {
		args = append(args, *f.TechnicianID)
		where = append(where, fmt.Sprintf("technician_id = $%d", len(args)))
	}

	query := `SELECT ` + recordColumns + ` FROM attendance_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY work_date, technician_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Record, error) {
		var rec domain.Record
		err := row.Scan(recordDest(&rec)...)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Delete removes a record.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func recordDest(rec *domain.Record) []any {
	return []any{&rec.ID, &rec.TechnicianID, &rec.Date, (*string)(&rec.Status), &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt}
}
