package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qc-dashboard/internal/features/workorders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workOrderColumns = `order_no, COALESCE(scheduled_date::text, ''), address, latitude, longitude,
	driver_serial, driver_name, completion_status, started_at, ended_at, tracking_url,
	qc_status, qc_notes, reviewed_by, reviewed_at, imported_at, updated_at`

// PostgresRepository implements ports.WorkOrderRepository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// UpsertMany writes all orders in one transaction. Review columns are never part of the
// update, so a re-import keeps the QC decision.
func (r *PostgresRepository) UpsertMany(ctx context.Context, orders []domain.WorkOrder) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(`
			INSERT INTO work_orders (
				order_no, scheduled_date, address, latitude, longitude, driver_serial, driver_name,
				completion_status, started_at, ended_at, tracking_url
			) VALUES (
				$1, NULLIF($2, '')::date, $3, $4, $5, $6, $7, $8, $9, $10, $11
			)
			ON CONFLICT (order_no) DO UPDATE SET
				scheduled_date = EXCLUDED.scheduled_date,
				address = EXCLUDED.address,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				driver_serial = EXCLUDED.driver_serial,
				driver_name = EXCLUDED.driver_name,
				completion_status = EXCLUDED.completion_status,
				started_at = EXCLUDED.started_at,
				ended_at = EXCLUDED.ended_at,
				tracking_url = EXCLUDED.tracking_url,
				updated_at = now()
		`, o.OrderNo, o.ScheduledDate, o.Address, o.Latitude, o.Longitude, o.DriverSerial, o.DriverName,
			o.CompletionStatus, o.StartedAt, o.EndedAt, o.TrackingURL)
	}

	results := tx.SendBatch(ctx, batch)
	for _, o := range orders {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("upsert work order %s: %w", o.OrderNo, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(orders), nil
}

// Get returns one work order.
func (r *PostgresRepository) Get(ctx context.Context, orderNo string) (*domain.WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE order_no = $1`, orderNo)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return wo, nil
}

// List returns a page of work orders and the total number of matches.
func (r *PostgresRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.WorkOrder, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != "" {
		add("scheduled_date >= $%d::date", f.From)
	}
	if f.To != "" {
		add("scheduled_date <= $%d::date", f.To)
	}
	if f.QCStatus != "" {
		add("qc_status = $%d", string(f.QCStatus))
	}
	if f.DriverSerial != "" {
		add("driver_serial = $%d", f.DriverSerial)
	}

	query := `SELECT ` + workOrderColumns + `, COUNT(*) OVER () FROM work_orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY scheduled_date DESC NULLS LAST, order_no LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	items := []domain.WorkOrder{}
	total := 0
	for rows.Next() {
		var wo domain.WorkOrder
		var status string
		if err := rows.Scan(workOrderDest(&wo, &status, &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan work order: %w", err)
		}
		wo.QCStatus = domain.QCStatus(status)
		items = append(items, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list work orders: %w", err)
	}
	return items, total, nil
}

// UpdateReview records a QC decision.
func (r *PostgresRepository) UpdateReview(ctx context.Context, orderNo string, in domain.ReviewInput, at time.Time) (*domain.WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE work_orders
		SET qc_status = $2, qc_notes = $3, reviewed_by = $4, reviewed_at = $5, updated_at = now()
		WHERE order_no = $1
		RETURNING `+workOrderColumns,
		orderNo, string(in.Status), in.Notes, in.ReviewedBy, at)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return wo, nil
}

// Delete removes a work order.
func (r *PostgresRepository) Delete(ctx context.Context, orderNo string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM work_orders WHERE order_no = $1`, orderNo)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanWorkOrder(row pgx.Row) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var status string
	if err := row.Scan(workOrderDest(&wo, &status)...); err != nil {
		return nil, err
	}
	wo.QCStatus = domain.QCStatus(status)
	return &wo, nil
}

// workOrderDest lists scan targets in workOrderColumns order, followed by extra.
func workOrderDest(wo *domain.WorkOrder, status *string, extra ...any) []any {
	dest := []any{
		&wo.OrderNo, &wo.ScheduledDate, &wo.Address, &wo.Latitude, &wo.Longitude,
		&wo.DriverSerial, &wo.DriverName, &wo.CompletionStatus, &wo.StartedAt, &wo.EndedAt, &wo.TrackingURL,
		status, &wo.QCNotes, &wo.ReviewedBy, &wo.ReviewedAt, &wo.ImportedAt, &wo.UpdatedAt,
	}
	return append(dest, extra...)
}
