package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qc-dashboard/internal/core/database"
	"qc-dashboard/internal/features/technicians/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepository implements ports.GroupRepository on Postgres.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// Create inserts a group and fills CreatedAt.
func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO technician_groups (id, name, description) VALUES ($1, $2, $3)
		RETURNING created_at`, g.ID, g.Name, g.Description).Scan(&g.CreatedAt)
	return mapError("create group", err)
}

// Update replaces the name and description of a group.
func (r *GroupRepository) Update(ctx context.Context, g *domain.Group) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE technician_groups SET name = $2, description = $3 WHERE id = $1
		RETURNING created_at`, g.ID, g.Name, g.Description).Scan(&g.CreatedAt)
	return mapError("update group", err)
}

// Get returns one group.
func (r *GroupRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var g domain.Group
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, created_at FROM technician_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if err != nil {
		return nil, mapError("get group", err)
	}
	return &g, nil
}

// List returns all groups by name.
func (r *GroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at FROM technician_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Group, error) {
		var g domain.Group
		err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Delete removes a group. A group referenced by technicians cannot be deleted.
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM technician_groups WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrGroupInUse
	}
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const technicianColumns = `id, name, email, phone, COALESCE(driver_serial, ''), group_id, active, created_at, updated_at`

// TechnicianRepository implements ports.TechnicianRepository on Postgres.
type TechnicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository creates a new TechnicianRepository.
func NewTechnicianRepository(pool *pgxpool.Pool) *TechnicianRepository {
	return &TechnicianRepository{pool: pool}
}

// Create inserts a technician and fills the timestamps.
func (r *TechnicianRepository) Create(ctx context.Context, t *domain.Technician) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO technicians (id, name, email, phone, driver_serial, group_id, active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Email, t.Phone, t.DriverSerial, t.GroupID, t.Active).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapError("create technician", err)
}

// Update replaces the editable fields of a technician.
func (r *TechnicianRepository) Update(ctx context.Context, t *domain.Technician) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE technicians
		SET name = $2, email = $3, phone = $4, driver_serial = NULLIF($5, ''), group_id = $6, active = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Email, t.Phone, t.DriverSerial, t.GroupID, t.Active).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapError("update technician", err)
}

// Get returns one technician.
func (r *TechnicianRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id)
	t, err := scanTechnician(row)
	if err != nil {
		return nil, mapError("get technician", err)
	}
	return &t, nil
}

// List returns technicians by name.
func (r *TechnicianRepository) List(ctx context.Context, f domain.TechnicianFilter) ([]domain.Technician, error) {
	var (
		where []string
		args  []any
	)
	if f.GroupID != nil {
		args = append(args, *f.GroupID)
		where = append(where, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}

	query := `SELECT ` + technicianColumns + ` FROM technicians`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	techs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Technician, error) {
		return scanTechnician(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return techs, nil
}

// Delete removes a technician and, by cascade, their attendance.
func (r *TechnicianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM technicians WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTechnician(row pgx.Row) (domain.Technician, error) {
	var t domain.Technician
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.DriverSerial, &t.GroupID, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// mapError translates pgx errors into domain errors.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case database.IsUniqueViolation(err):
		return domain.ErrConflict
	case database.IsForeignKeyViolation(err):
		return domain.ErrInvalidReference
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
