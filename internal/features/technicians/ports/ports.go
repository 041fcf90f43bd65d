package ports

import (
	"context"

	"qc-dashboard/internal/features/technicians/domain"

	"github.com/google/uuid"
)

// TechnicianService defines the primary port for groups and technicians.
type TechnicianService interface {
	CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id uuid.UUID, in domain.GroupInput) (*domain.Group, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	CreateTechnician(ctx context.Context, in domain.TechnicianInput) (*domain.Technician, error)
	UpdateTechnician(ctx context.Context, id uuid.UUID, in domain.TechnicianInput) (*domain.Technician, error)
	GetTechnician(ctx context.Context, id uuid.UUID) (*domain.Technician, error)
	ListTechnicians(ctx context.Context, filter domain.TechnicianFilter) ([]domain.Technician, error)
	DeleteTechnician(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines the secondary port for group storage.
type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) error
	Update(ctx context.Context, g *domain.Group) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TechnicianRepository defines the secondary port for technician storage.
type TechnicianRepository interface {
	Create(ctx context.Context, t *domain.Technician) error
	Update(ctx context.Context, t *domain.Technician) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Technician, error)
	List(ctx context.Context, filter domain.TechnicianFilter) ([]domain.Technician, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
