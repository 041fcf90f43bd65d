package service

import (
	"context"
	"fmt"

	"qc-dashboard/internal/features/technicians/domain"
	"qc-dashboard/internal/features/technicians/ports"

	"github.com/google/uuid"
)

// TechnicianService implements ports.TechnicianService.
type TechnicianService struct {
	groups      ports.GroupRepository
	technicians ports.TechnicianRepository
}

var _ ports.TechnicianService = (*TechnicianService)(nil)

// NewTechnicianService creates a new TechnicianService.
func NewTechnicianService(groups ports.GroupRepository, technicians ports.TechnicianRepository) *TechnicianService {
	return &TechnicianService{
		groups:      groups,
		technicians: technicians,
	}
}

// CreateGroup validates and stores a new group.
func (s *TechnicianService) CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	g := &domain.Group{ID: uuid.New(), Name: in.Name, Description: in.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("service: failed to create group: %w", err)
	}
	return g, nil
}

// UpdateGroup replaces a group's name and description.
func (s *TechnicianService) UpdateGroup(ctx context.Context, id uuid.UUID, in domain.GroupInput) (*domain.Group, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	g := &domain.Group{ID: id, Name: in.Name, Description: in.Description}
	if err := s.groups.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("service: failed to update group: %w", err)
	}
	return g, nil
}

// GetGroup returns one group.
func (s *TechnicianService) GetGroup(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	g, err := s.groups.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get group: %w", err)
	}
	return g, nil
}

// ListGroups returns all groups.
func (s *TechnicianService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes an empty group.
func (s *TechnicianService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete group: %w", err)
	}
	return nil
}

// CreateTechnician validates and stores a new technician.
func (s *TechnicianService) CreateTechnician(ctx context.Context, in domain.TechnicianInput) (*domain.Technician, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	t := &domain.Technician{ID: uuid.New()}
	in.Apply(t)
	if err := s.technicians.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("service: failed to create technician: %w", err)
	}
	return t, nil
}

// UpdateTechnician replaces a technician's editable fields.
func (s *TechnicianService) UpdateTechnician(ctx context.Context, id uuid.UUID, in domain.TechnicianInput) (*domain.Technician, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	t := &domain.Technician{ID: id}
	in.Apply(t)
	if err := s.technicians.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("service: failed to update technician: %w", err)
	}
	return t, nil
}

// GetTechnician returns one technician.
func (s *TechnicianService) GetTechnician(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	t, err := s.technicians.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get technician: %w", err)
	}
	return t, nil
}

// ListTechnicians returns technicians matching the filter.
func (s *TechnicianService) ListTechnicians(ctx context.Context, filter domain.TechnicianFilter) ([]domain.Technician, error) {
	techs, err := s.technicians.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list technicians: %w", err)
	}
	if techs == nil {
		techs = []domain.Technician{}
	}
	return techs, nil
}

// DeleteTechnician removes a technician.
func (s *TechnicianService) DeleteTechnician(ctx context.Context, id uuid.UUID) error {
	if err := s.technicians.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete technician: %w", err)
	}
	return nil
}
