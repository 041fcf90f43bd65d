package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a group or technician does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
	// ErrGroupInUse is returned when deleting a group that still has technicians.
	ErrGroupInUse = errors.New("group has technicians")
	// ErrInvalidReference is returned when a technician points to a missing group.
	ErrInvalidReference = errors.New("group does not exist")
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// Group is a team of technicians.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupInput creates or replaces a group.
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize trims the input and checks the name.
func (in GroupInput) Normalize() (GroupInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return in, nil
}

// Technician is a field worker. DriverSerial links them to upstream route assignments.
type Technician struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	DriverSerial string     `json:"driver_serial"`
	GroupID      *uuid.UUID `json:"group_id,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TechnicianInput creates or replaces a technician. Active defaults to true.
type TechnicianInput struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	DriverSerial string     `json:"driver_serial"`
	GroupID      *uuid.UUID `json:"group_id,omitempty"`
	Active       *bool      `json:"active,omitempty"`
}

// Normalize trims the input and checks the name and email.
func (in TechnicianInput) Normalize() (TechnicianInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DriverSerial = strings.TrimSpace(in.DriverSerial)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return in, fmt.Errorf("%w: email %q", ErrInvalidInput, in.Email)
		}
	}
	if in.Active == nil {
		active := true
		in.Active = &active
	}
	return in, nil
}

// Apply copies the input onto t.
func (in TechnicianInput) Apply(t *Technician) {
	t.Name = in.Name
	t.Email = in.Email
	t.Phone = in.Phone
	t.DriverSerial = in.DriverSerial
	t.GroupID = in.GroupID
	if in.Active != nil {
		t.Active = *in.Active
	}
}

// TechnicianFilter narrows a technician listing. Nil fields do not filter.
type TechnicianFilter struct {
	GroupID *uuid.UUID
	Active  *bool
}
