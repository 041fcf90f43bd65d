package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an attendance record does not exist.
	ErrNotFound = errors.New("attendance record not found")
	// ErrInvalidInput is returned for a malformed record or filter.
	ErrInvalidInput = errors.New("invalid attendance input")
	// ErrInvalidReference is returned when the technician does not exist.
	ErrInvalidReference = errors.New("technician does not exist")
)

// DateLayout is the format of Record.Date and filter dates.
const DateLayout = "2006-01-02"

// Status is a technician's presence on a work day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave:
		return true
	}
	return false
}

// Record is one technician's attendance for one day. There is at most one per technician and date.
type Record struct {
	ID           uuid.UUID `json:"id"`
	TechnicianID uuid.UUID `json:"technician_id"`
	Date         string    `json:"date"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordInput writes the attendance of a technician on a date.
type RecordInput struct {
	TechnicianID uuid.UUID `json:"technician_id"`
	Date         string    `json:"date"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
}

// Validate checks the input and returns it trimmed.
func (in RecordInput) Validate() (RecordInput, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Status = Status(strings.ToLower(strings.TrimSpace(string(in.Status))))
	if in.TechnicianID == uuid.Nil {
		return in, fmt.Errorf("%w: technician_id is required", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return in, fmt.Errorf("%w: date %q", ErrInvalidInput, in.Date)
	}
	if !in.Status.Valid() {
		return in, fmt.Errorf("%w: status %q", ErrInvalidInput, in.Status)
	}
	return in, nil
}

// Filter narrows a listing. Empty fields do not filter.
type Filter struct {
	From         string
	To           string
	TechnicianID *uuid.UUID
}

// Validate checks the filter dates.
func (f Filter) Validate() error {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q", ErrInvalidInput, d)
		}
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}
	return nil
}
