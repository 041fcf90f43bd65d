package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a work order does not exist.
	ErrNotFound = errors.New("work order not found")
	// ErrInvalidQCStatus is returned for an unknown QC status.
	ErrInvalidQCStatus = errors.New("invalid qc status")
	// ErrInvalidReview is returned when a review is incomplete.
	ErrInvalidReview = errors.New("invalid review")
	// ErrInvalidFilter is returned when list parameters are malformed.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Event types published for work orders.
const (
	EventImported = "work_order.imported"
	EventReviewed = "work_order.reviewed"
)

// DateLayout is the format of ScheduledDate and filter dates.
const DateLayout = "2006-01-02"

// QCStatus is the quality-control review state of a work order.
type QCStatus string

const (
	QCPending     QCStatus = "pending"
	QCPassed      QCStatus = "passed"
	QCFailed      QCStatus = "failed"
	QCNeedsReview QCStatus = "needs_review"
)

// Valid reports whether s is a known status.
func (s QCStatus) Valid() bool {
	switch s {
	case QCPending, QCPassed, QCFailed, QCNeedsReview:
		return true
	}
	return false
}

// WorkOrder is an imported upstream order together with its QC review.
type WorkOrder struct {
	OrderNo          string     `json:"order_no"`
	ScheduledDate    string     `json:"scheduled_date,omitempty"`
	Address          string     `json:"address"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	DriverSerial     string     `json:"driver_serial"`
	DriverName       string     `json:"driver_name"`
	CompletionStatus string     `json:"completion_status"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	TrackingURL      string     `json:"tracking_url,omitempty"`
	QCStatus         QCStatus   `json:"qc_status"`
	QCNotes          string     `json:"qc_notes"`
	ReviewedBy       string     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ImportedAt       time.Time  `json:"imported_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ReviewInput is a QC decision on a work order.
type ReviewInput struct {
	Status     QCStatus `json:"status"`
	Notes      string   `json:"notes"`
	ReviewedBy string   `json:"reviewed_by"`
}

// Validate checks the status and the reviewer.
func (r ReviewInput) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidQCStatus, r.Status)
	}
	if strings.TrimSpace(r.ReviewedBy) == "" {
		return fmt.Errorf("%w: reviewed_by is required", ErrInvalidReview)
	}
	return nil
}

// Default and maximum page sizes for List.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListFilter narrows a work order listing. Empty fields do not filter.
type ListFilter struct {
	From         string
	To           string
	QCStatus     QCStatus
	DriverSerial string
	Limit        int
	Offset       int
}

// Normalize validates the filter and applies paging defaults.
func (f ListFilter) Normalize() (ListFilter, error) {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return f, fmt.Errorf("%w: date %q", ErrInvalidFilter, d)
		}
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return f, fmt.Errorf("%w: from is after to", ErrInvalidFilter)
	}
	if f.QCStatus != "" && !f.QCStatus.Valid() {
		return f, fmt.Errorf("%w: %q", ErrInvalidQCStatus, f.QCStatus)
	}
	if f.Offset < 0 {
		return f, fmt.Errorf("%w: negative offset", ErrInvalidFilter)
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return f, nil
}

// ListResult is one page of work orders and the total matching the filter.
type ListResult struct {
	Items  []WorkOrder `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
