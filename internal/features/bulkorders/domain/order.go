package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrUpstream marks transport, status and decoding failures of the upstream API.
var ErrUpstream = errors.New("upstream request failed")

// FetchMode selects how a page of orders is fetched and filtered.
type FetchMode string

const (
	// FetchModeSearch returns every order the upstream search yields.
	FetchModeSearch FetchMode = "search"
	// FetchModeCompletion enriches orders with completion details and keeps only finished visits.
	FetchModeCompletion FetchMode = "completion"
)

// Valid reports whether m is a known mode.
func (m FetchMode) Valid() bool {
	return m == FetchModeSearch || m == FetchModeCompletion
}

// Completion statuses accepted by the completion filter.
const (
	CompletionStatusSuccess = "success"
	CompletionStatusFailed  = "failed"
)

// Order is the normalized work order as seen by the dashboard.
// Upstream shape differences are resolved once, by the OptimoRoute adapter.
type Order struct {
	// OrderNo is the business key, unique within a fetch session.
	OrderNo string `json:"order_no"`
	// ID is the upstream identifier, when provided.
	ID string `json:"id,omitempty"`
	// Date is the scheduled date (YYYY-MM-DD).
	Date string `json:"date,omitempty"`
	// Type is the upstream order type (D delivery, P pickup, T task).
	Type string `json:"type,omitempty"`
	// Duration is the planned service time in minutes.
	Duration int `json:"duration,omitempty"`
	// Notes are free-form dispatcher notes.
	Notes string `json:"notes,omitempty"`
	// Location is where the visit takes place.
	Location *Location `json:"location,omitempty"`
	// Schedule holds the assigned driver and stop, once planned.
	Schedule *Schedule `json:"schedule,omitempty"`
	// Completion holds what actually happened on site.
	Completion *CompletionDetails `json:"completionDetails,omitempty"`
}

// Location is the visit address.
type Location struct {
	Address   string   `json:"address,omitempty"`
	Name      string   `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Schedule is the planning information for an order.
type Schedule struct {
	DriverSerial string `json:"driver_serial,omitempty"`
	DriverName   string `json:"driver_name,omitempty"`
	VehicleLabel string `json:"vehicle_label,omitempty"`
	StopNumber   int    `json:"stop_number,omitempty"`
	ScheduledAt  string `json:"scheduled_at,omitempty"`
}

// CompletionDetails is the per-order result of the completion details call.
type CompletionDetails struct {
	Success bool            `json:"success"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    *CompletionData `json:"data,omitempty"`
}

// CompletionData describes the visit outcome.
type CompletionData struct {
	Status      string     `json:"status"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	TrackingURL string     `json:"tracking_url,omitempty"`
}

// Terminal reports whether the visit reached a final status.
func (d *CompletionDetails) Terminal() bool {
	return d != nil && d.Success && d.Data != nil &&
		(d.Data.Status == CompletionStatusSuccess || d.Data.Status == CompletionStatusFailed)
}

// Page is one upstream result page.
type Page struct {
	// Success is false when the upstream reported a soft failure.
	Success bool `json:"success"`
	// Code and Message describe a soft failure.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	// Orders are the orders on this page, normalized.
	Orders []Order `json:"orders"`
	// AfterTag is the continuation token; empty means no more pages.
	AfterTag string `json:"after_tag,omitempty"`
	// IsComplete explicitly marks the last page.
	IsComplete bool `json:"isComplete,omitempty"`
	// Raw is the upstream search body, kept for display.
	Raw json.RawMessage `json:"-"`
}

// SoftFailure builds a page describing an upstream success:false answer.
func SoftFailure(code, message string) *Page {
	return &Page{Success: false, Code: code, Message: message}
}
