package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a report period is missing or malformed.
var ErrInvalidRange = errors.New("invalid report range")

// DateLayout is the format of report dates.
const DateLayout = "2006-01-02"

// MaxRangeDays bounds a single report.
const MaxRangeDays = 366

// Period is an inclusive date range.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks that both ends are set, ordered and not too far apart.
func (p Period) Validate() error {
	from, err := time.Parse(DateLayout, p.From)
	if err != nil {
		return fmt.Errorf("%w: from %q", ErrInvalidRange, p.From)
	}
	to, err := time.Parse(DateLayout, p.To)
	if err != nil {
		return fmt.Errorf("%w: to %q", ErrInvalidRange, p.To)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: from is after to", ErrInvalidRange)
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxRangeDays)
	}
	return nil
}

// StatusCounts tallies work orders by QC review and by visit outcome.
type StatusCounts struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	NeedsReview  int `json:"needs_review"`
	Completed    int `json:"completed"`
	FailedVisits int `json:"failed_visits"`
}

// PassRate is Passed over reviewed orders, or 0 when nothing was reviewed.
func (c StatusCounts) PassRate() float64 {
	reviewed := c.Passed + c.Failed
	if reviewed == 0 {
		return 0
	}
	return float64(c.Passed) / float64(reviewed)
}

// DriverSummary is the tally of one driver.
type DriverSummary struct {
	DriverSerial string       `json:"driver_serial"`
	DriverName   string       `json:"driver_name"`
	Counts       StatusCounts `json:"counts"`
	PassRate     float64      `json:"pass_rate"`
	// AvgServiceMinutes is the mean on-site time of visits with both timestamps.
	AvgServiceMinutes float64 `json:"avg_service_minutes"`
}

// DaySummary is the tally of one scheduled date.
type DaySummary struct {
	Date   string       `json:"date"`
	Counts StatusCounts `json:"counts"`
}

// QCSummary feeds the QC dashboard charts.
type QCSummary struct {
	Period
	Totals   StatusCounts    `json:"totals"`
	PassRate float64         `json:"pass_rate"`
	ByDriver []DriverSummary `json:"by_driver"`
	ByDay    []DaySummary    `json:"by_day"`
}

// TechnicianAttendance is the attendance tally of one technician.
type TechnicianAttendance struct {
	TechnicianID string `json:"technician_id"`
	Name         string `json:"name"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
	Late         int    `json:"late"`
	Leave        int    `json:"leave"`
}

// AttendanceSummary feeds the attendance charts.
type AttendanceSummary struct {
	Period
	ByTechnician []TechnicianAttendance `json:"by_technician"`
}
