package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the upstream date format.
const DateLayout = "2006-01-02"

// MaxRangeDays bounds a single fetch.
const MaxRangeDays = 31

var (
	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidRange is returned when from is after to or the span is too long.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidMode is returned for an unknown fetch mode.
	ErrInvalidMode = errors.New("invalid fetch mode")
	// ErrSessionNotFound is returned when a session does not exist or has expired.
	ErrSessionNotFound = errors.New("fetch session not found")
)

// DateRange is an inclusive range of upstream dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks the format, the order and the span of the range.
func (r DateRange) Validate() error {
	from, err := time.Parse(DateLayout, r.From)
	if err != nil {
		return fmt.Errorf("from %q: %w", r.From, ErrInvalidDate)
	}
	to, err := time.Parse(DateLayout, r.To)
	if err != nil {
		return fmt.Errorf("to %q: %w", r.To, ErrInvalidDate)
	}
	if from.After(to) {
		return fmt.Errorf("from %s is after to %s: %w", r.From, r.To, ErrInvalidRange)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > MaxRangeDays {
		return fmt.Errorf("%d days exceeds %d: %w", days, MaxRangeDays, ErrInvalidRange)
	}
	return nil
}

// SessionState is the pagination driver state recorded on a session.
type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionContinuing SessionState = "continuing"
	SessionCompleted  SessionState = "completed"
	SessionFailed     SessionState = "failed"
	SessionCancelled  SessionState = "cancelled"
)

// Finished reports whether the state is terminal.
func (s SessionState) Finished() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message produced while fetching, shown by the UI as a toast.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// NewNotice stamps a notice with the current time.
func NewNotice(level NoticeLevel, title, message string) Notice {
	return Notice{Level: level, Title: title, Message: message, At: time.Now().UTC()}
}

// maxNotices caps the notices kept on a session.
const maxNotices = 100

// FetchSession is the state of one bulk fetch. It is the only place where fetch progress
// lives; it is mutated through its methods and persisted by a SessionRepository.
type FetchSession struct {
	ID         uuid.UUID       `json:"id"`
	Mode       FetchMode       `json:"mode"`
	Range      DateRange       `json:"range"`
	State      SessionState    `json:"state"`
	Pages      int             `json:"pages"`
	AfterTag   string          `json:"after_tag,omitempty"`
	Fetched    int             `json:"fetched"`
	Kept       int             `json:"kept"`
	Orders     []Order         `json:"orders"`
	LastPage   json.RawMessage `json:"last_page,omitempty"`
	Notices    []Notice        `json:"notices"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// NewFetchSession creates an idle session for the given range and mode.
func NewFetchSession(r DateRange, mode FetchMode) *FetchSession {
	now := time.Now().UTC()
	return &FetchSession{
		ID:        uuid.New(),
		Mode:      mode,
		Range:     r,
		State:     SessionIdle,
		Orders:    []Order{},
		Notices:   []Notice{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Seed copies the continuation state of a previous session, so the fetch resumes from its
// last token. It only applies when range and mode match; otherwise the session starts
// empty and Seed returns false.
func (s *FetchSession) Seed(prev *FetchSession) bool {
	if prev == nil || prev.Range != s.Range || prev.Mode != s.Mode || prev.AfterTag == "" {
		return false
	}
	s.AfterTag = prev.AfterTag
	s.Orders = append([]Order(nil), prev.Orders...)
	s.Kept = len(s.Orders)
	return true
}

// Begin moves the session to continuing.
func (s *FetchSession) Begin() {
	s.State = SessionContinuing
	s.touch()
}

// ApplyPage records a reconciled page.
func (s *FetchSession) ApplyPage(fetched int, afterTag string, accumulated []Order, raw json.RawMessage) {
	s.Pages++
	s.Fetched += fetched
	s.AfterTag = afterTag
	s.Orders = accumulated
	s.Kept = len(accumulated)
	if len(raw) > 0 {
		s.LastPage = raw
	}
	s.touch()
}

// Finish moves the session to a terminal state. errMsg is recorded for failed sessions.
func (s *FetchSession) Finish(state SessionState, errMsg string) {
	s.State = state
	s.Error = errMsg
	now := time.Now().UTC()
	s.FinishedAt = &now
	s.UpdatedAt = now
}

// Fail moves the session to failed with the error message.
func (s *FetchSession) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.Finish(SessionFailed, msg)
}

// AddNotice appends a notice, dropping the oldest past the cap.
func (s *FetchSession) AddNotice(n Notice) {
	s.Notices = append(s.Notices, n)
	if len(s.Notices) > maxNotices {
		s.Notices = s.Notices[len(s.Notices)-maxNotices:]
	}
	s.touch()
}

func (s *FetchSession) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a copy that shares no slices with s.
func (s *FetchSession) Clone() *FetchSession {
	c := *s
	c.Orders = append(make([]Order, 0, len(s.Orders)), s.Orders...)
	c.Notices = append(make([]Notice, 0, len(s.Notices)), s.Notices...)
	c.LastPage = append(json.RawMessage(nil), s.LastPage...)
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
