package ports

import (
	"context"

	"qc-dashboard/internal/features/bulkorders/domain"

	"github.com/google/uuid"
)

// StartFetchRequest describes a bulk fetch. ResumeSessionID continues a previous session.
type StartFetchRequest struct {
	Range           domain.DateRange
	Mode            domain.FetchMode
	ResumeSessionID *uuid.UUID
}

// BulkOrderService defines the primary port for bulk order operations.
type BulkOrderService interface {
	FetchPage(ctx context.Context, req PageRequest) (*domain.Page, error)
	CompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error)
	StartFetch(ctx context.Context, req StartFetchRequest) (*domain.FetchSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error)
	CancelFetch(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error)
	ImportSession(ctx context.Context, id uuid.UUID) (*domain.ImportResult, error)
}

// OrderSearcher is the upstream route-optimization API.
// This is a Secondary Port (Driven Port).
type OrderSearcher interface {
	// SearchOrders returns one page of orders. Upstream soft failures are reported through
	// Page.Success, not as errors.
	SearchOrders(ctx context.Context, q domain.SearchQuery) (*domain.Page, error)
	// GetCompletionDetails looks up completion details for the given order numbers.
	GetCompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error)
}

// PageRequest asks for one page in a given mode.
type PageRequest struct {
	Range    domain.DateRange
	Mode     domain.FetchMode
	AfterTag string
}

// PageFetcher fetches one page ready for reconciliation.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (*domain.Page, error)
}

// Notifier receives the user-facing notices produced while fetching.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notice)
}

// SessionRepository persists fetch sessions.
type SessionRepository interface {
	Save(ctx context.Context, s *domain.FetchSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error)
}

// CompletionCache stores terminal completion details by order number.
type CompletionCache interface {
	GetMany(ctx context.Context, orderNos []string) (map[string]domain.CompletionDetails, error)
	Put(ctx context.Context, details map[string]domain.CompletionDetails) error
}

// WorkOrderImporter turns reconciled orders into work orders.
type WorkOrderImporter interface {
	ImportOrders(ctx context.Context, orders []domain.Order) (imported int, err error)
}
