package ports

import (
	"context"
	"time"

	"qc-dashboard/internal/features/workorders/domain"
)

// WorkOrderService defines the primary port for work order operations.
type WorkOrderService interface {
	Import(ctx context.Context, orders []domain.WorkOrder) (int, error)
	Get(ctx context.Context, orderNo string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult, error)
	Review(ctx context.Context, orderNo string, in domain.ReviewInput) (*domain.WorkOrder, error)
	Delete(ctx context.Context, orderNo string) error
}

// WorkOrderRepository defines the secondary port for work order storage.
type WorkOrderRepository interface {
	// UpsertMany inserts or updates orders. QC review fields of existing rows are kept.
	UpsertMany(ctx context.Context, orders []domain.WorkOrder) (int, error)
	Get(ctx context.Context, orderNo string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.WorkOrder, int, error)
	UpdateReview(ctx context.Context, orderNo string, in domain.ReviewInput, at time.Time) (*domain.WorkOrder, error)
	Delete(ctx context.Context, orderNo string) error
}
