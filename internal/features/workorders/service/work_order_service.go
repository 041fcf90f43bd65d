package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qc-dashboard/internal/core/events"
	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/features/workorders/domain"
	"qc-dashboard/internal/features/workorders/ports"

	"go.uber.org/zap"
)

// WorkOrderService implements ports.WorkOrderService.
type WorkOrderService struct {
	repo      ports.WorkOrderRepository
	publisher events.Publisher
	now       func() time.Time
}

var _ ports.WorkOrderService = (*WorkOrderService)(nil)

// NewWorkOrderService creates a new WorkOrderService.
func NewWorkOrderService(repo ports.WorkOrderRepository, publisher events.Publisher) *WorkOrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &WorkOrderService{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Import upserts orders and announces them. Orders without an order number are skipped.
func (s *WorkOrderService) Import(ctx context.Context, orders []domain.WorkOrder) (int, error) {
	valid := make([]domain.WorkOrder, 0, len(orders))
	for _, o := range orders {
		o.OrderNo = strings.TrimSpace(o.OrderNo)
		if o.OrderNo == "" {
			continue
		}
		valid = append(valid, o)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	n, err := s.repo.UpsertMany(ctx, valid)
	if err != nil {
		return 0, fmt.Errorf("service: failed to import work orders: %w", err)
	}

	evts := make([]events.Event, 0, len(valid))
	for _, o := range valid {
		evt, err := events.NewEvent(domain.EventImported, o.OrderNo, o)
		if err != nil {
			logger.Get().Warn("Failed to build event", zap.String("order_no", o.OrderNo), zap.Error(err))
			continue
		}
		evts = append(evts, evt)
	}
	s.publish(ctx, evts...)

	logger.Get().Info("Work orders imported", zap.Int("count", n))
	return n, nil
}

// Get returns one work order.
func (s *WorkOrderService) Get(ctx context.Context, orderNo string) (*domain.WorkOrder, error) {
	wo, err := s.repo.Get(ctx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get work order: %w", err)
	}
	return wo, nil
}

// List returns a filtered page of work orders.
func (s *WorkOrderService) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult, error) {
	f, err := filter.Normalize()
	if err != nil {
		return nil, err
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list work orders: %w", err)
	}
	return &domain.ListResult{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Review records a QC decision and announces it.
func (s *WorkOrderService) Review(ctx context.Context, orderNo string, in domain.ReviewInput) (*domain.WorkOrder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	wo, err := s.repo.UpdateReview(ctx, orderNo, in, s.now())
	if err != nil {
		return nil, fmt.Errorf("service: failed to review work order: %w", err)
	}

	if evt, err := events.NewEvent(domain.EventReviewed, wo.OrderNo, wo); err == nil {
		s.publish(ctx, evt)
	}
	return wo, nil
}

// Delete removes a work order.
func (s *WorkOrderService) Delete(ctx context.Context, orderNo string) error {
	if err := s.repo.Delete(ctx, orderNo); err != nil {
		return fmt.Errorf("service: failed to delete work order: %w", err)
	}
	return nil
}

// publish sends events; a failed publish does not undo the write.
func (s *WorkOrderService) publish(ctx context.Context, evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		logger.Get().Warn("Failed to publish work order events", zap.Int("count", len(evts)), zap.Error(err))
	}
}
