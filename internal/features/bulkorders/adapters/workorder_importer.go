package adapters

import (
	"context"

	"qc-dashboard/internal/features/bulkorders/domain"
	wodomain "qc-dashboard/internal/features/workorders/domain"
	woports "qc-dashboard/internal/features/workorders/ports"
)

// WorkOrderImporter implements ports.WorkOrderImporter on top of the work order service.
type WorkOrderImporter struct {
	service woports.WorkOrderService
}

// NewWorkOrderImporter creates a new WorkOrderImporter.
func NewWorkOrderImporter(service woports.WorkOrderService) *WorkOrderImporter {
	return &WorkOrderImporter{service: service}
}

// ImportOrders converts orders to work orders and upserts them.
func (i *WorkOrderImporter) ImportOrders(ctx context.Context, orders []domain.Order) (int, error) {
	out := make([]wodomain.WorkOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, toWorkOrder(o))
	}
	return i.service.Import(ctx, out)
}

func toWorkOrder(o domain.Order) wodomain.WorkOrder {
	wo := wodomain.WorkOrder{
		OrderNo:       o.OrderNo,
		ScheduledDate: o.Date,
	}
	if o.Location != nil {
		wo.Address = o.Location.Address
		wo.Latitude = o.Location.Latitude
		wo.Longitude = o.Location.Longitude
	}
	if o.Schedule != nil {
		wo.DriverSerial = o.Schedule.DriverSerial
		wo.DriverName = o.Schedule.DriverName
	}
	if c := o.Completion; c != nil && c.Data != nil {
		wo.CompletionStatus = c.Data.Status
		wo.StartedAt = c.Data.StartTime
		wo.EndedAt = c.Data.EndTime
		wo.TrackingURL = c.Data.TrackingURL
	}
	return wo
}
