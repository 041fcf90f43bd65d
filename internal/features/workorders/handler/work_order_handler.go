package handler

import (
	"errors"
	"net/http"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/workorders/domain"
	"qc-dashboard/internal/features/workorders/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WorkOrderHandler handles HTTP requests for work orders.
type WorkOrderHandler struct {
	service ports.WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler.
func NewWorkOrderHandler(service ports.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{
		service: service,
	}
}

// Register mounts the work order routes.
func (h *WorkOrderHandler) Register(r fiber.Router) {
	g := r.Group("/work-orders")
	g.Get("/", h.List)
	g.Get("/:orderNo", h.Get)
	g.Patch("/:orderNo/review", h.Review)
	g.Delete("/:orderNo", h.Delete)
}

// List handles GET /work-orders.
// @Summary List work orders
// @Tags Work Orders
// @Produce json
// @Param from query string false "Scheduled from (YYYY-MM-DD)"
// @Param to query string false "Scheduled to (YYYY-MM-DD)"
// @Param qc_status query string false "pending, passed, failed or needs_review"
// @Param driver_serial query string false "Driver serial"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} domain.ListResult
// @Failure 400 {object} response.ErrorResponse
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	filter := domain.ListFilter{
		From:         c.Query("from"),
		To:           c.Query("to"),
		QCStatus:     domain.QCStatus(c.Query("qc_status")),
		DriverSerial: c.Query("driver_serial"),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	}

	res, err := h.service.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Get handles GET /work-orders/:orderNo.
// @Summary Get a work order
// @Tags Work Orders
// @Produce json
// @Param orderNo path string true "Order number"
// @Success 200 {object} domain.WorkOrder
// @Failure 404 {object} response.ErrorResponse
// @Router /work-orders/{orderNo} [get]
func (h *WorkOrderHandler) Get(c *fiber.Ctx) error {
	wo, err := h.service.Get(c.Context(), c.Params("orderNo"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(wo)
}

// Review handles PATCH /work-orders/:orderNo/review.
// @Summary Record a QC review
// @Tags Work Orders
// @Accept json
// @Produce json
// @Param orderNo path string true "Order number"
// @Param review body domain.ReviewInput true "QC decision"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /work-orders/{orderNo}/review [patch]
func (h *WorkOrderHandler) Review(c *fiber.Ctx) error {
	var in domain.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}

	wo, err := h.service.Review(c.Context(), c.Params("orderNo"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(wo)
}

// Delete handles DELETE /work-orders/:orderNo.
// @Summary Delete a work order
// @Tags Work Orders
// @Param orderNo path string true "Order number"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /work-orders/{orderNo} [delete]
func (h *WorkOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("orderNo")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.Error(c, http.StatusNotFound, "work order not found")
	case errors.Is(err, domain.ErrInvalidQCStatus), errors.Is(err, domain.ErrInvalidReview), errors.Is(err, domain.ErrInvalidFilter):
		return response.Error(c, http.StatusBadRequest, err.Error())
	default:
		logger.Get().Error("Work order request failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
