package handler

import (
	"errors"
	"net/http"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/reports/domain"
	"qc-dashboard/internal/features/reports/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportHandler serves the dashboard aggregates.
type ReportHandler struct {
	service ports.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// Register mounts the report routes.
func (h *ReportHandler) Register(r fiber.Router) {
	g := r.Group("/reports")
	g.Get("/qc-summary", h.QCSummary)
	g.Get("/attendance", h.Attendance)
}

// QCSummary handles GET /reports/qc-summary.
// @Summary QC summary
// @Description Work order counts by QC status and visit outcome, in total, per driver and per day.
// @Tags Reports
// @Produce json
// @Param from query string true "From (YYYY-MM-DD)"
// @Param to query string true "To (YYYY-MM-DD)"
// @Success 200 {object} domain.QCSummary
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/qc-summary [get]
func (h *ReportHandler) QCSummary(c *fiber.Ctx) error {
	summary, err := h.service.QCSummary(c.Context(), period(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// Attendance handles GET /reports/attendance.
// @Summary Attendance summary
// @Tags Reports
// @Produce json
// @Param from query string true "From (YYYY-MM-DD)"
// @Param to query string true "To (YYYY-MM-DD)"
// @Success 200 {object} domain.AttendanceSummary
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *fiber.Ctx) error {
	summary, err := h.service.AttendanceSummary(c.Context(), period(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

func period(c *fiber.Ctx) domain.Period {
	return domain.Period{From: c.Query("from"), To: c.Query("to")}
}

func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidRange) {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	logger.Get().Error("Report failed", zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Internal server error")
}
