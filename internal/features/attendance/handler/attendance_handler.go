package handler

import (
	"errors"
	"net/http"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/attendance/domain"
	"qc-dashboard/internal/features/attendance/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttendanceHandler handles HTTP requests for attendance records.
type AttendanceHandler struct {
	service ports.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
	}
}

// Register mounts the attendance routes.
func (h *AttendanceHandler) Register(r fiber.Router) {
	g := r.Group("/attendance")
	g.Get("/", h.List)
	g.Put("/", h.Upsert)
	g.Delete("/:id", h.Delete)
}

// Upsert handles PUT /attendance.
// @Summary Record attendance
// @Description Creates or replaces the record of a technician for a day.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param record body domain.RecordInput true "Attendance"
// @Success 200 {object} domain.Record
// @Failure 400 {object} response.ErrorResponse
// @Router /attendance [put]
func (h *AttendanceHandler) Upsert(c *fiber.Ctx) error {
	var in domain.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	rec, err := h.service.Upsert(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rec)
}

// List handles GET /attendance.
// @Summary List attendance
// @Tags Attendance
// @Produce json
// @Param from query string false "From (YYYY-MM-DD)"
// @Param to query string false "To (YYYY-MM-DD)"
// @Param technician_id query string false "Technician ID"
// @Success 200 {array} domain.Record
// @Failure 400 {object} response.ErrorResponse
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	filter := domain.Filter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("technician_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid technician_id")
		}
		filter.TechnicianID = &id
	}

	records, err := h.service.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(records)
}

// Delete handles DELETE /attendance/:id.
// @Summary Delete an attendance record
// @Tags Attendance
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.Error(c, http.StatusNotFound, "Attendance record not found")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidReference):
		return response.Error(c, http.StatusBadRequest, err.Error())
	default:
		logger.Get().Error("Attendance request failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
