package handler

import (
	"net/http"

	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BulkOrderHandler handles HTTP requests for bulk fetch sessions.
type BulkOrderHandler struct {
	service ports.BulkOrderService
}

// NewBulkOrderHandler creates a new BulkOrderHandler.
func NewBulkOrderHandler(service ports.BulkOrderService) *BulkOrderHandler {
	return &BulkOrderHandler{
		service: service,
	}
}

// Register mounts the bulk order routes.
func (h *BulkOrderHandler) Register(r fiber.Router) {
	g := r.Group("/bulk-orders")
	g.Post("/fetch", h.StartFetch)
	g.Get("/sessions/:id", h.GetSession)
	g.Delete("/sessions/:id", h.CancelFetch)
	g.Post("/sessions/:id/import", h.ImportSession)
}

// StartFetchRequest is the body of POST /bulk-orders/fetch.
type StartFetchRequest struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Mode            domain.FetchMode `json:"mode"`
	ResumeSessionID string           `json:"resume_session_id,omitempty"`
}

// StartFetch handles POST /bulk-orders/fetch.
// @Summary Start a bulk fetch
// @Description Starts paging through the upstream search in the background. Poll the session for progress.
// @Tags Bulk Orders
// @Accept json
// @Produce json
// @Param request body StartFetchRequest true "Range, mode and optional session to resume"
// @Success 202 {object} domain.FetchSession
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bulk-orders/fetch [post]
func (h *BulkOrderHandler) StartFetch(c *fiber.Ctx) error {
	var req StartFetchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.FetchModeCompletion
	}
	in := ports.StartFetchRequest{Range: domain.DateRange{From: req.From, To: req.To}, Mode: mode}
	if req.ResumeSessionID != "" {
		id, err := uuid.Parse(req.ResumeSessionID)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid resume_session_id")
		}
		in.ResumeSessionID = &id
	}

	session, err := h.service.StartFetch(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(session)
}

// GetSession handles GET /bulk-orders/sessions/:id.
// @Summary Get a fetch session
// @Description Returns running totals, notices, the last raw page and the accumulated orders.
// @Tags Bulk Orders
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.FetchSession
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bulk-orders/sessions/{id} [get]
func (h *BulkOrderHandler) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid session id")
	}

	session, err := h.service.GetSession(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// CancelFetch handles DELETE /bulk-orders/sessions/:id.
// @Summary Cancel a fetch session
// @Tags Bulk Orders
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.FetchSession
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bulk-orders/sessions/{id} [delete]
func (h *BulkOrderHandler) CancelFetch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid session id")
	}

	session, err := h.service.CancelFetch(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// ImportSession handles POST /bulk-orders/sessions/:id/import.
// @Summary Import a completed session as work orders
// @Tags Bulk Orders
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.ImportResult
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bulk-orders/sessions/{id}/import [post]
func (h *BulkOrderHandler) ImportSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid session id")
	}

	result, err := h.service.ImportSession(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}
