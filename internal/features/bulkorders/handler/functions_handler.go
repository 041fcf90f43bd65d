package handler

import (
	"errors"
	"net/http"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"
	"qc-dashboard/internal/features/bulkorders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FunctionsHandler exposes the upstream proxy endpoints called by the dashboard.
type FunctionsHandler struct {
	service ports.BulkOrderService
}

// NewFunctionsHandler creates a new FunctionsHandler.
func NewFunctionsHandler(service ports.BulkOrderService) *FunctionsHandler {
	return &FunctionsHandler{
		service: service,
	}
}

// Register mounts the function routes.
func (h *FunctionsHandler) Register(r fiber.Router) {
	g := r.Group("/functions")
	g.Post("/search-orders", h.SearchOrders)
	g.Post("/search-orders-with-completion", h.SearchOrdersWithCompletion)
	g.Post("/get-completion-details", h.GetCompletionDetails)
}

// SearchOrdersRequest is the body of the search functions.
type SearchOrdersRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	AfterTag  string `json:"afterTag,omitempty"`
}

// SearchOrdersResponse mirrors one upstream page.
type SearchOrdersResponse struct {
	Success    bool           `json:"success"`
	Orders     []domain.Order `json:"orders"`
	AfterTag   string         `json:"after_tag,omitempty"`
	IsComplete bool           `json:"isComplete"`
	Code       string         `json:"code,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// SearchOrdersWithCompletionResponse adds the orders that passed the completion filter.
// Filtered is always present, empty when nothing passed.
type SearchOrdersWithCompletionResponse struct {
	SearchOrdersResponse
	Filtered []domain.Order `json:"filtered"`
}

// CompletionDetailsRequest is the body of get-completion-details.
type CompletionDetailsRequest struct {
	OrderNos []string `json:"orderNos"`
}

// CompletionDetailsResponse maps order numbers to their completion details.
type CompletionDetailsResponse struct {
	Success bool                                `json:"success"`
	Details map[string]domain.CompletionDetails `json:"details"`
	Code    string                              `json:"code,omitempty"`
	Message string                              `json:"message,omitempty"`
}

// SearchOrders handles POST /functions/search-orders.
// @Summary Search one page of orders
// @Description Proxies one page of the upstream order search. Upstream rejections come back with success=false.
// @Tags Functions
// @Accept json
// @Produce json
// @Param request body SearchOrdersRequest true "Date range and continuation token"
// @Success 200 {object} SearchOrdersResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /functions/search-orders [post]
func (h *FunctionsHandler) SearchOrders(c *fiber.Ctx) error {
	return h.search(c, domain.FetchModeSearch)
}

// SearchOrdersWithCompletion handles POST /functions/search-orders-with-completion.
// @Summary Search one page of orders with completion details
// @Description Like search-orders, with completion details attached and the finished visits listed in filtered.
// @Tags Functions
// @Accept json
// @Produce json
// @Param request body SearchOrdersRequest true "Date range and continuation token"
// @Success 200 {object} SearchOrdersWithCompletionResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /functions/search-orders-with-completion [post]
func (h *FunctionsHandler) SearchOrdersWithCompletion(c *fiber.Ctx) error {
	return h.search(c, domain.FetchModeCompletion)
}

func (h *FunctionsHandler) search(c *fiber.Ctx, mode domain.FetchMode) error {
	var req SearchOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}

	page, err := h.service.FetchPage(c.Context(), ports.PageRequest{
		Range:    domain.DateRange{From: req.StartDate, To: req.EndDate},
		Mode:     mode,
		AfterTag: req.AfterTag,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := SearchOrdersResponse{
		Success:    page.Success,
		Orders:     page.Orders,
		AfterTag:   page.AfterTag,
		IsComplete: page.IsComplete,
		Code:       page.Code,
		Message:    page.Message,
	}
	if resp.Orders == nil {
		resp.Orders = []domain.Order{}
	}
	if mode != domain.FetchModeCompletion {
		return c.JSON(resp)
	}

	withCompletion := SearchOrdersWithCompletionResponse{SearchOrdersResponse: resp, Filtered: []domain.Order{}}
	if page.Success {
		if filtered := domain.FilterCompleted(page.Orders); len(filtered) > 0 {
			withCompletion.Filtered = filtered
		}
	}
	return c.JSON(withCompletion)
}

// GetCompletionDetails handles POST /functions/get-completion-details.
// @Summary Get completion details
// @Description Looks up completion details for a list of order numbers.
// @Tags Functions
// @Accept json
// @Produce json
// @Param request body CompletionDetailsRequest true "Order numbers"
// @Success 200 {object} CompletionDetailsResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /functions/get-completion-details [post]
func (h *FunctionsHandler) GetCompletionDetails(c *fiber.Ctx) error {
	var req CompletionDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	if len(req.OrderNos) == 0 {
		return response.Error(c, http.StatusBadRequest, "orderNos is required")
	}

	batch, err := h.service.CompletionDetails(c.Context(), req.OrderNos)
	if err != nil {
		return writeError(c, err)
	}

	details := batch.Details
	if details == nil {
		details = map[string]domain.CompletionDetails{}
	}
	return c.JSON(CompletionDetailsResponse{
		Success: batch.Success,
		Details: details,
		Code:    batch.Code,
		Message: batch.Message,
	})
}

// writeError maps service errors to status codes.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidMode):
		return response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		return response.Error(c, http.StatusNotFound, "fetch session not found")
	case errors.Is(err, service.ErrSessionRunning),
		errors.Is(err, service.ErrSessionFinished),
		errors.Is(err, service.ErrSessionNotCompleted):
		return response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrImportDisabled):
		return response.Error(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		logger.Get().Warn("Upstream request failed", zap.Error(err))
		return response.Error(c, http.StatusBadGateway, "upstream request failed")
	default:
		logger.Get().Error("Bulk order request failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
