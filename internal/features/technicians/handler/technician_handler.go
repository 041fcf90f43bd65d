package handler

import (
	"errors"
	"net/http"
	"strconv"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/response"
	"qc-dashboard/internal/features/technicians/domain"
	"qc-dashboard/internal/features/technicians/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TechnicianHandler handles HTTP requests for groups and technicians.
type TechnicianHandler struct {
	service ports.TechnicianService
}

// NewTechnicianHandler creates a new TechnicianHandler.
func NewTechnicianHandler(service ports.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{
		service: service,
	}
}

// Register mounts the group and technician routes.
func (h *TechnicianHandler) Register(r fiber.Router) {
	g := r.Group("/groups")
	g.Get("/", h.ListGroups)
	g.Post("/", h.CreateGroup)
	g.Get("/:id", h.GetGroup)
	g.Put("/:id", h.UpdateGroup)
	g.Delete("/:id", h.DeleteGroup)

	t := r.Group("/technicians")
	t.Get("/", h.ListTechnicians)
	t.Post("/", h.CreateTechnician)
	t.Get("/:id", h.GetTechnician)
	t.Put("/:id", h.UpdateTechnician)
	t.Delete("/:id", h.DeleteTechnician)
}

// ListGroups handles GET /groups.
// @Summary List technician groups
// @Tags Technicians
// @Produce json
// @Success 200 {array} domain.Group
// @Router /groups [get]
func (h *TechnicianHandler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.service.ListGroups(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	return c.JSON(groups)
}

// CreateGroup handles POST /groups.
// @Summary Create a technician group
// @Tags Technicians
// @Accept json
// @Produce json
// @Param group body domain.GroupInput true "Group"
// @Success 201 {object} domain.Group
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /groups [post]
func (h *TechnicianHandler) CreateGroup(c *fiber.Ctx) error {
	var in domain.GroupInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	g, err := h.service.CreateGroup(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(g)
}

// GetGroup handles GET /groups/:id.
// @Summary Get a technician group
// @Tags Technicians
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} domain.Group
// @Failure 404 {object} response.ErrorResponse
// @Router /groups/{id} [get]
func (h *TechnicianHandler) GetGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	g, err := h.service.GetGroup(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(g)
}

// UpdateGroup handles PUT /groups/:id.
// @Summary Update a technician group
// @Tags Technicians
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param group body domain.GroupInput true "Group"
// @Success 200 {object} domain.Group
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /groups/{id} [put]
func (h *TechnicianHandler) UpdateGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	var in domain.GroupInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	g, err := h.service.UpdateGroup(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(g)
}

// DeleteGroup handles DELETE /groups/:id.
// @Summary Delete a technician group
// @Tags Technicians
// @Param id path string true "Group ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /groups/{id} [delete]
func (h *TechnicianHandler) DeleteGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	if err := h.service.DeleteGroup(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListTechnicians handles GET /technicians.
// @Summary List technicians
// @Tags Technicians
// @Produce json
// @Param group_id query string false "Group ID"
// @Param active query bool false "Active flag"
// @Success 200 {array} domain.Technician
// @Failure 400 {object} response.ErrorResponse
// @Router /technicians [get]
func (h *TechnicianHandler) ListTechnicians(c *fiber.Ctx) error {
	var filter domain.TechnicianFilter
	if raw := c.Query("group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid group_id")
		}
		filter.GroupID = &id
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid active flag")
		}
		filter.Active = &active
	}

	techs, err := h.service.ListTechnicians(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(techs)
}

// CreateTechnician handles POST /technicians.
// @Summary Create a technician
// @Tags Technicians
// @Accept json
// @Produce json
// @Param technician body domain.TechnicianInput true "Technician"
// @Success 201 {object} domain.Technician
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /technicians [post]
func (h *TechnicianHandler) CreateTechnician(c *fiber.Ctx) error {
	var in domain.TechnicianInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	t, err := h.service.CreateTechnician(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(t)
}

// GetTechnician handles GET /technicians/:id.
// @Summary Get a technician
// @Tags Technicians
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} domain.Technician
// @Failure 404 {object} response.ErrorResponse
// @Router /technicians/{id} [get]
func (h *TechnicianHandler) GetTechnician(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	t, err := h.service.GetTechnician(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

// UpdateTechnician handles PUT /technicians/:id.
// @Summary Update a technician
// @Tags Technicians
// @Accept json
// @Produce json
// @Param id path string true "Technician ID"
// @Param technician body domain.TechnicianInput true "Technician"
// @Success 200 {object} domain.Technician
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /technicians/{id} [put]
func (h *TechnicianHandler) UpdateTechnician(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	var in domain.TechnicianInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	t, err := h.service.UpdateTechnician(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

// DeleteTechnician handles DELETE /technicians/:id.
// @Summary Delete a technician
// @Tags Technicians
// @Param id path string true "Technician ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /technicians/{id} [delete]
func (h *TechnicianHandler) DeleteTechnician(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid id")
	}
	if err := h.service.DeleteTechnician(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidReference):
		return response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrGroupInUse):
		return response.Error(c, http.StatusConflict, err.Error())
	default:
		logger.Get().Error("Technician request failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
