package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// FacultyHandler wires faculty catalog endpoints.
type FacultyHandler struct {
	service service.FacultyService
	logger  zerolog.Logger
}

// NewFacultyHandler constructs the handler.
func NewFacultyHandler(service service.FacultyService, logger zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		service: service,
		logger:  logger.With().Str("component", "faculty_handler").Logger(),
	}
}

// Register attaches faculty endpoints to the router group.
func (h *FacultyHandler) Register(router fiber.Router) {
	router.Get("/faculty", h.list)
	router.Post("/faculty", h.create)
	router.Get("/faculty/:id", h.get)
	router.Patch("/faculty/:id", h.update)
	router.Delete("/faculty/:id", h.delete)
}

func (h *FacultyHandler) create(c *fiber.Ctx) error {
	var payload dto.FacultyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	member, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create faculty member")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faculty member created", member)
}

func (h *FacultyHandler) update(c *fiber.Ctx) error {
	var payload dto.FacultyUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	member, err := h.service.Update(c.Context(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update faculty member")
	}

	return utils.SendSuccess(c, "faculty member updated", member)
}

func (h *FacultyHandler) get(c *fiber.Ctx) error {
	member, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load faculty member")
	}

	return utils.SendSuccess(c, "faculty member", member)
}

func (h *FacultyHandler) list(c *fiber.Ctx) error {
	members, err := h.service.List(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list faculty")
	}

	return utils.SendSuccess(c, "faculty", members)
}

func (h *FacultyHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), actorFromContext(c)); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete faculty member")
	}

	return utils.SendSuccess(c, "faculty member deleted", nil)
}
