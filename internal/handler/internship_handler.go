package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// InternshipHandler wires internship posting endpoints.
type InternshipHandler struct {
	service service.InternshipService
	logger  zerolog.Logger
}

// NewInternshipHandler constructs the handler.
func NewInternshipHandler(service service.InternshipService, logger zerolog.Logger) *InternshipHandler {
	return &InternshipHandler{
		service: service,
		logger:  logger.With().Str("component", "internship_handler").Logger(),
	}
}

// Register attaches internship endpoints to the router group.
func (h *InternshipHandler) Register(router fiber.Router) {
	router.Get("/internships", h.list)
	router.Post("/internships", h.create)
	router.Get("/internships/:id", h.get)
	router.Patch("/internships/:id", h.update)
	router.Delete("/internships/:id", h.delete)
}

func (h *InternshipHandler) create(c *fiber.Ctx) error {
	var payload dto.InternshipCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	internship, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create internship")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "internship created", internship)
}

func (h *InternshipHandler) update(c *fiber.Ctx) error {
	var payload dto.InternshipUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	internship, err := h.service.Update(c.Context(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update internship")
	}

	return utils.SendSuccess(c, "internship updated", internship)
}

func (h *InternshipHandler) get(c *fiber.Ctx) error {
	internship, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load internship")
	}

	return utils.SendSuccess(c, "internship", internship)
}

func (h *InternshipHandler) list(c *fiber.Ctx) error {
	internships, err := h.service.List(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list internships")
	}

	return utils.SendSuccess(c, "internships", internships)
}

func (h *InternshipHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), actorFromContext(c)); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete internship")
	}

	return utils.SendSuccess(c, "internship deleted", nil)
}
