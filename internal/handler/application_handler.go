package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// ApplicationHandler wires application read endpoints and the student-facing
// apply endpoint. Applications are addressed under their internship.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// RegisterStudent attaches the apply endpoint.
func (h *ApplicationHandler) RegisterStudent(router fiber.Router) {
	router.Post("/applications", h.create)
}

// RegisterAdmin attaches application read endpoints for the console.
func (h *ApplicationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/applications", h.listByStatus)
	router.Get("/internships/:internshipId/applications", h.listForInternship)
	router.Get("/internships/:internshipId/applications/:applicationId", h.get)
}

func (h *ApplicationHandler) create(c *fiber.Ctx) error {
	var payload service.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	application, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create application")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) get(c *fiber.Ctx) error {
	application, err := h.service.Get(c.Context(), c.Params("internshipId"), c.Params("applicationId"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load application")
	}

	return utils.SendSuccess(c, "application", application)
}

func (h *ApplicationHandler) listForInternship(c *fiber.Ctx) error {
	applications, err := h.service.ListForInternship(c.Context(), c.Params("internshipId"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications", applications)
}

func (h *ApplicationHandler) listByStatus(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "status query parameter is required")
	}

	applications, err := h.service.ListByStatus(c.Context(), models.ApplicationStatus(status))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications", applications)
}
