package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// StudentHandler wires student catalog endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/students", h.list)
	router.Post("/students", h.create)
	router.Get("/students/:id", h.get)
	router.Patch("/students/:id", h.update)
	router.Delete("/students/:id", h.delete)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.Context(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	student, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load student")
	}

	return utils.SendSuccess(c, "student", student)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.service.List(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list students")
	}

	return utils.SendSuccess(c, "students", students)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), actorFromContext(c)); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
