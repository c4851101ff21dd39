package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// TestHandler wires question bank endpoints for admins.
type TestHandler struct {
	service service.TestService
	logger  zerolog.Logger
}

// NewTestHandler constructs the handler.
func NewTestHandler(service service.TestService, logger zerolog.Logger) *TestHandler {
	return &TestHandler{
		service: service,
		logger:  logger.With().Str("component", "test_handler").Logger(),
	}
}

// Register attaches question bank endpoints to the router group.
func (h *TestHandler) Register(router fiber.Router) {
	router.Get("/tests", h.list)
	router.Post("/tests", h.create)
	router.Get("/tests/:id", h.get)
	router.Patch("/tests/:id", h.update)
	router.Delete("/tests/:id", h.delete)
}

func (h *TestHandler) create(c *fiber.Ctx) error {
	var payload dto.TestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	test, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create test")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "test created", test)
}

func (h *TestHandler) update(c *fiber.Ctx) error {
	var payload dto.TestUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	test, err := h.service.Update(c.Context(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update test")
	}

	return utils.SendSuccess(c, "test updated", test)
}

func (h *TestHandler) get(c *fiber.Ctx) error {
	test, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load test")
	}

	return utils.SendSuccess(c, "test", test)
}

func (h *TestHandler) list(c *fiber.Ctx) error {
	tests, err := h.service.List(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list tests")
	}

	return utils.SendSuccess(c, "tests", tests)
}

func (h *TestHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), actorFromContext(c)); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete test")
	}

	return utils.SendSuccess(c, "test deleted", nil)
}
