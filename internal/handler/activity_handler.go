package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// ActivityHandler exposes the admin audit trail.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register binds the activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	entries, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list activity log")
	}

	return utils.SendSuccess(c, "activity log", entries)
}
