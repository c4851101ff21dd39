package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// UploadHandler handles resume uploads.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires upload routes.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/resume", h.uploadResume)
}

func (h *UploadHandler) uploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}
	defer reader.Close()

	url, err := h.service.UploadResume(c.Context(), file.Filename, reader, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "resume upload failed")
	}

	return utils.SendSuccess(c, "resume uploaded", fiber.Map{"url": url})
}
