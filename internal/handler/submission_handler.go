package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// SubmissionHandler wires quiz submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// RegisterStudent attaches the student-facing ingestion endpoint.
func (h *SubmissionHandler) RegisterStudent(router fiber.Router) {
	router.Post("/submissions", h.submit)
}

// RegisterAdmin attaches read endpoints for reviewers.
func (h *SubmissionHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/submissions", h.list)
	router.Get("/submissions/:id", h.get)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitQuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.SubmitQuiz(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to submit quiz")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz submitted", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	submission, err := h.service.GetSubmission(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load submission")
	}

	return utils.SendSuccess(c, "submission", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	status := models.SubmissionReviewStatus(strings.TrimSpace(c.Query("status")))
	if status == "" {
		status = models.SubmissionPending
	}

	submissions, err := h.service.ListByStatus(c.Context(), status)
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions", submissions)
}
