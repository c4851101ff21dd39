package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// WorkflowHandler wires the round-advancement endpoints for admins.
type WorkflowHandler struct {
	service service.WorkflowService
	logger  zerolog.Logger
}

// NewWorkflowHandler constructs the handler.
func NewWorkflowHandler(service service.WorkflowService, logger zerolog.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		service: service,
		logger:  logger.With().Str("component", "workflow_handler").Logger(),
	}
}

// Register attaches workflow endpoints to the router group.
func (h *WorkflowHandler) Register(router fiber.Router) {
	router.Post("/assignments", h.assign)
	router.Post("/assignments/bulk", h.bulkAssign)
	router.Get("/assignments/pending", h.listPending)
	router.Get("/assignments/:id", h.details)
	router.Delete("/assignments/:id", h.delete)
	router.Patch("/assignments/:id/approve", h.approve)
	router.Patch("/assignments/:id/reject", h.reject)
	router.Patch("/internships/:internshipId/applications/:applicationId/round1", h.decideRound1)
	router.Patch("/internships/:internshipId/applications/:applicationId/final-reject", h.finalReject)
}

func (h *WorkflowHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.AssignTest(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to assign test")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "test assigned", assignment)
}

func (h *WorkflowHandler) bulkAssign(c *fiber.Ctx) error {
	var payload dto.BulkAssignTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.BulkAssignTest(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to bulk assign test")
	}

	return utils.SendSuccess(c, "bulk assignment finished", report)
}

func (h *WorkflowHandler) approve(c *fiber.Ctx) error {
	var payload dto.ApproveResultRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.service.ApproveTestResult(c.Context(), c.Params("id"), payload.Feedback, payload.Advance(), actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to approve test result")
	}

	return utils.SendSuccess(c, "test result approved", outcome)
}

func (h *WorkflowHandler) reject(c *fiber.Ctx) error {
	var payload dto.RejectResultRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.service.RejectTestResult(c.Context(), c.Params("id"), payload.Feedback, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to reject test result")
	}

	return utils.SendSuccess(c, "test result rejected", outcome)
}

func (h *WorkflowHandler) decideRound1(c *fiber.Ctx) error {
	var payload dto.Round1DecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if payload.Decision != "approve" && payload.Decision != "reject" {
		return utils.SendError(c, fiber.StatusBadRequest, "decision must be approve or reject")
	}

	application, err := h.service.DecideRound1(c.Context(), c.Params("internshipId"), c.Params("applicationId"), payload.Approve(), payload.Feedback, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to record round 1 decision")
	}

	return utils.SendSuccess(c, "round 1 decision recorded", application)
}

func (h *WorkflowHandler) finalReject(c *fiber.Ctx) error {
	var payload dto.FinalRejectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	application, err := h.service.FinalRejectAfterRound2(c.Context(), c.Params("internshipId"), c.Params("applicationId"), payload.Feedback, actorFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to reject application")
	}

	return utils.SendSuccess(c, "application rejected", application)
}

func (h *WorkflowHandler) delete(c *fiber.Ctx) error {
	if err := h.service.DeleteAssignment(c.Context(), c.Params("id"), actorFromContext(c)); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete assignment")
	}

	return utils.SendSuccess(c, "assignment deleted", nil)
}

func (h *WorkflowHandler) details(c *fiber.Ctx) error {
	details, err := h.service.GetAssignmentDetails(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load assignment details")
	}

	return utils.SendSuccess(c, "assignment details", details)
}

func (h *WorkflowHandler) listPending(c *fiber.Ctx) error {
	pending, err := h.service.ListPendingReviews(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list pending reviews")
	}

	return utils.SendSuccess(c, "pending reviews", pending)
}
