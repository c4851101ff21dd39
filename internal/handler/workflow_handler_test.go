package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/service"
)

type mockWorkflowService struct {
	lastAssign  dto.AssignTestRequest
	lastActor   service.Actor
	lastAdvance bool
	assignment  dto.AssignmentResponse
	outcome     dto.ReviewOutcome
	application dto.ApplicationResponse
	err         error
}

func (m *mockWorkflowService) AssignTest(_ context.Context, payload dto.AssignTestRequest, actor service.Actor) (dto.AssignmentResponse, error) {
	m.lastAssign = payload
	m.lastActor = actor
	if m.err != nil {
		return dto.AssignmentResponse{}, m.err
	}
	return m.assignment, nil
}

func (m *mockWorkflowService) BulkAssignTest(_ context.Context, _ dto.BulkAssignTestRequest, _ service.Actor) (dto.BulkAssignReport, error) {
	if m.err != nil {
		return dto.BulkAssignReport{}, m.err
	}
	return dto.BulkAssignReport{Succeeded: 1}, nil
}

func (m *mockWorkflowService) ApproveTestResult(_ context.Context, _ string, _ string, advance bool, _ service.Actor) (dto.ReviewOutcome, error) {
	m.lastAdvance = advance
	if m.err != nil {
		return dto.ReviewOutcome{}, m.err
	}
	return m.outcome, nil
}

func (m *mockWorkflowService) RejectTestResult(_ context.Context, _ string, _ string, _ service.Actor) (dto.ReviewOutcome, error) {
	if m.err != nil {
		return dto.ReviewOutcome{}, m.err
	}
	return m.outcome, nil
}

func (m *mockWorkflowService) DecideRound1(_ context.Context, _, _ string, _ bool, _ string, _ service.Actor) (dto.ApplicationResponse, error) {
	if m.err != nil {
		return dto.ApplicationResponse{}, m.err
	}
	return m.application, nil
}

func (m *mockWorkflowService) FinalRejectAfterRound2(_ context.Context, _, _, _ string, _ service.Actor) (dto.ApplicationResponse, error) {
	if m.err != nil {
		return dto.ApplicationResponse{}, m.err
	}
	return m.application, nil
}

func (m *mockWorkflowService) DeleteAssignment(_ context.Context, _ string, _ service.Actor) error {
	return m.err
}

func (m *mockWorkflowService) GetAssignmentDetails(_ context.Context, _ string) (dto.AssignmentDetailsResponse, error) {
	if m.err != nil {
		return dto.AssignmentDetailsResponse{}, m.err
	}
	return dto.AssignmentDetailsResponse{Assignment: m.assignment}, nil
}

func (m *mockWorkflowService) ListPendingReviews(_ context.Context) ([]dto.AssignmentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.AssignmentResponse{m.assignment}, nil
}

func newWorkflowApp(svc service.WorkflowService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/admin", func(c *fiber.Ctx) error {
		c.Locals("user_id", "admin-1")
		c.Locals("user_role", "admin")
		return c.Next()
	})
	handler.NewWorkflowHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func decodeResponse[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestWorkflowHandler_AssignSuccess(t *testing.T) {
	svc := &mockWorkflowService{assignment: dto.AssignmentResponse{ID: "assign-1", Status: "assigned"}}
	app := newWorkflowApp(svc)

	payload := dto.AssignTestRequest{
		InternshipID:  "internship-1",
		ApplicationID: "app-1",
		StudentID:     "student-1",
		TestID:        "test-1",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "test assigned", response.Message)
	require.Equal(t, "assign-1", response.Data.ID)
	require.Equal(t, payload, svc.lastAssign)
	require.Equal(t, "admin-1", svc.lastActor.UID)
}

func TestWorkflowHandler_ApproveDefaultsToAdvance(t *testing.T) {
	svc := &mockWorkflowService{outcome: dto.ReviewOutcome{Assignment: dto.AssignmentResponse{ID: "assign-1", Status: "approved"}}}
	app := newWorkflowApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/assignments/assign-1/approve", bytes.NewReader([]byte(`{"feedback":"Solid"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.True(t, svc.lastAdvance)
}

func TestWorkflowHandler_Round1DecisionValidatesVerb(t *testing.T) {
	svc := &mockWorkflowService{}
	app := newWorkflowApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/internships/internship-1/applications/app-1/round1", bytes.NewReader([]byte(`{"decision":"maybe"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestWorkflowHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "auth", err: service.ErrAuthRequired, statusCode: fiber.StatusUnauthorized},
		{name: "not found", err: service.ErrNotFound, statusCode: fiber.StatusNotFound},
		{name: "validation", err: service.ErrValidation, statusCode: fiber.StatusBadRequest},
		{name: "duplicate", err: service.ErrDuplicateAssignment, statusCode: fiber.StatusConflict},
		{name: "invalid state", err: service.ErrInvalidState, statusCode: fiber.StatusConflict},
		{name: "transient", err: service.ErrTransientStore, statusCode: fiber.StatusServiceUnavailable},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockWorkflowService{err: tc.err}
			app := newWorkflowApp(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/assignments", bytes.NewReader([]byte(`{"internship_id":"i","application_id":"a","student_id":"s","test_id":"t"}`)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
			resp.Body.Close()
		})
	}
}
