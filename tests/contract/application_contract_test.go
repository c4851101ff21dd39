package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/handler"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/service"
)

type stubApplicationService struct {
	response dto.ApplicationResponse
}

func (s stubApplicationService) Create(context.Context, service.ApplicationCreateRequest, service.Actor) (dto.ApplicationResponse, error) {
	return s.response, nil
}

func (s stubApplicationService) Get(context.Context, string, string) (dto.ApplicationResponse, error) {
	return s.response, nil
}

func (s stubApplicationService) ListForInternship(context.Context, string) ([]dto.ApplicationResponse, error) {
	return []dto.ApplicationResponse{s.response}, nil
}

func (s stubApplicationService) ListByStatus(context.Context, models.ApplicationStatus) ([]dto.ApplicationResponse, error) {
	return []dto.ApplicationResponse{s.response}, nil
}

func TestApplicationContract(t *testing.T) {
	schema := compileSchema(t, "application.schema.json")

	assignedAt := time.Now().Add(-time.Hour).UTC()
	application := dto.ApplicationResponse{
		ID:           "app-1",
		StudentID:    "student-1",
		InternshipID: "internship-1",
		StudentName:  "Asha Verma",
		StudentEmail: "asha@student.edu",
		Status:       "test_assigned",
		CurrentRound: 2,
		Rounds: []dto.RoundEntryResponse{
			{RoundNumber: 1, Status: "passed", Feedback: "Form approved for Round 2 quiz", EvaluatedAt: &assignedAt, EvaluatedBy: "admin-1"},
			{RoundNumber: 2, Status: "pending"},
		},
		AppliedAt: time.Now().Add(-48 * time.Hour).UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	applicationHandler := handler.NewApplicationHandler(stubApplicationService{response: application}, zerolog.Nop())

	app := fiber.New()
	applicationHandler.RegisterAdmin(app.Group("/api/v1/admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/internships/internship-1/applications/app-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
