package unit_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/internbooth/placement-api/internal/config"
	"github.com/internbooth/placement-api/internal/handler"
)

func TestHealthCheckReportsServiceMetadata(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/health", handler.HealthCheck(config.Config{
		AppName: "Placement API",
		AppEnv:  "test",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.True(t, payload.Success)
	require.Equal(t, "ok", payload.Data.Status)
	require.Equal(t, "Placement API", payload.Data.Service)
	require.Equal(t, "test", payload.Data.Environment)
}
