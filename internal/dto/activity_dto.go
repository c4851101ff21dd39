package dto

import (
	"time"

	"github.com/internbooth/placement-api/internal/models"
)

// ActivityResponse serializes one audit log line for API clients.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorRole  string                 `json:"actor_role,omitempty"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// NewActivityResponseSlice converts a slice of models into DTOs.
func NewActivityResponseSlice(entries []models.ActivityLog) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityResponse(entry))
	}

	return responses
}
