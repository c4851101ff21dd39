package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an audit entry for an admin action on the pipeline.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"size:64;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:32" json:"entity_type"`
	EntityID   string            `gorm:"size:64" json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
