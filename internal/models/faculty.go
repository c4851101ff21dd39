package models

import "time"

// Faculty statuses.
const (
	FacultyStatusActive   = "active"
	FacultyStatusInactive = "inactive"
)

// Faculty represents a staff member who posts and supervises internships.
// InternshipsPosted is a denormalized counter refreshed whenever a posting
// is created, reassigned or removed.
type Faculty struct {
	ID                string     `gorm:"primaryKey;size:64" json:"id"`
	UID               string     `gorm:"size:64;index" json:"uid"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	Email             string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department        string     `gorm:"size:255" json:"department"`
	Status            string     `gorm:"size:32;not null" json:"status"`
	InternshipsPosted int        `json:"internships_posted"`
	LastActiveAt      *time.Time `json:"last_active_at"`
	CreatedAt         time.Time  `json:"created_at"`
	CreatedBy         string     `gorm:"size:64" json:"created_by"`
	UpdatedAt         time.Time  `json:"updated_at"`
	UpdatedBy         string     `gorm:"size:64" json:"updated_by"`
}
