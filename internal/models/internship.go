package models

import (
	"time"

	"gorm.io/datatypes"
)

// Internship statuses.
const (
	InternshipStatusActive   = "active"
	InternshipStatusClosed   = "closed"
	InternshipStatusArchived = "archived"
)

// Internship is a posting students apply to. Applications are keyed under
// their internship; internship-scoped queries are the common access path.
type Internship struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	CompanyName string         `gorm:"size:255" json:"company_name"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"size:255" json:"location"`
	Duration    string         `gorm:"size:64" json:"duration"`
	Stipend     *float64       `json:"stipend"`
	Domains     datatypes.JSON `gorm:"type:json" json:"domains"`
	Skills      datatypes.JSON `gorm:"type:json" json:"skills"`
	FacultyID   string         `gorm:"size:64;index" json:"faculty_id"`
	Status      string         `gorm:"size:32;not null" json:"status"`
	Deadline    *time.Time     `json:"deadline"`
	PostedAt    time.Time      `json:"posted_at"`
	PostedBy    string         `gorm:"size:64" json:"posted_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DomainList deserializes the stored domains column.
func (i Internship) DomainList() []string {
	return decodeStringList(i.Domains)
}

// SetDomains serializes domains into the JSON storage column.
func (i *Internship) SetDomains(domains []string) {
	i.Domains = encodeStringList(domains)
}

// SkillList deserializes the stored skills column.
func (i Internship) SkillList() []string {
	return decodeStringList(i.Skills)
}

// SetSkills serializes skills into the JSON storage column.
func (i *Internship) SetSkills(skills []string) {
	i.Skills = encodeStringList(skills)
}
