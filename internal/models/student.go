package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Student represents a candidate who can apply to internships.
type Student struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	UID            string         `gorm:"size:64;index" json:"uid"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Email          string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	College        string         `gorm:"size:255" json:"college"`
	Degree         string         `gorm:"size:255" json:"degree"`
	GraduationYear int            `json:"graduation_year"`
	Skills         datatypes.JSON `gorm:"type:json" json:"skills"`
	LastActiveAt   *time.Time     `json:"last_active_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SkillList deserializes the stored skills column.
func (s Student) SkillList() []string {
	return decodeStringList(s.Skills)
}

// SetSkills serializes skills into the JSON storage column.
func (s *Student) SetSkills(skills []string) {
	s.Skills = encodeStringList(skills)
}

func decodeStringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}

	return values
}

func encodeStringList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(data)
}
