package dto

import (
	"time"

	"github.com/internbooth/placement-api/internal/models"
)

// StudentCreateRequest captures the payload for registering a student.
type StudentCreateRequest struct {
	UID            string   `json:"uid"`
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	College        string   `json:"college"`
	Degree         string   `json:"degree"`
	GraduationYear int      `json:"graduation_year"`
	Skills         []string `json:"skills"`
}

// StudentUpdateRequest captures a partial student update.
type StudentUpdateRequest struct {
	Name           *string  `json:"name"`
	College        *string  `json:"college"`
	Degree         *string  `json:"degree"`
	GraduationYear *int     `json:"graduation_year"`
	Skills         []string `json:"skills"`
}

// StudentResponse serializes a student for API clients.
type StudentResponse struct {
	ID             string     `json:"id"`
	UID            string     `json:"uid,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	College        string     `json:"college,omitempty"`
	Degree         string     `json:"degree,omitempty"`
	GraduationYear int        `json:"graduation_year,omitempty"`
	Skills         []string   `json:"skills"`
	LastActiveAt   *time.Time `json:"last_active_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:             model.ID,
		UID:            model.UID,
		Name:           model.Name,
		Email:          model.Email,
		College:        model.College,
		Degree:         model.Degree,
		GraduationYear: model.GraduationYear,
		Skills:         model.SkillList(),
		LastActiveAt:   model.LastActiveAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}

// FacultyCreateRequest captures the payload for registering a faculty member.
type FacultyCreateRequest struct {
	UID        string `json:"uid"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// FacultyUpdateRequest captures a partial faculty update.
type FacultyUpdateRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// FacultyResponse serializes a faculty member for API clients.
type FacultyResponse struct {
	ID                string     `json:"id"`
	UID               string     `json:"uid,omitempty"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Department        string     `json:"department,omitempty"`
	Status            string     `json:"status"`
	InternshipsPosted int        `json:"internships_posted"`
	LastActiveAt      *time.Time `json:"last_active_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewFacultyResponse converts a model into a DTO.
func NewFacultyResponse(model models.Faculty) FacultyResponse {
	return FacultyResponse{
		ID:                model.ID,
		UID:               model.UID,
		Name:              model.Name,
		Email:             model.Email,
		Department:        model.Department,
		Status:            model.Status,
		InternshipsPosted: model.InternshipsPosted,
		LastActiveAt:      model.LastActiveAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// NewFacultyResponseSlice converts a slice of models into DTOs.
func NewFacultyResponseSlice(faculty []models.Faculty) []FacultyResponse {
	responses := make([]FacultyResponse, 0, len(faculty))
	for _, member := range faculty {
		responses = append(responses, NewFacultyResponse(member))
	}

	return responses
}

// InternshipCreateRequest captures the payload for posting an internship.
type InternshipCreateRequest struct {
	Title       string     `json:"title" validate:"required"`
	CompanyName string     `json:"company_name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Duration    string     `json:"duration"`
	Stipend     *float64   `json:"stipend"`
	Domains     []string   `json:"domains"`
	Skills      []string   `json:"skills"`
	FacultyID   string     `json:"faculty_id" validate:"required"`
	Deadline    *time.Time `json:"deadline"`
}

// InternshipUpdateRequest captures a partial internship update.
type InternshipUpdateRequest struct {
	Title       *string    `json:"title"`
	CompanyName *string    `json:"company_name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Duration    *string    `json:"duration"`
	Stipend     *float64   `json:"stipend"`
	Domains     []string   `json:"domains"`
	Skills      []string   `json:"skills"`
	FacultyID   *string    `json:"faculty_id"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active closed archived"`
	Deadline    *time.Time `json:"deadline"`
}

// InternshipResponse serializes an internship for API clients. FacultyName
// is resolved from the owning faculty record when available.
type InternshipResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CompanyName string     `json:"company_name,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Stipend     *float64   `json:"stipend,omitempty"`
	Domains     []string   `json:"domains"`
	Skills      []string   `json:"skills"`
	FacultyID   string     `json:"faculty_id"`
	FacultyName string     `json:"faculty_name,omitempty"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	PostedAt    time.Time  `json:"posted_at"`
	PostedBy    string     `json:"posted_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewInternshipResponse converts a model into a DTO.
func NewInternshipResponse(model models.Internship) InternshipResponse {
	return InternshipResponse{
		ID:          model.ID,
		Title:       model.Title,
		CompanyName: model.CompanyName,
		Description: model.Description,
		Location:    model.Location,
		Duration:    model.Duration,
		Stipend:     model.Stipend,
		Domains:     model.DomainList(),
		Skills:      model.SkillList(),
		FacultyID:   model.FacultyID,
		Status:      model.Status,
		Deadline:    model.Deadline,
		PostedAt:    model.PostedAt,
		PostedBy:    model.PostedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewInternshipResponseSlice converts a slice of models into DTOs.
func NewInternshipResponseSlice(internships []models.Internship) []InternshipResponse {
	responses := make([]InternshipResponse, 0, len(internships))
	for _, internship := range internships {
		responses = append(responses, NewInternshipResponse(internship))
	}

	return responses
}
