package dto

import (
	"time"

	"github.com/internbooth/placement-api/internal/models"
)

// TestQuestionPayload is one question of a test create or update request.
type TestQuestionPayload struct {
	ID            int      `json:"id" validate:"required"`
	Type          string   `json:"type" validate:"required,oneof=mcq text"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer any      `json:"correct_answer,omitempty"`
	TimeAllowed   int      `json:"time_allowed" validate:"required,gt=0"`
}

// ToModel converts the payload into the stored question shape.
func (p TestQuestionPayload) ToModel() models.TestQuestion {
	return models.TestQuestion{
		ID:            p.ID,
		Type:          p.Type,
		Question:      p.Question,
		Options:       p.Options,
		CorrectAnswer: p.CorrectAnswer,
		TimeAllowed:   p.TimeAllowed,
	}
}

// TestCreateRequest captures the payload for creating a question bank.
type TestCreateRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	Duration    int                   `json:"duration" validate:"required,gt=0"`
	Status      string                `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Questions   []TestQuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// TestUpdateRequest captures the payload for updating a question bank.
// Nil fields are left untouched.
type TestUpdateRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Duration    *int                  `json:"duration" validate:"omitempty,gt=0"`
	Status      *string               `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Questions   []TestQuestionPayload `json:"questions" validate:"omitempty,min=1,dive"`
}

// TestQuestionResponse serializes one question of a test.
type TestQuestionResponse struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer any      `json:"correct_answer,omitempty"`
	TimeAllowed   int      `json:"time_allowed"`
}

// TestResponse serializes a test for API clients.
type TestResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Duration      int                    `json:"duration"`
	Status        string                 `json:"status"`
	QuestionCount int                    `json:"question_count"`
	Questions     []TestQuestionResponse `json:"questions"`
	CreatedAt     time.Time              `json:"created_at"`
	CreatedBy     string                 `json:"created_by"`
	UpdatedAt     time.Time              `json:"updated_at"`
	UpdatedBy     string                 `json:"updated_by,omitempty"`
}

// NewTestResponse converts a model into a DTO.
func NewTestResponse(model models.Test) TestResponse {
	bank := model.QuestionList()
	questions := make([]TestQuestionResponse, 0, len(bank))
	for _, question := range bank {
		questions = append(questions, TestQuestionResponse{
			ID:            question.ID,
			Type:          question.Type,
			Question:      question.Question,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			TimeAllowed:   question.TimeAllowed,
		})
	}

	return TestResponse{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		Duration:      model.Duration,
		Status:        model.Status,
		QuestionCount: len(questions),
		Questions:     questions,
		CreatedAt:     model.CreatedAt,
		CreatedBy:     model.CreatedBy,
		UpdatedAt:     model.UpdatedAt,
		UpdatedBy:     model.UpdatedBy,
	}
}

// NewTestResponseSlice converts a slice of models into DTOs.
func NewTestResponseSlice(tests []models.Test) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test))
	}

	return responses
}
