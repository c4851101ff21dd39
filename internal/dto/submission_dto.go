package dto

import (
	"encoding/json"
	"time"

	"github.com/internbooth/placement-api/internal/models"
)

// RawAnswer is one answered question as submitted by a quiz client.
// Historical clients disagree on the answer field name, so all known
// spellings are accepted here and normalized exactly once at ingestion.
type RawAnswer struct {
	QuestionID    int             `json:"question_id"`
	Type          string          `json:"type"`
	Prompt        string          `json:"prompt"`
	Question      string          `json:"question"`
	Options       []string        `json:"options,omitempty"`
	Answer        json.RawMessage `json:"answer,omitempty"`
	UserAnswer    json.RawMessage `json:"userAnswer,omitempty"`
	UserAnswerAlt json.RawMessage `json:"user_answer,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	Points        float64         `json:"points"`
}

// SubmitQuizRequest captures a student's completed quiz attempt.
type SubmitQuizRequest struct {
	AssignmentID string      `json:"assignment_id" validate:"required"`
	Answers      []RawAnswer `json:"answers" validate:"required,min=1"`
}

// QuestionRecordResponse serializes one normalized question record.
type QuestionRecordResponse struct {
	QuestionID    int      `json:"question_id"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options,omitempty"`
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Correct       bool     `json:"correct"`
	Points        float64  `json:"points"`
}

// QuizSubmissionResponse serializes a quiz submission for API clients.
type QuizSubmissionResponse struct {
	ID                  string                   `json:"id"`
	ApplicationID       string                   `json:"application_id"`
	StudentID           string                   `json:"student_id"`
	InternshipID        string                   `json:"internship_id"`
	TestID              string                   `json:"test_id"`
	Questions           []QuestionRecordResponse `json:"questions"`
	Score               float64                  `json:"score"`
	TotalPossiblePoints float64                  `json:"total_possible_points"`
	Percentage          float64                  `json:"percentage"`
	Status              string                   `json:"status"`
	Feedback            string                   `json:"feedback,omitempty"`
	SubmittedAt         time.Time                `json:"submitted_at"`
	ReviewedAt          *time.Time               `json:"reviewed_at,omitempty"`
	ReviewedBy          string                   `json:"reviewed_by,omitempty"`
}

// NewQuizSubmissionResponse converts a model into a DTO.
func NewQuizSubmissionResponse(model models.QuizSubmission) QuizSubmissionResponse {
	records := model.Questions()
	questions := make([]QuestionRecordResponse, 0, len(records))
	for _, record := range records {
		questions = append(questions, QuestionRecordResponse{
			QuestionID:    record.QuestionID,
			Type:          record.Type,
			Prompt:        record.Prompt,
			Options:       record.Options,
			Answer:        record.Answer,
			CorrectAnswer: record.CorrectAnswer,
			Correct:       record.Correct,
			Points:        record.Points,
		})
	}

	return QuizSubmissionResponse{
		ID:                  model.ID,
		ApplicationID:       model.ApplicationID,
		StudentID:           model.StudentID,
		InternshipID:        model.InternshipID,
		TestID:              model.TestID,
		Questions:           questions,
		Score:               model.Score,
		TotalPossiblePoints: model.TotalPossiblePoints,
		Percentage:          model.Percentage,
		Status:              string(model.Status),
		Feedback:            model.Feedback,
		SubmittedAt:         model.SubmittedAt,
		ReviewedAt:          model.ReviewedAt,
		ReviewedBy:          model.ReviewedBy,
	}
}

// NewQuizSubmissionResponseSlice converts a slice of models into DTOs.
func NewQuizSubmissionResponseSlice(submissions []models.QuizSubmission) []QuizSubmissionResponse {
	responses := make([]QuizSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewQuizSubmissionResponse(submission))
	}

	return responses
}
