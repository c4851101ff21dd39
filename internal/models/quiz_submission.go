package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SubmissionReviewStatus is the advisory review state mirrored from the
// owning application's decision.
type SubmissionReviewStatus string

const (
	SubmissionPending  SubmissionReviewStatus = "pending"
	SubmissionApproved SubmissionReviewStatus = "approved"
	SubmissionRejected SubmissionReviewStatus = "rejected"
)

// QuestionRecord is the canonical per-question record of a quiz attempt.
// Historical payloads arrive with several shapes for the same concept; they
// are normalized into this form once at ingestion and never sniffed again.
type QuestionRecord struct {
	QuestionID    int      `json:"question_id"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options,omitempty"`
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Correct       bool     `json:"correct"`
	Points        float64  `json:"points"`
}

// QuizSubmission holds a student's completed quiz attempt for one
// application round. Created by the ingestion flow; the review state is an
// advisory mirror of the application decision.
type QuizSubmission struct {
	ID                  string                 `gorm:"primaryKey;size:64" json:"id"`
	ApplicationID       string                 `gorm:"size:64;not null;index" json:"application_id"`
	StudentID           string                 `gorm:"size:64;not null;index" json:"student_id"`
	InternshipID        string                 `gorm:"size:64;not null" json:"internship_id"`
	TestID              string                 `gorm:"size:64;not null" json:"test_id"`
	QuestionData        datatypes.JSON         `gorm:"type:json" json:"-"`
	Score               float64                `json:"score"`
	TotalPossiblePoints float64                `json:"total_possible_points"`
	Percentage          float64                `json:"percentage"`
	Status              SubmissionReviewStatus `gorm:"size:32;not null" json:"status"`
	Feedback            string                 `gorm:"type:text" json:"feedback"`
	SubmittedAt         time.Time              `json:"submitted_at"`
	ReviewedAt          *time.Time             `json:"reviewed_at"`
	ReviewedBy          string                 `gorm:"size:64" json:"reviewed_by"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Questions deserializes the stored question records.
func (q QuizSubmission) Questions() []QuestionRecord {
	if len(q.QuestionData) == 0 {
		return nil
	}

	var records []QuestionRecord
	if err := json.Unmarshal(q.QuestionData, &records); err != nil {
		return nil
	}

	return records
}

// SetQuestions serializes the canonical question records into the JSON
// storage column.
func (q *QuizSubmission) SetQuestions(records []QuestionRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		q.QuestionData = datatypes.JSON([]byte("[]"))
		return
	}
	q.QuestionData = datatypes.JSON(data)
}
