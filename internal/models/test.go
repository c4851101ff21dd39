package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// QuestionType discriminates question bank entries.
const (
	QuestionTypeMCQ  = "mcq"
	QuestionTypeText = "text"
)

// TestQuestion is one entry of a reusable question bank.
type TestQuestion struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer any      `json:"correct_answer"`
	TimeAllowed   int      `json:"time_allowed"`
}

// Validate checks the structural invariants of a single question.
func (q TestQuestion) Validate() error {
	if q.ID == 0 || q.Type == "" || q.Question == "" || q.TimeAllowed <= 0 {
		return fmt.Errorf("question %d missing id, type, question or time allowed", q.ID)
	}

	switch q.Type {
	case QuestionTypeMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("mcq question %d must have at least 2 options", q.ID)
		}
		idx, ok := correctAnswerIndex(q.CorrectAnswer)
		if !ok || idx < 0 || idx >= len(q.Options) {
			return fmt.Errorf("mcq question %d must have a valid correct answer index", q.ID)
		}
	case QuestionTypeText:
	default:
		return fmt.Errorf("question %d has unknown type %q", q.ID, q.Type)
	}

	return nil
}

// correctAnswerIndex coerces the stored correct answer to an option index.
// JSON decoding yields float64 for numeric literals.
func correctAnswerIndex(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case float64:
		if value != float64(int(value)) {
			return 0, false
		}
		return int(value), true
	default:
		return 0, false
	}
}

// Test statuses.
const (
	TestStatusActive   = "active"
	TestStatusInactive = "inactive"
	TestStatusArchived = "archived"
)

// Test is a reusable question bank assignable to applications.
type Test struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Questions   datatypes.JSON `gorm:"type:json" json:"-"`
	Duration    int            `gorm:"not null" json:"duration"`
	Status      string         `gorm:"size:32;not null" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CreatedBy   string         `gorm:"size:64" json:"created_by"`
	UpdatedAt   time.Time      `json:"updated_at"`
	UpdatedBy   string         `gorm:"size:64" json:"updated_by"`
}

// QuestionList deserializes the stored question bank.
func (t Test) QuestionList() []TestQuestion {
	if len(t.Questions) == 0 {
		return nil
	}

	var questions []TestQuestion
	if err := json.Unmarshal(t.Questions, &questions); err != nil {
		return nil
	}

	return questions
}

// SetQuestions serializes the question bank into the JSON storage column.
func (t *Test) SetQuestions(questions []TestQuestion) {
	data, err := json.Marshal(questions)
	if err != nil {
		t.Questions = datatypes.JSON([]byte("[]"))
		return
	}
	t.Questions = datatypes.JSON(data)
}
