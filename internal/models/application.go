package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ApplicationStatus tracks where an application sits in the placement pipeline.
type ApplicationStatus string

// Pipeline statuses. The legacy aliases are accepted on read for documents
// written by earlier workflow versions but are never produced anymore.
const (
	StatusFormPending    ApplicationStatus = "form_pending"
	StatusFormSubmitted  ApplicationStatus = "form_submitted"
	StatusFormApproved   ApplicationStatus = "form_approved"
	StatusTestAssigned   ApplicationStatus = "test_assigned"
	StatusQuizCompleted  ApplicationStatus = "quiz_completed"
	StatusQuizApproved   ApplicationStatus = "quiz_approved"
	StatusQuizRejected   ApplicationStatus = "quiz_rejected"
	StatusRejectedRound1 ApplicationStatus = "rejected_round1"
	StatusSelected       ApplicationStatus = "selected"
	StatusRejected       ApplicationStatus = "rejected"

	// Legacy aliases.
	StatusPending       ApplicationStatus = "pending"
	StatusUnderReview   ApplicationStatus = "under_review"
	StatusShortlisted   ApplicationStatus = "shortlisted"
	StatusTestCompleted ApplicationStatus = "test_completed"
	StatusTestApproved  ApplicationStatus = "test_approved"
	StatusTestRejected  ApplicationStatus = "test_rejected"
)

// IsTerminal reports whether the status accepts no further workflow transitions.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusSelected, StatusRejected, StatusRejectedRound1:
		return true
	}
	return false
}

// Application records one student's candidacy for one internship and is the
// single source of truth for the pipeline stage.
type Application struct {
	ID               string            `gorm:"primaryKey;size:64" json:"id"`
	StudentID        string            `gorm:"size:64;not null;index" json:"student_id"`
	InternshipID     string            `gorm:"size:64;not null;index" json:"internship_id"`
	StudentName      string            `gorm:"size:255" json:"student_name"`
	StudentEmail     string            `gorm:"size:255" json:"student_email"`
	Status           ApplicationStatus `gorm:"size:32;not null" json:"status"`
	CurrentRound     int               `gorm:"not null;default:1" json:"current_round"`
	Rounds           datatypes.JSON    `gorm:"type:json" json:"-"`
	ResumeURL        string            `gorm:"size:512" json:"resume_url"`
	CoverLetter      string            `gorm:"type:text" json:"cover_letter"`
	TestID           string            `gorm:"size:64" json:"test_id"`
	TestAssignmentID string            `gorm:"size:64" json:"test_assignment_id"`
	QuizSubmissionID string            `gorm:"size:64" json:"quiz_submission_id"`
	QuizScore        *float64          `json:"quiz_score"`
	AppliedAt        time.Time         `json:"applied_at"`
	TestAssignedAt   *time.Time        `json:"test_assigned_at"`
	QuizCompletedAt  *time.Time        `json:"quiz_completed_at"`
	SelectedAt       *time.Time        `json:"selected_at"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// RoundList deserializes the stored round ledger. An unreadable or empty
// column yields an empty ledger rather than an error; the ledger is advisory
// history and the status column stays authoritative.
func (a Application) RoundList() RoundLedger {
	if len(a.Rounds) == 0 {
		return nil
	}

	var ledger RoundLedger
	if err := json.Unmarshal(a.Rounds, &ledger); err != nil {
		return nil
	}

	return ledger
}

// SetRounds serializes the ledger into the JSON storage column.
func (a *Application) SetRounds(ledger RoundLedger) {
	data, err := json.Marshal(ledger)
	if err != nil {
		a.Rounds = datatypes.JSON([]byte("[]"))
		return
	}
	a.Rounds = datatypes.JSON(data)
}

// CanAssignTest reports whether the application is eligible to receive a
// Round 2 quiz. Only form_approved applications qualify.
func (a Application) CanAssignTest() bool {
	return a.Status == StatusFormApproved
}

// AwaitingRound1Decision reports whether the application is pending the
// Round 1 form review.
func (a Application) AwaitingRound1Decision() bool {
	return a.Status == StatusFormSubmitted || a.Status == StatusFormPending
}

// AdvanceRound bumps the current round. The counter only ever increases.
func (a *Application) AdvanceRound(to int) {
	if to > a.CurrentRound {
		a.CurrentRound = to
	}
}

// MarkSelected moves the application to the terminal selected state. The
// selection timestamp is written exactly once.
func (a *Application) MarkSelected(at time.Time) {
	a.Status = StatusSelected
	if a.SelectedAt == nil {
		a.SelectedAt = &at
	}
}
