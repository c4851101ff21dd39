package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssignmentStatus tracks the lifecycle of an assigned quiz.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentApproved   AssignmentStatus = "approved"
	AssignmentRejected   AssignmentStatus = "rejected"
)

// TestAssignment links a student, a test and an application for one quiz
// round. The unique index on ApplicationID enforces the at-most-one
// assignment invariant at the store level, so a concurrent duplicate create
// fails on commit rather than relying on a read-then-act existence check.
type TestAssignment struct {
	ID            string           `gorm:"primaryKey;size:64" json:"id"`
	StudentID     string           `gorm:"size:64;not null;index" json:"student_id"`
	InternshipID  string           `gorm:"size:64;not null;index" json:"internship_id"`
	TestID        string           `gorm:"size:64;not null" json:"test_id"`
	ApplicationID string           `gorm:"size:64;not null;uniqueIndex" json:"application_id"`
	Status        AssignmentStatus `gorm:"size:32;not null" json:"status"`
	Score         *float64         `json:"score"`
	Answers       datatypes.JSON   `gorm:"type:json" json:"answers"`
	Feedback      string           `gorm:"type:text" json:"feedback"`
	AssignedAt    time.Time        `json:"assigned_at"`
	AssignedBy    string           `gorm:"size:64" json:"assigned_by"`
	StartedAt     *time.Time       `json:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at"`
	ReviewedBy    string           `gorm:"size:64" json:"reviewed_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IsReviewable reports whether the assignment can be approved or rejected.
func (t TestAssignment) IsReviewable() bool {
	return t.Status == AssignmentCompleted
}

// IsDeletable guards evaluated work against deletion.
func (t TestAssignment) IsDeletable() bool {
	return t.Status != AssignmentCompleted
}
