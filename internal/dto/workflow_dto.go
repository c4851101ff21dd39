package dto

import (
	"time"

	"github.com/internbooth/placement-api/internal/models"
)

// AssignTestRequest captures the payload for assigning a Round 2 quiz to a
// single application.
type AssignTestRequest struct {
	InternshipID  string `json:"internship_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
	StudentID     string `json:"student_id" validate:"required"`
	TestID        string `json:"test_id" validate:"required"`
}

// BulkAssignTestRequest assigns one test to many students of an internship.
type BulkAssignTestRequest struct {
	InternshipID string   `json:"internship_id" validate:"required"`
	TestID       string   `json:"test_id" validate:"required"`
	StudentIDs   []string `json:"student_ids" validate:"required,min=1,dive,required"`
}

// BulkAssignError reports one failed student of a bulk assignment.
type BulkAssignError struct {
	StudentID string `json:"student_id"`
	Message   string `json:"message"`
}

// BulkAssignReport summarizes a bulk assignment. Failures never abort the
// remaining students.
type BulkAssignReport struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    []BulkAssignError `json:"errors,omitempty"`
}

// ApproveResultRequest captures the payload for approving a completed quiz.
type ApproveResultRequest struct {
	Feedback           string `json:"feedback"`
	AdvanceToNextRound *bool  `json:"advance_to_next_round"`
}

// Advance reports whether the approval should open the next round. Absent
// means advance.
func (r ApproveResultRequest) Advance() bool {
	return r.AdvanceToNextRound == nil || *r.AdvanceToNextRound
}

// RejectResultRequest captures the payload for rejecting a completed quiz.
type RejectResultRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// Round1DecisionRequest captures the Round 1 form review decision.
type Round1DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Feedback string `json:"feedback"`
}

// Approve reports whether the decision advances the application.
func (r Round1DecisionRequest) Approve() bool {
	return r.Decision == "approve"
}

// FinalRejectRequest captures the final rejection payload.
type FinalRejectRequest struct {
	Feedback string `json:"feedback"`
}

// RoundEntryResponse serializes one round ledger line.
type RoundEntryResponse struct {
	RoundNumber      int        `json:"round_number"`
	Status           string     `json:"status"`
	TestAssignmentID string     `json:"test_assignment_id,omitempty"`
	Feedback         string     `json:"feedback,omitempty"`
	EvaluatedAt      *time.Time `json:"evaluated_at,omitempty"`
	EvaluatedBy      string     `json:"evaluated_by,omitempty"`
}

// ApplicationResponse serializes an application for API clients.
type ApplicationResponse struct {
	ID               string               `json:"id"`
	StudentID        string               `json:"student_id"`
	InternshipID     string               `json:"internship_id"`
	StudentName      string               `json:"student_name"`
	StudentEmail     string               `json:"student_email"`
	Status           string               `json:"status"`
	CurrentRound     int                  `json:"current_round"`
	Rounds           []RoundEntryResponse `json:"rounds"`
	ResumeURL        string               `json:"resume_url,omitempty"`
	CoverLetter      string               `json:"cover_letter,omitempty"`
	TestID           string               `json:"test_id,omitempty"`
	TestAssignmentID string               `json:"test_assignment_id,omitempty"`
	QuizSubmissionID string               `json:"quiz_submission_id,omitempty"`
	QuizScore        *float64             `json:"quiz_score,omitempty"`
	AppliedAt        time.Time            `json:"applied_at"`
	TestAssignedAt   *time.Time           `json:"test_assigned_at,omitempty"`
	QuizCompletedAt  *time.Time           `json:"quiz_completed_at,omitempty"`
	SelectedAt       *time.Time           `json:"selected_at,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// NewApplicationResponse converts a model into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	ledger := model.RoundList()
	rounds := make([]RoundEntryResponse, 0, len(ledger))
	for _, entry := range ledger {
		rounds = append(rounds, RoundEntryResponse{
			RoundNumber:      entry.RoundNumber,
			Status:           string(entry.Status),
			TestAssignmentID: entry.TestAssignmentID,
			Feedback:         entry.Feedback,
			EvaluatedAt:      entry.EvaluatedAt,
			EvaluatedBy:      entry.EvaluatedBy,
		})
	}

	return ApplicationResponse{
		ID:               model.ID,
		StudentID:        model.StudentID,
		InternshipID:     model.InternshipID,
		StudentName:      model.StudentName,
		StudentEmail:     model.StudentEmail,
		Status:           string(model.Status),
		CurrentRound:     model.CurrentRound,
		Rounds:           rounds,
		ResumeURL:        model.ResumeURL,
		CoverLetter:      model.CoverLetter,
		TestID:           model.TestID,
		TestAssignmentID: model.TestAssignmentID,
		QuizSubmissionID: model.QuizSubmissionID,
		QuizScore:        model.QuizScore,
		AppliedAt:        model.AppliedAt,
		TestAssignedAt:   model.TestAssignedAt,
		QuizCompletedAt:  model.QuizCompletedAt,
		SelectedAt:       model.SelectedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewApplicationResponseSlice converts a slice of models into DTOs.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}

	return responses
}

// AssignmentResponse serializes a test assignment for API clients.
type AssignmentResponse struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"student_id"`
	InternshipID  string     `json:"internship_id"`
	TestID        string     `json:"test_id"`
	ApplicationID string     `json:"application_id"`
	Status        string     `json:"status"`
	Score         *float64   `json:"score,omitempty"`
	Feedback      string     `json:"feedback,omitempty"`
	AssignedAt    time.Time  `json:"assigned_at"`
	AssignedBy    string     `json:"assigned_by"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.TestAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            model.ID,
		StudentID:     model.StudentID,
		InternshipID:  model.InternshipID,
		TestID:        model.TestID,
		ApplicationID: model.ApplicationID,
		Status:        string(model.Status),
		Score:         model.Score,
		Feedback:      model.Feedback,
		AssignedAt:    model.AssignedAt,
		AssignedBy:    model.AssignedBy,
		StartedAt:     model.StartedAt,
		CompletedAt:   model.CompletedAt,
		ReviewedAt:    model.ReviewedAt,
		ReviewedBy:    model.ReviewedBy,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.TestAssignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// ReviewOutcome pairs the reviewed assignment with the updated application.
type ReviewOutcome struct {
	Assignment  AssignmentResponse  `json:"assignment"`
	Application ApplicationResponse `json:"application"`
}

// AssignmentDetailsResponse aggregates everything a reviewer needs for one
// assignment.
type AssignmentDetailsResponse struct {
	Assignment  AssignmentResponse  `json:"assignment"`
	Test        TestResponse        `json:"test"`
	Student     StudentResponse     `json:"student"`
	Application ApplicationResponse `json:"application"`
}
