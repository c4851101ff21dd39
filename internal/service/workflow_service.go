package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/observability"
	"github.com/internbooth/placement-api/internal/repository"
)

// Feed topics published when pipeline documents change.
const (
	TopicApplications    = "applications"
	TopicTestAssignments = "testAssignments"
	TopicQuizSubmissions = "quizSubmissions"
	TopicStudents        = "students"
	TopicFaculty         = "faculty"
	TopicInternships     = "internships"
	TopicTests           = "tests"
)

// FeedNotifier pushes collection-changed events to live feed subscribers.
type FeedNotifier interface {
	NotifyChanged(ctx context.Context, topics ...string)
}

// WorkflowService drives the application round-advancement state machine:
// assigning Round 2 quizzes, reviewing completed attempts and recording
// round decisions. All status-changing operations, round 1 included, run
// through one transactional protocol so the Application and TestAssignment
// writes commit together or not at all.
type WorkflowService interface {
	AssignTest(ctx context.Context, payload dto.AssignTestRequest, actor Actor) (dto.AssignmentResponse, error)
	BulkAssignTest(ctx context.Context, payload dto.BulkAssignTestRequest, actor Actor) (dto.BulkAssignReport, error)
	ApproveTestResult(ctx context.Context, assignmentID, feedback string, advanceToNextRound bool, actor Actor) (dto.ReviewOutcome, error)
	RejectTestResult(ctx context.Context, assignmentID, feedback string, actor Actor) (dto.ReviewOutcome, error)
	DecideRound1(ctx context.Context, internshipID, applicationID string, approve bool, feedback string, actor Actor) (dto.ApplicationResponse, error)
	FinalRejectAfterRound2(ctx context.Context, internshipID, applicationID, feedback string, actor Actor) (dto.ApplicationResponse, error)
	DeleteAssignment(ctx context.Context, assignmentID string, actor Actor) error
	GetAssignmentDetails(ctx context.Context, assignmentID string) (dto.AssignmentDetailsResponse, error)
	ListPendingReviews(ctx context.Context) ([]dto.AssignmentResponse, error)
}

type workflowService struct {
	uow       repository.UnitOfWork
	stores    repository.Stores
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	feeds     FeedNotifier
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewWorkflowService constructs the workflow service.
func NewWorkflowService(uow repository.UnitOfWork, stores repository.Stores, validate *validator.Validate, activity ActivityRecorder, feeds FeedNotifier, logger zerolog.Logger) WorkflowService {
	return &workflowService{
		uow:       uow,
		stores:    stores,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		feeds:     feeds,
		logger:    logger.With().Str("component", "workflow_service").Logger(),
		tracer:    otel.Tracer("github.com/internbooth/placement-api/internal/service/workflow"),
		now:       time.Now,
	}
}

// storeError maps persistence failures onto the service error taxonomy.
func storeError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateAssignment
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTransientStore, err)
	default:
		return err
	}
}

func (s *workflowService) cleanFeedback(feedback string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(feedback))
}

func (s *workflowService) AssignTest(ctx context.Context, payload dto.AssignTestRequest, actor Actor) (dto.AssignmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.assign_test", trace.WithAttributes(
		attribute.String("workflow.application_id", payload.ApplicationID),
		attribute.String("workflow.test_id", payload.TestID),
	))
	defer span.End()

	assignment, err := s.assignTest(ctx, payload, actor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assign_failed")
		return dto.AssignmentResponse{}, err
	}

	s.recordActivity(ctx, actor, "test.assigned", "test_assignment", assignment.ID, map[string]interface{}{
		"application_id": payload.ApplicationID,
		"student_id":     payload.StudentID,
		"test_id":        payload.TestID,
	})
	s.notify(ctx, TopicApplications, TopicTestAssignments)
	observability.WorkflowTransitions().WithLabelValues("test.assigned").Inc()

	return dto.NewAssignmentResponse(assignment), nil
}

// assignTest validates the preconditions and performs the atomic dual write.
// Shared by the single and bulk entry points.
func (s *workflowService) assignTest(ctx context.Context, payload dto.AssignTestRequest, actor Actor) (models.TestAssignment, error) {
	if actor.UID == "" {
		return models.TestAssignment{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return models.TestAssignment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	application, err := s.stores.Applications.GetForInternship(ctx, payload.InternshipID, payload.ApplicationID)
	if err != nil {
		return models.TestAssignment{}, storeError(err, "application", payload.ApplicationID)
	}

	if !application.CanAssignTest() {
		return models.TestAssignment{}, fmt.Errorf("%w: cannot assign test to application with status %q; application must be form_approved to proceed to the Round 2 quiz", ErrInvalidState, application.Status)
	}

	if application.StudentID != payload.StudentID {
		return models.TestAssignment{}, fmt.Errorf("%w: student id in application does not match the provided student id", ErrValidation)
	}

	if application.InternshipID != payload.InternshipID {
		return models.TestAssignment{}, fmt.Errorf("%w: internship id in application does not match the provided internship id", ErrValidation)
	}

	if _, err := s.stores.Tests.GetByID(ctx, payload.TestID); err != nil {
		return models.TestAssignment{}, storeError(err, "test", payload.TestID)
	}

	if _, err := s.stores.Students.GetByID(ctx, payload.StudentID); err != nil {
		return models.TestAssignment{}, storeError(err, "student", payload.StudentID)
	}

	if _, err := s.stores.Internships.GetByID(ctx, payload.InternshipID); err != nil {
		return models.TestAssignment{}, storeError(err, "internship", payload.InternshipID)
	}

	// Fail fast on an obvious duplicate. The unique index on application_id
	// still catches the race where two admins assign concurrently.
	if _, err := s.stores.Assignments.FindByApplication(ctx, payload.ApplicationID); err == nil {
		return models.TestAssignment{}, ErrDuplicateAssignment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TestAssignment{}, storeError(err, "test assignment", payload.ApplicationID)
	}

	assignedAt := s.now()
	assignment := models.TestAssignment{
		ID:            uuid.NewString(),
		StudentID:     payload.StudentID,
		InternshipID:  payload.InternshipID,
		TestID:        payload.TestID,
		ApplicationID: payload.ApplicationID,
		Status:        models.AssignmentAssigned,
		AssignedAt:    assignedAt,
		AssignedBy:    actor.UID,
	}

	err = s.uow.Do(ctx, func(tx repository.Stores) error {
		if err := tx.Assignments.Create(ctx, &assignment); err != nil {
			return err
		}

		current, err := tx.Applications.GetForInternship(ctx, payload.InternshipID, payload.ApplicationID)
		if err != nil {
			return err
		}

		current.Status = models.StatusTestAssigned
		current.AdvanceRound(2)
		current.TestAssignmentID = assignment.ID
		current.TestID = payload.TestID
		current.TestAssignedAt = &assignedAt
		current.SetRounds(current.RoundList().Upsert(1, models.RoundPassed, "Form approved for Round 2 quiz", actor.UID, assignedAt))

		return tx.Applications.Update(ctx, &current)
	})
	if err != nil {
		return models.TestAssignment{}, storeError(err, "application", payload.ApplicationID)
	}

	return assignment, nil
}

func (s *workflowService) BulkAssignTest(ctx context.Context, payload dto.BulkAssignTestRequest, actor Actor) (dto.BulkAssignReport, error) {
	if actor.UID == "" {
		return dto.BulkAssignReport{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.BulkAssignReport{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, span := s.tracer.Start(ctx, "workflow.bulk_assign_test", trace.WithAttributes(
		attribute.String("workflow.internship_id", payload.InternshipID),
		attribute.Int("workflow.student_count", len(payload.StudentIDs)),
	))
	defer span.End()

	// Students are processed independently: one failure is recorded without
	// aborting the others, trading cross-student atomicity for a partial
	// success report.
	report := dto.BulkAssignReport{}
	for _, studentID := range payload.StudentIDs {
		application, err := s.stores.Applications.GetByStudentAndInternship(ctx, studentID, payload.InternshipID)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.BulkAssignError{
				StudentID: studentID,
				Message:   fmt.Sprintf("no application found for student %s in the selected internship", studentID),
			})
			continue
		}

		_, err = s.assignTest(ctx, dto.AssignTestRequest{
			InternshipID:  payload.InternshipID,
			ApplicationID: application.ID,
			StudentID:     studentID,
			TestID:        payload.TestID,
		}, actor)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.BulkAssignError{StudentID: studentID, Message: err.Error()})
			continue
		}

		report.Succeeded++
	}

	if report.Succeeded > 0 {
		s.recordActivity(ctx, actor, "test.bulk_assigned", "internship", payload.InternshipID, map[string]interface{}{
			"test_id":   payload.TestID,
			"succeeded": report.Succeeded,
			"failed":    report.Failed,
		})
		s.notify(ctx, TopicApplications, TopicTestAssignments)
		observability.WorkflowTransitions().WithLabelValues("test.assigned").Add(float64(report.Succeeded))
	}

	return report, nil
}

func (s *workflowService) ApproveTestResult(ctx context.Context, assignmentID, feedback string, advanceToNextRound bool, actor Actor) (dto.ReviewOutcome, error) {
	if actor.UID == "" {
		return dto.ReviewOutcome{}, ErrAuthRequired
	}

	ctx, span := s.tracer.Start(ctx, "workflow.approve_result", trace.WithAttributes(
		attribute.String("workflow.assignment_id", assignmentID),
		attribute.Bool("workflow.advance", advanceToNextRound),
	))
	defer span.End()

	feedback = s.cleanFeedback(feedback)
	reviewedAt := s.now()

	var (
		assignment  models.TestAssignment
		application models.Application
	)

	err := s.uow.Do(ctx, func(tx repository.Stores) error {
		var err error
		assignment, err = tx.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}

		if !assignment.IsReviewable() {
			return fmt.Errorf("%w: cannot approve test with status %q", ErrInvalidState, assignment.Status)
		}

		application, err = tx.Applications.GetForInternship(ctx, assignment.InternshipID, assignment.ApplicationID)
		if err != nil {
			return err
		}

		assignment.Status = models.AssignmentApproved
		assignment.Feedback = feedback
		assignment.ReviewedAt = &reviewedAt
		assignment.ReviewedBy = actor.UID
		if err := tx.Assignments.Update(ctx, &assignment); err != nil {
			return err
		}

		round := application.CurrentRound
		if round < 1 {
			round = 1
		}

		ledger := application.RoundList().Upsert(round, models.RoundPassed, feedback, actor.UID, reviewedAt)
		if advanceToNextRound {
			application.Status = models.StatusQuizApproved
			application.AdvanceRound(round + 1)
			ledger = ledger.AppendPending(round + 1)
		} else {
			application.MarkSelected(reviewedAt)
		}
		application.SetRounds(ledger)

		return tx.Applications.Update(ctx, &application)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approve_failed")
		return dto.ReviewOutcome{}, storeError(err, "test assignment", assignmentID)
	}

	s.mirrorSubmissionReview(ctx, application, models.SubmissionApproved, feedback, actor, reviewedAt)
	s.recordActivity(ctx, actor, "result.approved", "test_assignment", assignment.ID, map[string]interface{}{
		"application_id": application.ID,
		"advance":        advanceToNextRound,
	})
	s.notify(ctx, TopicApplications, TopicTestAssignments)
	observability.WorkflowTransitions().WithLabelValues("result.approved").Inc()

	return dto.ReviewOutcome{
		Assignment:  dto.NewAssignmentResponse(assignment),
		Application: dto.NewApplicationResponse(application),
	}, nil
}

func (s *workflowService) RejectTestResult(ctx context.Context, assignmentID, feedback string, actor Actor) (dto.ReviewOutcome, error) {
	if actor.UID == "" {
		return dto.ReviewOutcome{}, ErrAuthRequired
	}

	feedback = s.cleanFeedback(feedback)
	if feedback == "" {
		return dto.ReviewOutcome{}, fmt.Errorf("%w: feedback is required when rejecting a test", ErrValidation)
	}

	ctx, span := s.tracer.Start(ctx, "workflow.reject_result", trace.WithAttributes(
		attribute.String("workflow.assignment_id", assignmentID),
	))
	defer span.End()

	reviewedAt := s.now()

	var (
		assignment  models.TestAssignment
		application models.Application
	)

	err := s.uow.Do(ctx, func(tx repository.Stores) error {
		var err error
		assignment, err = tx.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}

		if !assignment.IsReviewable() {
			return fmt.Errorf("%w: cannot reject test with status %q", ErrInvalidState, assignment.Status)
		}

		application, err = tx.Applications.GetForInternship(ctx, assignment.InternshipID, assignment.ApplicationID)
		if err != nil {
			return err
		}

		assignment.Status = models.AssignmentRejected
		assignment.Feedback = feedback
		assignment.ReviewedAt = &reviewedAt
		assignment.ReviewedBy = actor.UID
		if err := tx.Assignments.Update(ctx, &assignment); err != nil {
			return err
		}

		round := application.CurrentRound
		if round < 1 {
			round = 1
		}

		application.Status = models.StatusQuizRejected
		application.SetRounds(application.RoundList().Upsert(round, models.RoundFailed, feedback, actor.UID, reviewedAt))

		return tx.Applications.Update(ctx, &application)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reject_failed")
		return dto.ReviewOutcome{}, storeError(err, "test assignment", assignmentID)
	}

	s.mirrorSubmissionReview(ctx, application, models.SubmissionRejected, feedback, actor, reviewedAt)
	s.recordActivity(ctx, actor, "result.rejected", "test_assignment", assignment.ID, map[string]interface{}{
		"application_id": application.ID,
	})
	s.notify(ctx, TopicApplications, TopicTestAssignments)
	observability.WorkflowTransitions().WithLabelValues("result.rejected").Inc()

	return dto.ReviewOutcome{
		Assignment:  dto.NewAssignmentResponse(assignment),
		Application: dto.NewApplicationResponse(application),
	}, nil
}

func (s *workflowService) DecideRound1(ctx context.Context, internshipID, applicationID string, approve bool, feedback string, actor Actor) (dto.ApplicationResponse, error) {
	if actor.UID == "" {
		return dto.ApplicationResponse{}, ErrAuthRequired
	}

	ctx, span := s.tracer.Start(ctx, "workflow.decide_round1", trace.WithAttributes(
		attribute.String("workflow.application_id", applicationID),
		attribute.Bool("workflow.approve", approve),
	))
	defer span.End()

	feedback = s.cleanFeedback(feedback)
	if !approve && feedback == "" {
		return dto.ApplicationResponse{}, fmt.Errorf("%w: feedback is required when rejecting an application", ErrValidation)
	}

	decidedAt := s.now()

	var application models.Application
	err := s.uow.Do(ctx, func(tx repository.Stores) error {
		var err error
		application, err = tx.Applications.GetForInternship(ctx, internshipID, applicationID)
		if err != nil {
			return err
		}

		if !application.AwaitingRound1Decision() {
			return fmt.Errorf("%w: cannot decide round 1 for application with status %q", ErrInvalidState, application.Status)
		}

		if approve {
			application.Status = models.StatusFormApproved
			application.AdvanceRound(2)
			application.SetRounds(application.RoundList().Upsert(1, models.RoundPassed, feedback, actor.UID, decidedAt))
		} else {
			application.Status = models.StatusRejectedRound1
			application.SetRounds(application.RoundList().Upsert(1, models.RoundFailed, feedback, actor.UID, decidedAt))
		}

		return tx.Applications.Update(ctx, &application)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "round1_decision_failed")
		return dto.ApplicationResponse{}, storeError(err, "application", applicationID)
	}

	s.recordActivity(ctx, actor, "round1.decided", "application", application.ID, map[string]interface{}{
		"approved": approve,
	})
	s.notify(ctx, TopicApplications)
	observability.WorkflowTransitions().WithLabelValues("round1.decided").Inc()

	return dto.NewApplicationResponse(application), nil
}

func (s *workflowService) FinalRejectAfterRound2(ctx context.Context, internshipID, applicationID, feedback string, actor Actor) (dto.ApplicationResponse, error) {
	if actor.UID == "" {
		return dto.ApplicationResponse{}, ErrAuthRequired
	}

	ctx, span := s.tracer.Start(ctx, "workflow.final_reject", trace.WithAttributes(
		attribute.String("workflow.application_id", applicationID),
	))
	defer span.End()

	feedback = s.cleanFeedback(feedback)
	rejectedAt := s.now()

	var application models.Application
	err := s.uow.Do(ctx, func(tx repository.Stores) error {
		var err error
		application, err = tx.Applications.GetForInternship(ctx, internshipID, applicationID)
		if err != nil {
			return err
		}

		if application.Status.IsTerminal() {
			return fmt.Errorf("%w: application with status %q accepts no further decisions", ErrInvalidState, application.Status)
		}

		application.Status = models.StatusRejected
		application.SetRounds(application.RoundList().Upsert(2, models.RoundFailed, feedback, actor.UID, rejectedAt))

		return tx.Applications.Update(ctx, &application)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "final_reject_failed")
		return dto.ApplicationResponse{}, storeError(err, "application", applicationID)
	}

	s.mirrorSubmissionReview(ctx, application, models.SubmissionRejected, feedback, actor, rejectedAt)
	s.recordActivity(ctx, actor, "final.rejected", "application", application.ID, nil)
	s.notify(ctx, TopicApplications)
	observability.WorkflowTransitions().WithLabelValues("final.rejected").Inc()

	return dto.NewApplicationResponse(application), nil
}

func (s *workflowService) DeleteAssignment(ctx context.Context, assignmentID string, actor Actor) error {
	if actor.UID == "" {
		return ErrAuthRequired
	}

	assignment, err := s.stores.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return storeError(err, "test assignment", assignmentID)
	}

	if !assignment.IsDeletable() {
		return fmt.Errorf("%w: cannot delete a completed test assignment", ErrInvalidState)
	}

	if err := s.stores.Assignments.Delete(ctx, assignmentID); err != nil {
		return storeError(err, "test assignment", assignmentID)
	}

	s.recordActivity(ctx, actor, "assignment.deleted", "test_assignment", assignmentID, nil)
	s.notify(ctx, TopicTestAssignments)

	return nil
}

func (s *workflowService) GetAssignmentDetails(ctx context.Context, assignmentID string) (dto.AssignmentDetailsResponse, error) {
	assignment, err := s.stores.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentDetailsResponse{}, storeError(err, "test assignment", assignmentID)
	}

	test, err := s.stores.Tests.GetByID(ctx, assignment.TestID)
	if err != nil {
		return dto.AssignmentDetailsResponse{}, storeError(err, "test", assignment.TestID)
	}

	student, err := s.stores.Students.GetByID(ctx, assignment.StudentID)
	if err != nil {
		return dto.AssignmentDetailsResponse{}, storeError(err, "student", assignment.StudentID)
	}

	application, err := s.stores.Applications.GetForInternship(ctx, assignment.InternshipID, assignment.ApplicationID)
	if err != nil {
		return dto.AssignmentDetailsResponse{}, storeError(err, "application", assignment.ApplicationID)
	}

	return dto.AssignmentDetailsResponse{
		Assignment:  dto.NewAssignmentResponse(assignment),
		Test:        dto.NewTestResponse(test),
		Student:     dto.NewStudentResponse(student),
		Application: dto.NewApplicationResponse(application),
	}, nil
}

func (s *workflowService) ListPendingReviews(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.stores.Assignments.ListByStatus(ctx, models.AssignmentCompleted)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

// mirrorSubmissionReview reflects the review outcome onto the linked quiz
// submission. The mirror is advisory display state; a failure here is logged
// and never rolls back the committed Application/TestAssignment pair.
func (s *workflowService) mirrorSubmissionReview(ctx context.Context, application models.Application, status models.SubmissionReviewStatus, feedback string, actor Actor, at time.Time) {
	if application.QuizSubmissionID == "" {
		s.logger.Debug().Str("application_id", application.ID).Msg("no quiz submission linked, skipping review mirror")
		return
	}

	submission, err := s.stores.Submissions.GetByID(ctx, application.QuizSubmissionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("submission_id", application.QuizSubmissionID).Msg("failed to load quiz submission for review mirror")
		return
	}

	submission.Status = status
	submission.Feedback = feedback
	submission.ReviewedAt = &at
	submission.ReviewedBy = actor.UID

	if err := s.stores.Submissions.Update(ctx, &submission); err != nil {
		s.logger.Warn().Err(err).Str("submission_id", submission.ID).Msg("failed to mirror review onto quiz submission")
		return
	}

	s.notify(ctx, TopicQuizSubmissions)
}

func (s *workflowService) recordActivity(ctx context.Context, actor Actor, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func (s *workflowService) notify(ctx context.Context, topics ...string) {
	if s.feeds == nil {
		return
	}
	s.feeds.NotifyChanged(ctx, topics...)
}
