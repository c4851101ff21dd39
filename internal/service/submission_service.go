package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/observability"
	"github.com/internbooth/placement-api/internal/repository"
)

// SubmissionService ingests completed quiz attempts. Raw answer payloads are
// normalized into canonical question records exactly once here; everything
// downstream reads the canonical shape only.
type SubmissionService interface {
	SubmitQuiz(ctx context.Context, payload dto.SubmitQuizRequest, actor Actor) (dto.QuizSubmissionResponse, error)
	GetSubmission(ctx context.Context, id string) (dto.QuizSubmissionResponse, error)
	ListByStatus(ctx context.Context, status models.SubmissionReviewStatus) ([]dto.QuizSubmissionResponse, error)
}

type submissionService struct {
	uow       repository.UnitOfWork
	stores    repository.Stores
	validator *validator.Validate
	feeds     FeedNotifier
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(uow repository.UnitOfWork, stores repository.Stores, validate *validator.Validate, feeds FeedNotifier, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		uow:       uow,
		stores:    stores,
		validator: validate,
		feeds:     feeds,
		logger:    logger.With().Str("component", "submission_service").Logger(),
		tracer:    otel.Tracer("github.com/internbooth/placement-api/internal/service/submission"),
		now:       time.Now,
	}
}

func (s *submissionService) SubmitQuiz(ctx context.Context, payload dto.SubmitQuizRequest, actor Actor) (dto.QuizSubmissionResponse, error) {
	if actor.UID == "" {
		return dto.QuizSubmissionResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmissionResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, span := s.tracer.Start(ctx, "submission.submit_quiz", trace.WithAttributes(
		attribute.String("submission.assignment_id", payload.AssignmentID),
		attribute.Int("submission.answer_count", len(payload.Answers)),
	))
	defer span.End()

	assignment, err := s.stores.Assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, storeError(err, "test assignment", payload.AssignmentID)
	}

	if assignment.StudentID != actor.UID {
		return dto.QuizSubmissionResponse{}, fmt.Errorf("%w: assignment does not belong to the submitting student", ErrValidation)
	}

	if assignment.Status != models.AssignmentAssigned && assignment.Status != models.AssignmentInProgress {
		return dto.QuizSubmissionResponse{}, fmt.Errorf("%w: cannot submit a quiz for an assignment with status %q", ErrInvalidState, assignment.Status)
	}

	test, err := s.stores.Tests.GetByID(ctx, assignment.TestID)
	if err != nil {
		return dto.QuizSubmissionResponse{}, storeError(err, "test", assignment.TestID)
	}

	records := normalizeAnswers(payload.Answers, test.QuestionList())
	score, total := gradeRecords(records)
	percentage := 0.0
	if total > 0 {
		percentage = score / total * 100
	}

	submittedAt := s.now()
	submission := models.QuizSubmission{
		ID:                  uuid.NewString(),
		ApplicationID:       assignment.ApplicationID,
		StudentID:           assignment.StudentID,
		InternshipID:        assignment.InternshipID,
		TestID:              assignment.TestID,
		Score:               score,
		TotalPossiblePoints: total,
		Percentage:          percentage,
		Status:              models.SubmissionPending,
		SubmittedAt:         submittedAt,
	}
	submission.SetQuestions(records)

	answerData, _ := json.Marshal(records)

	err = s.uow.Do(ctx, func(tx repository.Stores) error {
		if err := tx.Submissions.Create(ctx, &submission); err != nil {
			return err
		}

		current, err := tx.Assignments.GetByID(ctx, assignment.ID)
		if err != nil {
			return err
		}
		current.Status = models.AssignmentCompleted
		current.CompletedAt = &submittedAt
		current.Score = &score
		current.Answers = answerData
		if err := tx.Assignments.Update(ctx, &current); err != nil {
			return err
		}

		application, err := tx.Applications.GetForInternship(ctx, assignment.InternshipID, assignment.ApplicationID)
		if err != nil {
			return err
		}
		application.Status = models.StatusQuizCompleted
		application.QuizSubmissionID = submission.ID
		application.QuizCompletedAt = &submittedAt
		application.QuizScore = &percentage

		return tx.Applications.Update(ctx, &application)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit_failed")
		return dto.QuizSubmissionResponse{}, storeError(err, "application", assignment.ApplicationID)
	}

	if s.feeds != nil {
		s.feeds.NotifyChanged(ctx, TopicApplications, TopicTestAssignments, TopicQuizSubmissions)
	}
	observability.WorkflowTransitions().WithLabelValues("quiz.completed").Inc()
	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("application_id", assignment.ApplicationID).
		Float64("score", score).
		Msg("quiz attempt ingested")

	return dto.NewQuizSubmissionResponse(submission), nil
}

func (s *submissionService) GetSubmission(ctx context.Context, id string) (dto.QuizSubmissionResponse, error) {
	submission, err := s.stores.Submissions.GetByID(ctx, id)
	if err != nil {
		return dto.QuizSubmissionResponse{}, storeError(err, "quiz submission", id)
	}

	return dto.NewQuizSubmissionResponse(submission), nil
}

func (s *submissionService) ListByStatus(ctx context.Context, status models.SubmissionReviewStatus) ([]dto.QuizSubmissionResponse, error) {
	submissions, err := s.stores.Submissions.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizSubmissionResponseSlice(submissions), nil
}

// normalizeAnswers folds the historical raw answer shapes into canonical
// question records. The question bank fills in prompts, options and correct
// answers where the client omitted them.
func normalizeAnswers(answers []dto.RawAnswer, bank []models.TestQuestion) []models.QuestionRecord {
	byID := make(map[int]models.TestQuestion, len(bank))
	for _, question := range bank {
		byID[question.ID] = question
	}

	records := make([]models.QuestionRecord, 0, len(answers))
	for _, raw := range answers {
		record := models.QuestionRecord{
			QuestionID: raw.QuestionID,
			Type:       raw.Type,
			Prompt:     raw.Prompt,
			Options:    raw.Options,
			Answer:     decodeAnswerValue(firstRaw(raw.UserAnswer, raw.UserAnswerAlt, raw.Answer)),
			Points:     raw.Points,
		}
		if record.Prompt == "" {
			record.Prompt = raw.Question
		}

		question, known := byID[raw.QuestionID]
		if known {
			if record.Type == "" {
				record.Type = question.Type
			}
			if record.Prompt == "" {
				record.Prompt = question.Question
			}
			if len(record.Options) == 0 {
				record.Options = question.Options
			}
		}

		if record.Points <= 0 {
			record.Points = 1
		}

		record.CorrectAnswer = resolveCorrectAnswer(raw, question, known)
		if record.Type == models.QuestionTypeMCQ && record.CorrectAnswer != "" {
			record.Correct = answersMatch(record.Answer, record.CorrectAnswer, record.Options)
		}

		records = append(records, record)
	}

	return records
}

// gradeRecords sums earned and possible points. Text questions count toward
// the possible total but earn nothing until an admin reviews them.
func gradeRecords(records []models.QuestionRecord) (score, total float64) {
	for _, record := range records {
		total += record.Points
		if record.Correct {
			score += record.Points
		}
	}
	return score, total
}

func firstRaw(candidates ...json.RawMessage) json.RawMessage {
	for _, candidate := range candidates {
		if len(candidate) > 0 && string(candidate) != "null" {
			return candidate
		}
	}
	return nil
}

// decodeAnswerValue renders a raw JSON answer as text. Strings, numbers and
// booleans are all legal historical answer encodings.
func decodeAnswerValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber == float64(int(asNumber)) {
			return strconv.Itoa(int(asNumber))
		}
		return strconv.FormatFloat(asNumber, 'f', -1, 64)
	}

	var asBool bool
	if err := json.Unmarshal(raw, &asBool); err == nil {
		return strconv.FormatBool(asBool)
	}

	return strings.TrimSpace(string(raw))
}

// resolveCorrectAnswer prefers the bank's stored correct answer over any
// client-supplied value. Index-encoded answers resolve to the option text.
func resolveCorrectAnswer(raw dto.RawAnswer, question models.TestQuestion, known bool) string {
	options := raw.Options
	if known && len(options) == 0 {
		options = question.Options
	}

	if known && question.CorrectAnswer != nil {
		return correctAnswerText(question.CorrectAnswer, options)
	}

	if len(raw.CorrectAnswer) > 0 {
		value := decodeAnswerValue(raw.CorrectAnswer)
		return indexToOption(value, options)
	}

	return ""
}

func correctAnswerText(answer any, options []string) string {
	switch value := answer.(type) {
	case string:
		return indexToOption(strings.TrimSpace(value), options)
	case int:
		if value >= 0 && value < len(options) {
			return options[value]
		}
	case float64:
		idx := int(value)
		if float64(idx) == value && idx >= 0 && idx < len(options) {
			return options[idx]
		}
	}
	return ""
}

// indexToOption maps a numeric answer string onto the option text when the
// value is a valid option index, else returns the value unchanged.
func indexToOption(value string, options []string) string {
	if idx, err := strconv.Atoi(value); err == nil && idx >= 0 && idx < len(options) {
		return options[idx]
	}
	return value
}

func answersMatch(answer, correct string, options []string) bool {
	answer = indexToOption(strings.TrimSpace(answer), options)
	return answer != "" && strings.EqualFold(answer, strings.TrimSpace(correct))
}
