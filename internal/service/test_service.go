package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
)

// TestService manages reusable question banks.
type TestService interface {
	Create(ctx context.Context, payload dto.TestCreateRequest, actor Actor) (dto.TestResponse, error)
	Update(ctx context.Context, id string, payload dto.TestUpdateRequest, actor Actor) (dto.TestResponse, error)
	Get(ctx context.Context, id string) (dto.TestResponse, error)
	List(ctx context.Context) ([]dto.TestResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type testService struct {
	tests     repository.TestRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	feeds     FeedNotifier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTestService constructs the test service.
func NewTestService(tests repository.TestRepository, validate *validator.Validate, activity ActivityRecorder, feeds FeedNotifier, logger zerolog.Logger) TestService {
	return &testService{
		tests:     tests,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		feeds:     feeds,
		logger:    logger.With().Str("component", "test_service").Logger(),
		now:       time.Now,
	}
}

func (s *testService) Create(ctx context.Context, payload dto.TestCreateRequest, actor Actor) (dto.TestResponse, error) {
	if actor.UID == "" {
		return dto.TestResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	questions, err := buildQuestionBank(payload.Questions)
	if err != nil {
		return dto.TestResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.TestStatusActive
	}

	createdAt := s.now()
	test := models.Test{
		ID:          uuid.NewString(),
		Title:       s.sanitizer.Sanitize(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
		Duration:    payload.Duration,
		Status:      status,
		CreatedAt:   createdAt,
		CreatedBy:   actor.UID,
		UpdatedAt:   createdAt,
		UpdatedBy:   actor.UID,
	}
	test.SetQuestions(questions)

	if err := s.tests.Create(ctx, &test); err != nil {
		return dto.TestResponse{}, storeError(err, "test", test.ID)
	}

	s.record(ctx, actor, "test.created", test.ID, map[string]interface{}{"title": test.Title})
	s.notify(ctx)

	return dto.NewTestResponse(test), nil
}

func (s *testService) Update(ctx context.Context, id string, payload dto.TestUpdateRequest, actor Actor) (dto.TestResponse, error) {
	if actor.UID == "" {
		return dto.TestResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return dto.TestResponse{}, storeError(err, "test", id)
	}

	if payload.Title != nil {
		test.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		test.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Duration != nil {
		test.Duration = *payload.Duration
	}
	if payload.Status != nil {
		test.Status = *payload.Status
	}
	if payload.Questions != nil {
		questions, err := buildQuestionBank(payload.Questions)
		if err != nil {
			return dto.TestResponse{}, err
		}
		test.SetQuestions(questions)
	}

	test.UpdatedAt = s.now()
	test.UpdatedBy = actor.UID

	if err := s.tests.Update(ctx, &test); err != nil {
		return dto.TestResponse{}, storeError(err, "test", id)
	}

	s.record(ctx, actor, "test.updated", test.ID, nil)
	s.notify(ctx)

	return dto.NewTestResponse(test), nil
}

func (s *testService) Get(ctx context.Context, id string) (dto.TestResponse, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return dto.TestResponse{}, storeError(err, "test", id)
	}

	return dto.NewTestResponse(test), nil
}

func (s *testService) List(ctx context.Context) ([]dto.TestResponse, error) {
	tests, err := s.tests.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTestResponseSlice(tests), nil
}

func (s *testService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.UID == "" {
		return ErrAuthRequired
	}

	if _, err := s.tests.GetByID(ctx, id); err != nil {
		return storeError(err, "test", id)
	}

	if err := s.tests.Delete(ctx, id); err != nil {
		return storeError(err, "test", id)
	}

	s.record(ctx, actor, "test.deleted", id, nil)
	s.notify(ctx)

	return nil
}

// buildQuestionBank validates every question before any of them is stored.
func buildQuestionBank(payloads []dto.TestQuestionPayload) ([]models.TestQuestion, error) {
	questions := make([]models.TestQuestion, 0, len(payloads))
	seen := make(map[int]bool, len(payloads))
	for _, payload := range payloads {
		question := payload.ToModel()
		if err := question.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if seen[question.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrValidation, question.ID)
		}
		seen[question.ID] = true
		questions = append(questions, question)
	}

	return questions, nil
}

func (s *testService) record(ctx context.Context, actor Actor, action, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "test",
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func (s *testService) notify(ctx context.Context) {
	if s.feeds == nil {
		return
	}
	s.feeds.NotifyChanged(ctx, TopicTests)
}
