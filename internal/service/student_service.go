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

// StudentService manages the student catalog.
type StudentService interface {
	Create(ctx context.Context, payload dto.StudentCreateRequest, actor Actor) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest, actor Actor) (dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	feeds     FeedNotifier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, activity ActivityRecorder, feeds FeedNotifier, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		feeds:     feeds,
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest, actor Actor) (dto.StudentResponse, error) {
	if actor.UID == "" {
		return dto.StudentResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	student := models.Student{
		ID:             uuid.NewString(),
		UID:            payload.UID,
		Name:           s.sanitizer.Sanitize(payload.Name),
		Email:          payload.Email,
		College:        s.sanitizer.Sanitize(payload.College),
		Degree:         s.sanitizer.Sanitize(payload.Degree),
		GraduationYear: payload.GraduationYear,
	}
	student.SetSkills(payload.Skills)

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, storeError(err, "student", student.ID)
	}

	s.record(ctx, actor, "student.created", student.ID)
	s.notify(ctx)

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest, actor Actor) (dto.StudentResponse, error) {
	if actor.UID == "" {
		return dto.StudentResponse{}, ErrAuthRequired
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student", id)
	}

	if payload.Name != nil {
		student.Name = s.sanitizer.Sanitize(*payload.Name)
	}
	if payload.College != nil {
		student.College = s.sanitizer.Sanitize(*payload.College)
	}
	if payload.Degree != nil {
		student.Degree = s.sanitizer.Sanitize(*payload.Degree)
	}
	if payload.GraduationYear != nil {
		student.GraduationYear = *payload.GraduationYear
	}
	if payload.Skills != nil {
		student.SetSkills(payload.Skills)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, storeError(err, "student", id)
	}

	s.record(ctx, actor, "student.updated", id)
	s.notify(ctx)

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, "student", id)
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.UID == "" {
		return ErrAuthRequired
	}

	if _, err := s.students.GetByID(ctx, id); err != nil {
		return storeError(err, "student", id)
	}

	if err := s.students.Delete(ctx, id); err != nil {
		return storeError(err, "student", id)
	}

	s.record(ctx, actor, "student.deleted", id)
	s.notify(ctx)

	return nil
}

func (s *studentService) record(ctx context.Context, actor Actor, action, entityID string) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "student",
		EntityID:   entityID,
	})
}

func (s *studentService) notify(ctx context.Context) {
	if s.feeds == nil {
		return
	}
	s.feeds.NotifyChanged(ctx, TopicStudents)
}
