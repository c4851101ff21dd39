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

// FacultyService manages the faculty catalog. The internships_posted counter
// is denormalized; RefreshInternshipCount recomputes it from the postings.
type FacultyService interface {
	Create(ctx context.Context, payload dto.FacultyCreateRequest, actor Actor) (dto.FacultyResponse, error)
	Update(ctx context.Context, id string, payload dto.FacultyUpdateRequest, actor Actor) (dto.FacultyResponse, error)
	Get(ctx context.Context, id string) (dto.FacultyResponse, error)
	List(ctx context.Context) ([]dto.FacultyResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error
	RefreshInternshipCount(ctx context.Context, facultyID string) error
}

type facultyService struct {
	faculty     repository.FacultyRepository
	internships repository.InternshipRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	feeds       FeedNotifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(faculty repository.FacultyRepository, internships repository.InternshipRepository, validate *validator.Validate, activity ActivityRecorder, feeds FeedNotifier, logger zerolog.Logger) FacultyService {
	return &facultyService{
		faculty:     faculty,
		internships: internships,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		feeds:       feeds,
		logger:      logger.With().Str("component", "faculty_service").Logger(),
		now:         time.Now,
	}
}

func (s *facultyService) Create(ctx context.Context, payload dto.FacultyCreateRequest, actor Actor) (dto.FacultyResponse, error) {
	if actor.UID == "" {
		return dto.FacultyResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	status := payload.Status
	if status == "" {
		status = models.FacultyStatusActive
	}

	member := models.Faculty{
		ID:         uuid.NewString(),
		UID:        payload.UID,
		Name:       s.sanitizer.Sanitize(payload.Name),
		Email:      payload.Email,
		Department: s.sanitizer.Sanitize(payload.Department),
		Status:     status,
		CreatedBy:  actor.UID,
		UpdatedBy:  actor.UID,
	}

	if err := s.faculty.Create(ctx, &member); err != nil {
		return dto.FacultyResponse{}, storeError(err, "faculty", member.ID)
	}

	s.record(ctx, actor, "faculty.created", member.ID)
	s.notify(ctx)

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Update(ctx context.Context, id string, payload dto.FacultyUpdateRequest, actor Actor) (dto.FacultyResponse, error) {
	if actor.UID == "" {
		return dto.FacultyResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		return dto.FacultyResponse{}, storeError(err, "faculty", id)
	}

	if payload.Name != nil {
		member.Name = s.sanitizer.Sanitize(*payload.Name)
	}
	if payload.Department != nil {
		member.Department = s.sanitizer.Sanitize(*payload.Department)
	}
	if payload.Status != nil {
		member.Status = *payload.Status
	}
	member.UpdatedBy = actor.UID

	if err := s.faculty.Update(ctx, &member); err != nil {
		return dto.FacultyResponse{}, storeError(err, "faculty", id)
	}

	s.record(ctx, actor, "faculty.updated", id)
	s.notify(ctx)

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Get(ctx context.Context, id string) (dto.FacultyResponse, error) {
	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		return dto.FacultyResponse{}, storeError(err, "faculty", id)
	}

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) List(ctx context.Context) ([]dto.FacultyResponse, error) {
	members, err := s.faculty.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewFacultyResponseSlice(members), nil
}

func (s *facultyService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.UID == "" {
		return ErrAuthRequired
	}

	if _, err := s.faculty.GetByID(ctx, id); err != nil {
		return storeError(err, "faculty", id)
	}

	count, err := s.internships.CountByFaculty(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: faculty member still owns %d internship postings", ErrInvalidState, count)
	}

	if err := s.faculty.Delete(ctx, id); err != nil {
		return storeError(err, "faculty", id)
	}

	s.record(ctx, actor, "faculty.deleted", id)
	s.notify(ctx)

	return nil
}

func (s *facultyService) RefreshInternshipCount(ctx context.Context, facultyID string) error {
	count, err := s.internships.CountByFaculty(ctx, facultyID)
	if err != nil {
		return err
	}

	if err := s.faculty.SetInternshipCount(ctx, facultyID, int(count)); err != nil {
		return storeError(err, "faculty", facultyID)
	}

	return nil
}

func (s *facultyService) record(ctx context.Context, actor Actor, action, entityID string) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "faculty",
		EntityID:   entityID,
	})
}

func (s *facultyService) notify(ctx context.Context) {
	if s.feeds == nil {
		return
	}
	s.feeds.NotifyChanged(ctx, TopicFaculty)
}
