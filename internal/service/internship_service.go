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

// InternshipService manages internship postings. Responses carry the owning
// faculty member's name resolved at read time.
type InternshipService interface {
	Create(ctx context.Context, payload dto.InternshipCreateRequest, actor Actor) (dto.InternshipResponse, error)
	Update(ctx context.Context, id string, payload dto.InternshipUpdateRequest, actor Actor) (dto.InternshipResponse, error)
	Get(ctx context.Context, id string) (dto.InternshipResponse, error)
	List(ctx context.Context) ([]dto.InternshipResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type internshipService struct {
	internships repository.InternshipRepository
	faculty     repository.FacultyRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	feeds       FeedNotifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewInternshipService constructs the internship service.
func NewInternshipService(internships repository.InternshipRepository, faculty repository.FacultyRepository, validate *validator.Validate, activity ActivityRecorder, feeds FeedNotifier, logger zerolog.Logger) InternshipService {
	return &internshipService{
		internships: internships,
		faculty:     faculty,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		feeds:       feeds,
		logger:      logger.With().Str("component", "internship_service").Logger(),
		now:         time.Now,
	}
}

func (s *internshipService) Create(ctx context.Context, payload dto.InternshipCreateRequest, actor Actor) (dto.InternshipResponse, error) {
	if actor.UID == "" {
		return dto.InternshipResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.InternshipResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	owner, err := s.faculty.GetByID(ctx, payload.FacultyID)
	if err != nil {
		return dto.InternshipResponse{}, storeError(err, "faculty", payload.FacultyID)
	}

	internship := models.Internship{
		ID:          uuid.NewString(),
		Title:       s.sanitizer.Sanitize(payload.Title),
		CompanyName: s.sanitizer.Sanitize(payload.CompanyName),
		Description: s.sanitizer.Sanitize(payload.Description),
		Location:    s.sanitizer.Sanitize(payload.Location),
		Duration:    payload.Duration,
		Stipend:     payload.Stipend,
		FacultyID:   owner.ID,
		Status:      models.InternshipStatusActive,
		Deadline:    payload.Deadline,
		PostedAt:    s.now(),
		PostedBy:    actor.UID,
	}
	internship.SetDomains(payload.Domains)
	internship.SetSkills(payload.Skills)

	if err := s.internships.Create(ctx, &internship); err != nil {
		return dto.InternshipResponse{}, storeError(err, "internship", internship.ID)
	}

	s.refreshOwnerCount(ctx, owner.ID)
	s.record(ctx, actor, "internship.created", internship.ID)
	s.notify(ctx)

	response := dto.NewInternshipResponse(internship)
	response.FacultyName = owner.Name

	return response, nil
}

func (s *internshipService) Update(ctx context.Context, id string, payload dto.InternshipUpdateRequest, actor Actor) (dto.InternshipResponse, error) {
	if actor.UID == "" {
		return dto.InternshipResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.InternshipResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return dto.InternshipResponse{}, storeError(err, "internship", id)
	}

	previousOwner := internship.FacultyID

	if payload.Title != nil {
		internship.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.CompanyName != nil {
		internship.CompanyName = s.sanitizer.Sanitize(*payload.CompanyName)
	}
	if payload.Description != nil {
		internship.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Location != nil {
		internship.Location = s.sanitizer.Sanitize(*payload.Location)
	}
	if payload.Duration != nil {
		internship.Duration = *payload.Duration
	}
	if payload.Stipend != nil {
		internship.Stipend = payload.Stipend
	}
	if payload.Domains != nil {
		internship.SetDomains(payload.Domains)
	}
	if payload.Skills != nil {
		internship.SetSkills(payload.Skills)
	}
	if payload.Status != nil {
		internship.Status = *payload.Status
	}
	if payload.Deadline != nil {
		internship.Deadline = payload.Deadline
	}
	if payload.FacultyID != nil && *payload.FacultyID != internship.FacultyID {
		owner, err := s.faculty.GetByID(ctx, *payload.FacultyID)
		if err != nil {
			return dto.InternshipResponse{}, storeError(err, "faculty", *payload.FacultyID)
		}
		internship.FacultyID = owner.ID
	}

	if err := s.internships.Update(ctx, &internship); err != nil {
		return dto.InternshipResponse{}, storeError(err, "internship", id)
	}

	s.refreshOwnerCount(ctx, internship.FacultyID)
	if previousOwner != internship.FacultyID {
		s.refreshOwnerCount(ctx, previousOwner)
	}
	s.record(ctx, actor, "internship.updated", id)
	s.notify(ctx)

	return s.withFacultyName(ctx, internship), nil
}

func (s *internshipService) Get(ctx context.Context, id string) (dto.InternshipResponse, error) {
	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return dto.InternshipResponse{}, storeError(err, "internship", id)
	}

	return s.withFacultyName(ctx, internship), nil
}

func (s *internshipService) List(ctx context.Context) ([]dto.InternshipResponse, error) {
	internships, err := s.internships.List(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve owner names in one pass over the faculty catalog instead of a
	// lookup per posting.
	members, err := s.faculty.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.ID] = member.Name
	}

	responses := make([]dto.InternshipResponse, 0, len(internships))
	for _, internship := range internships {
		response := dto.NewInternshipResponse(internship)
		response.FacultyName = names[internship.FacultyID]
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *internshipService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.UID == "" {
		return ErrAuthRequired
	}

	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "internship", id)
	}

	if err := s.internships.Delete(ctx, id); err != nil {
		return storeError(err, "internship", id)
	}

	s.refreshOwnerCount(ctx, internship.FacultyID)
	s.record(ctx, actor, "internship.deleted", id)
	s.notify(ctx)

	return nil
}

func (s *internshipService) withFacultyName(ctx context.Context, internship models.Internship) dto.InternshipResponse {
	response := dto.NewInternshipResponse(internship)
	if internship.FacultyID == "" {
		return response
	}

	owner, err := s.faculty.GetByID(ctx, internship.FacultyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("faculty_id", internship.FacultyID).Msg("failed to resolve internship owner")
		return response
	}
	response.FacultyName = owner.Name

	return response
}

// refreshOwnerCount recomputes the denormalized counter. The counter is
// display state; a refresh failure is logged and never fails the operation.
func (s *internshipService) refreshOwnerCount(ctx context.Context, facultyID string) {
	if facultyID == "" {
		return
	}

	count, err := s.internships.CountByFaculty(ctx, facultyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("faculty_id", facultyID).Msg("failed to count internships for owner")
		return
	}

	if err := s.faculty.SetInternshipCount(ctx, facultyID, int(count)); err != nil {
		s.logger.Warn().Err(err).Str("faculty_id", facultyID).Msg("failed to refresh internships_posted counter")
	}
}

func (s *internshipService) record(ctx context.Context, actor Actor, action, entityID string) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "internship",
		EntityID:   entityID,
	})
}

func (s *internshipService) notify(ctx context.Context) {
	if s.feeds == nil {
		return
	}
	s.feeds.NotifyChanged(ctx, TopicInternships)
}
