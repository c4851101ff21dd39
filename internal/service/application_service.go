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

// ApplicationCreateRequest captures a new candidacy for an internship.
type ApplicationCreateRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	InternshipID string `json:"internship_id" validate:"required"`
	ResumeURL    string `json:"resume_url"`
	CoverLetter  string `json:"cover_letter"`
}

// ApplicationService reads and creates applications. Every lookup is
// internship-scoped; there is no secondary flat collection to fall out of
// sync with.
type ApplicationService interface {
	Create(ctx context.Context, payload ApplicationCreateRequest, actor Actor) (dto.ApplicationResponse, error)
	Get(ctx context.Context, internshipID, id string) (dto.ApplicationResponse, error)
	ListForInternship(ctx context.Context, internshipID string) ([]dto.ApplicationResponse, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	students     repository.StudentRepository
	internships  repository.InternshipRepository
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	feeds        FeedNotifier
	logger       zerolog.Logger
	now          func() time.Time
}

// NewApplicationService constructs the application service.
func NewApplicationService(applications repository.ApplicationRepository, students repository.StudentRepository, internships repository.InternshipRepository, validate *validator.Validate, feeds FeedNotifier, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		students:     students,
		internships:  internships,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		feeds:        feeds,
		logger:       logger.With().Str("component", "application_service").Logger(),
		now:          time.Now,
	}
}

func (s *applicationService) Create(ctx context.Context, payload ApplicationCreateRequest, actor Actor) (dto.ApplicationResponse, error) {
	if actor.UID == "" {
		return dto.ApplicationResponse{}, ErrAuthRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	student, err := s.students.GetByID(ctx, payload.StudentID)
	if err != nil {
		return dto.ApplicationResponse{}, storeError(err, "student", payload.StudentID)
	}

	internship, err := s.internships.GetByID(ctx, payload.InternshipID)
	if err != nil {
		return dto.ApplicationResponse{}, storeError(err, "internship", payload.InternshipID)
	}

	if internship.Status != models.InternshipStatusActive {
		return dto.ApplicationResponse{}, fmt.Errorf("%w: internship %s is not accepting applications", ErrInvalidState, internship.ID)
	}

	if _, err := s.applications.GetByStudentAndInternship(ctx, student.ID, internship.ID); err == nil {
		return dto.ApplicationResponse{}, fmt.Errorf("%w: student has already applied to this internship", ErrValidation)
	}

	application := models.Application{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		InternshipID: internship.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		Status:       models.StatusFormSubmitted,
		CurrentRound: 1,
		ResumeURL:    payload.ResumeURL,
		CoverLetter:  s.sanitizer.Sanitize(payload.CoverLetter),
		AppliedAt:    s.now(),
	}
	application.SetRounds(models.RoundLedger{}.AppendPending(1))

	if err := s.applications.Create(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, storeError(err, "application", application.ID)
	}

	if s.feeds != nil {
		s.feeds.NotifyChanged(ctx, TopicApplications)
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Get(ctx context.Context, internshipID, id string) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetForInternship(ctx, internshipID, id)
	if err != nil {
		return dto.ApplicationResponse{}, storeError(err, "application", id)
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListForInternship(ctx context.Context, internshipID string) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, repository.ApplicationFilter{InternshipID: &internshipID})
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, repository.ApplicationFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}
