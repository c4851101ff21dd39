package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
)

// Actor represents the authenticated administrator performing an action.
type Actor struct {
	UID  string
	Role string
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorUID   string
	ActorRole  string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService exposes methods to query and persist activity logs.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, limit, offset int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	model := models.ActivityLog{
		ActorID:    entry.ActorUID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to persist activity entry")
		return err
	}

	return nil
}

func (s *activityService) List(ctx context.Context, limit, offset int) ([]dto.ActivityResponse, error) {
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewActivityResponseSlice(entries), nil
}
