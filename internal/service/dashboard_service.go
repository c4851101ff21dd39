package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/dto"
	"github.com/internbooth/placement-api/internal/models"
	"github.com/internbooth/placement-api/internal/repository"
)

const dashboardCacheKey = "dashboard:overview"

// activeWindow is how far back a student or faculty login still counts as
// active for the dashboard counters.
const activeWindow = 30 * 24 * time.Hour

// DashboardService aggregates the admin landing page counters.
type DashboardService interface {
	GetOverview(ctx context.Context) (dto.DashboardOverviewResponse, error)
}

type dashboardService struct {
	stores   repository.Stores
	faculty  repository.FacultyRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(stores repository.Stores, faculty repository.FacultyRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		stores:   stores,
		faculty:  faculty,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetOverview(ctx context.Context) (dto.DashboardOverviewResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardOverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := s.buildOverview(ctx)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildOverview(ctx context.Context) (dto.DashboardOverviewResponse, error) {
	now := s.now()
	since := now.Add(-activeWindow)

	students, err := s.stores.Students.List(ctx)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	activeStudents, err := s.stores.Students.CountActiveSince(ctx, since)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	members, err := s.faculty.List(ctx)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	activeFaculty, err := s.faculty.CountActiveSince(ctx, since)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	internships, err := s.stores.Internships.List(ctx)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	applications, err := s.stores.Applications.List(ctx, repository.ApplicationFilter{})
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	pendingReviews, err := s.stores.Assignments.ListByStatus(ctx, models.AssignmentCompleted)
	if err != nil {
		return dto.DashboardOverviewResponse{}, err
	}

	response := dto.DashboardOverviewResponse{
		TotalStudents:  int64(len(students)),
		ActiveStudents: activeStudents,
		TotalFaculty:   int64(len(members)),
		ActiveFaculty:  activeFaculty,
		PendingReviews: int64(len(pendingReviews)),
		GeneratedAt:    now,
	}

	response.TotalInternships = int64(len(internships))
	for _, internship := range internships {
		if internship.Status == models.InternshipStatusActive {
			response.ActiveInternships++
		}
	}

	byStatus := map[string]int64{}
	response.TotalApplications = int64(len(applications))
	for _, application := range applications {
		byStatus[string(application.Status)]++
		if application.Status == models.StatusSelected {
			response.SelectedApplications++
		}
	}

	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		response.StatusBreakdown = append(response.StatusBreakdown, dto.StatusCount{
			Status: status,
			Count:  byStatus[status],
		})
	}

	return response, nil
}
