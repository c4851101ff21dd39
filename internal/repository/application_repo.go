package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// ApplicationFilter narrows application queries.
type ApplicationFilter struct {
	InternshipID *string
	StudentID    *string
	Status       *models.ApplicationStatus
}

// ApplicationRepository defines data operations for applications. The
// internship-scoped lookup is the canonical access path; there is no second
// flat collection to keep in sync.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (models.Application, error)
	GetForInternship(ctx context.Context, internshipID, id string) (models.Application, error)
	GetByStudentAndInternship(ctx context.Context, studentID, internshipID string) (models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	Create(ctx context.Context, application *models.Application) error
	Update(ctx context.Context, application *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository instantiates the repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) GetForInternship(ctx context.Context, internshipID, id string) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("internship_id = ?", internshipID).
		First(&application, "id = ?", id).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) GetByStudentAndInternship(ctx context.Context, studentID, internshipID string) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("internship_id = ?", internshipID).
		First(&application).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter.InternshipID != nil {
		query = query.Where("internship_id = ?", *filter.InternshipID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var applications []models.Application
	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}
