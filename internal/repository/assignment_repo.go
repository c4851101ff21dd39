package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// AssignmentRepository defines data operations for test assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (models.TestAssignment, error)
	FindByApplication(ctx context.Context, applicationID string) (models.TestAssignment, error)
	List(ctx context.Context) ([]models.TestAssignment, error)
	ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.TestAssignment, error)
	Create(ctx context.Context, assignment *models.TestAssignment) error
	Update(ctx context.Context, assignment *models.TestAssignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (models.TestAssignment, error) {
	var assignment models.TestAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return models.TestAssignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) FindByApplication(ctx context.Context, applicationID string) (models.TestAssignment, error) {
	var assignment models.TestAssignment
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&assignment).Error; err != nil {
		return models.TestAssignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]models.TestAssignment, error) {
	var assignments []models.TestAssignment
	if err := r.db.WithContext(ctx).Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.TestAssignment, error) {
	var assignments []models.TestAssignment
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("assigned_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.TestAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.TestAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.TestAssignment{}, "id = ?", id).Error
}
