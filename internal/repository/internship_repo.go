package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// InternshipRepository defines data operations for internship postings.
type InternshipRepository interface {
	GetByID(ctx context.Context, id string) (models.Internship, error)
	List(ctx context.Context) ([]models.Internship, error)
	Create(ctx context.Context, internship *models.Internship) error
	Update(ctx context.Context, internship *models.Internship) error
	Delete(ctx context.Context, id string) error
	CountByFaculty(ctx context.Context, facultyID string) (int64, error)
}

type internshipRepository struct {
	db *gorm.DB
}

// NewInternshipRepository instantiates the repository.
func NewInternshipRepository(db *gorm.DB) InternshipRepository {
	return &internshipRepository{db: db}
}

func (r *internshipRepository) GetByID(ctx context.Context, id string) (models.Internship, error) {
	var internship models.Internship
	if err := r.db.WithContext(ctx).First(&internship, "id = ?", id).Error; err != nil {
		return models.Internship{}, err
	}

	return internship, nil
}

func (r *internshipRepository) List(ctx context.Context) ([]models.Internship, error) {
	var internships []models.Internship
	if err := r.db.WithContext(ctx).Order("posted_at DESC").Find(&internships).Error; err != nil {
		return nil, err
	}

	return internships, nil
}

func (r *internshipRepository) Create(ctx context.Context, internship *models.Internship) error {
	return r.db.WithContext(ctx).Create(internship).Error
}

func (r *internshipRepository) Update(ctx context.Context, internship *models.Internship) error {
	return r.db.WithContext(ctx).Save(internship).Error
}

func (r *internshipRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Internship{}, "id = ?", id).Error
}

func (r *internshipRepository) CountByFaculty(ctx context.Context, facultyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Internship{}).
		Where("faculty_id = ?", facultyID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
