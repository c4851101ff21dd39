package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// FacultyRepository defines data operations for faculty records.
type FacultyRepository interface {
	GetByID(ctx context.Context, id string) (models.Faculty, error)
	List(ctx context.Context) ([]models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
	SetInternshipCount(ctx context.Context, id string, count int) error
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

type facultyRepository struct {
	db *gorm.DB
}

// NewFacultyRepository instantiates the repository.
func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) GetByID(ctx context.Context, id string) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).First(&faculty, "id = ?", id).Error; err != nil {
		return models.Faculty{}, err
	}

	return faculty, nil
}

func (r *facultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	var faculty []models.Faculty
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&faculty).Error; err != nil {
		return nil, err
	}

	return faculty, nil
}

func (r *facultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	return r.db.WithContext(ctx).Save(faculty).Error
}

func (r *facultyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Faculty{}, "id = ?", id).Error
}

func (r *facultyRepository) SetInternshipCount(ctx context.Context, id string, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Faculty{}).
		Where("id = ?", id).
		Update("internships_posted", count).Error
}

func (r *facultyRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Faculty{}).
		Where("last_active_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
