package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// StudentRepository defines data operations for student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id).Error
}

func (r *studentRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("last_active_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
