package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// QuizSubmissionRepository defines data operations for quiz submissions.
type QuizSubmissionRepository interface {
	GetByID(ctx context.Context, id string) (models.QuizSubmission, error)
	ListByStatus(ctx context.Context, status models.SubmissionReviewStatus) ([]models.QuizSubmission, error)
	Create(ctx context.Context, submission *models.QuizSubmission) error
	Update(ctx context.Context, submission *models.QuizSubmission) error
}

type quizSubmissionRepository struct {
	db *gorm.DB
}

// NewQuizSubmissionRepository instantiates the repository.
func NewQuizSubmissionRepository(db *gorm.DB) QuizSubmissionRepository {
	return &quizSubmissionRepository{db: db}
}

func (r *quizSubmissionRepository) GetByID(ctx context.Context, id string) (models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return models.QuizSubmission{}, err
	}

	return submission, nil
}

func (r *quizSubmissionRepository) ListByStatus(ctx context.Context, status models.SubmissionReviewStatus) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *quizSubmissionRepository) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *quizSubmissionRepository) Update(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
