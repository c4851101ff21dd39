package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internbooth/placement-api/internal/models"
)

// TestRepository defines data operations for the test question banks.
type TestRepository interface {
	GetByID(ctx context.Context, id string) (models.Test, error)
	List(ctx context.Context) ([]models.Test, error)
	Create(ctx context.Context, test *models.Test) error
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id string) error
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository instantiates the repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) GetByID(ctx context.Context, id string) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return models.Test{}, err
	}

	return test, nil
}

func (r *testRepository) List(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) Update(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *testRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Test{}, "id = ?", id).Error
}
