package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

var ErrResultNotFound = errors.New("test result not found")

// TestResultRepository stores finished interviews. Rows are written once and
// never updated.
type TestResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	FindByOwner(ctx context.Context, ownerID string) ([]models.TestResult, error)
	FindByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.TestResult, error)
}

type testResultRepository struct {
	db *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

// Create implements TestResultRepository.
func (r *testResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

// FindByOwner implements TestResultRepository. Newest results come first.
func (r *testResultRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.TestResult, error) {
	var results []models.TestResult
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find test results: %w", err)
	}

	return results, nil
}

// FindByID implements TestResultRepository. A result owned by someone else
// is reported as not found.
func (r *testResultRepository) FindByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.TestResult, error) {
	var result models.TestResult
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&result).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to find test result: %w", err)
	}

	return &result, nil
}
