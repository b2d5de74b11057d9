package repository

import (
	"context"

	"modam/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines interface for one-line review operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	// List returns reviews newest first.
	List(ctx context.Context) ([]*models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) List(ctx context.Context) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}
