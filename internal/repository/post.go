package repository

import (
	"context"
	"errors"

	"modam/internal/middleware"
	"modam/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List fetches posts, optionally filtered by category, newest first.
	// Board ordering (notice-first, sort keys) is applied by the service.
	List(ctx context.Context, category string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	// IncrementViews bumps the view counter atomically, falling back to a
	// best-effort read-then-write when the atomic update fails.
	IncrementViews(ctx context.Context, id uint) error
	// IncrementLikes applies the read-then-write like increment. Lost
	// updates under concurrency are accepted, not mitigated.
	IncrementLikes(ctx context.Context, id uint) error
	// RecountComments recomputes the comment counter from the actual
	// number of child rows and persists it. This path is authoritative.
	RecountComments(ctx context.Context, postID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, category string) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Hard delete. Comments of the post are intentionally left in place.
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Post{}, id).Error
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
	if err == nil {
		return nil
	}

	middleware.CounterFallbacks.WithLabelValues("views").Inc()
	return r.incrementViewsFallback(ctx, id)
}

// incrementViewsFallback reads the current value and writes value+1. Two
// overlapping callers can both read the same pre-increment value and both
// write the same result; the undercount is accepted.
func (r *postRepository) incrementViewsFallback(ctx context.Context, id uint) error {
	current, err := r.viewCount(ctx, id)
	if err != nil {
		return err
	}
	return r.writeViewCount(ctx, id, current+1)
}

func (r *postRepository) viewCount(ctx context.Context, id uint) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Select("view_count").
		Scan(&count).Error
	return count, err
}

func (r *postRepository) writeViewCount(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("view_count", count).Error
}

func (r *postRepository) IncrementLikes(ctx context.Context, id uint) error {
	current, err := r.likeCount(ctx, id)
	if err != nil {
		return err
	}
	return r.writeLikeCount(ctx, id, current+1)
}

func (r *postRepository) likeCount(ctx context.Context, id uint) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Select("like_count").
		Scan(&count).Error
	return count, err
}

func (r *postRepository) writeLikeCount(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("like_count", count).Error
}

func (r *postRepository) RecountComments(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("comment_count", count).Error
	return count, err
}
