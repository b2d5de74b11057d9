// Package service contains the application's domain logic on top of the
// repository layer.
package service

import (
	"context"
	"sort"
	"strings"

	"modam/internal/content"
	"modam/internal/models"
	"modam/internal/repository"
)

// Board sort keys.
const (
	SortLatest   = "latest"
	SortViews    = "views"
	SortLikes    = "likes"
	SortComments = "comments"
)

// ValidSortKey reports whether key is a supported board sort key.
func ValidSortKey(key string) bool {
	switch key {
	case SortLatest, SortViews, SortLikes, SortComments:
		return true
	}
	return false
}

// PostService implements the community board rules over the post repository.
type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries everything needed to create a post.
type CreatePostInput struct {
	UserID     uint
	Nickname   string
	Title      string
	Category   string
	Blocks     []content.Block
	ImageURL   string
	ImageSize  string
	ImageAlign string
}

// UpdatePostInput carries an admin post edit.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Category string
	ImageURL string
}

// PostPreview is the list-view projection of a post.
type PostPreview struct {
	*models.Post
	Preview string `json:"preview"`
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin}
}

// ListPosts fetches posts for the board, optionally filtered by category,
// and applies the board ordering: notice posts always first, then the
// chosen sort key. Previews substitute the photo-post label for
// marker-only payloads.
func (s *PostService) ListPosts(ctx context.Context, category, sortKey string) ([]*PostPreview, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, models.NewValidationError("Unknown category")
	}
	if sortKey == "" {
		sortKey = SortLatest
	}
	if !ValidSortKey(sortKey) {
		return nil, models.NewValidationError("Unknown sort key")
	}

	posts, err := s.postRepo.List(ctx, category)
	if err != nil {
		return nil, err
	}

	SortPosts(posts, sortKey)

	previews := make([]*PostPreview, 0, len(posts))
	for _, p := range posts {
		previews = append(previews, &PostPreview{
			Post:    p,
			Preview: content.Preview(p.Content),
		})
	}
	return previews, nil
}

// SortPosts orders posts in place: the notice partition first regardless of
// the sort key, then both partitions by the key, descending, stably.
func SortPosts(posts []*models.Post, sortKey string) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		aNotice := a.Category == models.CategoryNotice
		bNotice := b.Category == models.CategoryNotice
		if aNotice != bNotice {
			return aNotice
		}
		switch sortKey {
		case SortViews:
			return a.ViewCount > b.ViewCount
		case SortLikes:
			return a.LikeCount > b.LikeCount
		case SortComments:
			return a.CommentCount > b.CommentCount
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// GetPost loads a post for the detail page, bumping its view counter first
// so the returned row carries the incremented value.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost validates and creates a post, encoding the authored blocks into
// the persisted payload. The caller resolves nickname and image URL.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	category := in.Category
	if category == "" {
		category = models.CategoryQuestion
	}
	if !models.ValidCategory(category) {
		return nil, models.NewValidationError("Unknown category")
	}
	if category == models.CategoryNotice {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("Only the admin can post notices")
		}
	}

	payload := content.Encode(in.Blocks)
	if strings.TrimSpace(payload) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	imageSize := in.ImageSize
	if imageSize == "" {
		imageSize = models.ImageSizeMedium
	}
	if !models.ValidImageSize(imageSize) {
		return nil, models.NewValidationError("Unknown image size")
	}
	imageAlign := in.ImageAlign
	if imageAlign == "" {
		imageAlign = models.ImageAlignCenter
	}
	if !models.ValidImageAlign(imageAlign) {
		return nil, models.NewValidationError("Unknown image alignment")
	}

	userID := in.UserID
	post := &models.Post{
		Title:      in.Title,
		Content:    payload,
		Category:   category,
		UserID:     &userID,
		Nickname:   in.Nickname,
		ImageURL:   in.ImageURL,
		ImageSize:  imageSize,
		ImageAlign: imageAlign,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// UpdatePost applies an admin edit to a post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	admin, err := s.isAdmin(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewForbiddenError("Only the admin can edit posts")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, models.NewValidationError("Unknown category")
		}
		post.Category = in.Category
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// DeletePost removes a post. Admin only; the post's comments are left
// orphaned on purpose.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Only the admin can delete posts")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// LikePost applies the read-then-write like increment and returns the
// refreshed post.
func (s *PostService) LikePost(ctx context.Context, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementLikes(ctx, postID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.postRepo.GetByID(ctx, postID)
}
