package server

import (
	"mime/multipart"

	"modam/internal/cache"
	"modam/internal/content"
	"modam/internal/middleware"
	"modam/internal/models"
	"modam/internal/service"
	"modam/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. Supports ?category= and ?sort=
// (latest, views, likes, comments). Notices always lead the listing.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	category := c.Query("category")
	sortKey := c.Query("sort", service.SortLatest)

	// Only the unfiltered default listing is cached; filtered views go
	// straight to the database.
	if category == "" && sortKey == service.SortLatest {
		var cached []*service.PostPreview
		if found, _ := cache.GetJSON(c.Context(), cache.PostListKey, &cached); found {
			return c.JSON(fiber.Map{"posts": cached})
		}
	}

	posts, err := s.postService.ListPosts(c.Context(), category, sortKey)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if category == "" && sortKey == service.SortLatest {
		_ = cache.SetJSON(c.Context(), cache.PostListKey, posts, cache.PostListTTL)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id. Returns the post with its decoded
// content blocks; the view counter is bumped before the read so the
// response reflects this visit.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.JSON(fiber.Map{
		"post":   post,
		"blocks": content.Decode(post.Content, post.ImageURL),
	})
}

// CreatePost handles POST /api/posts. Accepts multipart form data with an
// optional image file. An image upload failure does not fail the post: the
// text content is saved without the image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	title := c.FormValue("title")
	category := c.FormValue("category")
	textBefore := c.FormValue("text_before")
	textAfter := c.FormValue("text_after")
	imageSize := c.FormValue("image_size")
	imageAlign := c.FormValue("image_align")

	imageURL := ""
	hasImage := false
	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		hasImage = true
		imageURL = s.uploadPostImage(c, file)
	}

	blocks := make([]content.Block, 0, 3)
	blocks = append(blocks, content.TextBlock(textBefore))
	if hasImage && imageURL != "" {
		blocks = append(blocks, content.ImageBlock(imageURL))
	}
	blocks = append(blocks, content.TextBlock(textAfter))

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:     userID,
		Nickname:   profile.DisplayNickname(),
		Title:      title,
		Category:   category,
		Blocks:     blocks,
		ImageURL:   imageURL,
		ImageSize:  imageSize,
		ImageAlign: imageAlign,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	cache.Invalidate(c.Context(), cache.PostListKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// uploadPostImage stores the image and returns its public URL, or "" when
// the upload fails. The caller treats "" as "post without image".
func (s *Server) uploadPostImage(c *fiber.Ctx, file *multipart.FileHeader) string {
	f, err := file.Open()
	if err != nil {
		middleware.Logger.Warn("post image open failed", "error", err)
		return ""
	}
	defer f.Close()

	url, err := s.store.Upload(c.Context(), storage.CommunityBucket, file.Filename, f)
	if err != nil {
		middleware.Logger.Warn("post image upload failed", "error", err)
		return ""
	}
	return url
}

// UpdatePost handles PUT /api/posts/:id (admin only).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /api/posts/:id (admin only). The post's
// comments are intentionally left in place.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.postService.DeletePost(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like and returns the refreshed post.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.JSON(fiber.Map{"post": post})
}
