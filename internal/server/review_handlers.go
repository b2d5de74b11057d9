package server

import (
	"strings"
	"unicode/utf8"

	"modam/internal/cache"
	"modam/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetReviews handles GET /api/reviews, newest first.
func (s *Server) GetReviews(c *fiber.Ctx) error {
	var reviews []*models.Review
	err := cache.CacheAside(c.Context(), cache.ReviewListKey, &reviews, cache.ReviewListTTL, func() error {
		var ferr error
		reviews, ferr = s.reviewRepo.List(c.Context())
		return ferr
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

// CreateReview handles POST /api/reviews. Reviews are one-liners: content
// past the cap is rejected, not truncated. Signed-in authors get their
// display nickname, everyone else posts anonymously.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	text := strings.TrimSpace(req.Content)
	if text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Review content is required"))
	}
	if utf8.RuneCountInString(text) > models.MaxReviewLength {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Reviews are limited to 80 characters"))
	}

	nickname := models.AnonymousNickname
	if userID, ok := s.optionalUserID(c); ok {
		if profile, err := s.userRepo.GetProfile(c.Context(), userID); err == nil {
			nickname = profile.DisplayNickname()
		}
	}

	review := &models.Review{
		Nickname: nickname,
		Content:  text,
	}
	if err := s.reviewRepo.Create(c.Context(), review); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	cache.InvalidateReviews(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}
