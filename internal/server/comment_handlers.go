package server

import (
	"modam/internal/cache"
	"modam/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/posts/:id/comments. The author's display
// nickname is captured on the comment at write time.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	comment, err := s.commentService.CreateComment(
		c.Context(), postID, userID, profile.DisplayNickname(), req.Content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	_, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.commentService.DeleteComment(c.Context(), commentID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	cache.InvalidatePostList(c.Context())

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
