package server

import (
	"modam/internal/middleware"
	"modam/internal/models"
	"modam/internal/storage"
	"modam/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
	}

	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// UpdateMyProfile handles PUT /api/users/me. Accepts multipart form data
// with an optional avatar file. A failed avatar upload keeps the previous
// avatar instead of failing the update.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userRepo.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", userID))
	}

	if nickname := c.FormValue("nickname"); nickname != "" {
		if err := validation.ValidateNickname(nickname); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		profile.Nickname = nickname
	}
	if phone := c.FormValue("phone"); phone != "" {
		if err := validation.ValidatePhone(phone); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		profile.Phone = phone
	}
	if address := c.FormValue("address"); address != "" {
		profile.Address = address
	}

	if file, ferr := c.FormFile("avatar"); ferr == nil && file != nil {
		if f, oerr := file.Open(); oerr == nil {
			url, uerr := s.store.Upload(c.Context(), storage.AvatarBucket, file.Filename, f)
			f.Close()
			if uerr != nil {
				middleware.Logger.Warn("avatar upload failed", "error", uerr)
			} else {
				profile.AvatarURL = url
			}
		}
	}

	if err := s.userRepo.UpdateProfile(c.Context(), profile); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"profile": profile})
}
