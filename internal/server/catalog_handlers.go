package server

import (
	"modam/internal/catalog"
	"modam/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetManagementGuide handles GET /api/guides/:stage
func (s *Server) GetManagementGuide(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if !models.ValidStage(stage) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown diagnosis stage"))
	}

	guide, ok := s.catalog.GuideForStage(stage)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Management guide", stage))
	}

	return c.JSON(fiber.Map{"guide": guide})
}

// GetProducts handles GET /api/products. Supports ?category= and ?q=.
func (s *Server) GetProducts(c *fiber.Ctx) error {
	category := c.Query("category")
	if category != "" && !catalog.ValidProductCategory(category) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown product category"))
	}

	products := s.catalog.FilterProducts(category, c.Query("q"))
	return c.JSON(fiber.Map{"products": products})
}

// GetExperts handles GET /api/experts
func (s *Server) GetExperts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"experts": s.catalog.Experts})
}
