package server

import (
	"errors"

	"modam/internal/ledger"
	"modam/internal/middleware"
	"modam/internal/models"

	"github.com/gofiber/fiber/v2"
)

// deviceIDHeader identifies the requesting device. The diagnosis ledger is
// scoped to it, so no account is needed to diagnose.
const deviceIDHeader = "X-Device-ID"

func deviceID(c *fiber.Ctx) (string, error) {
	id := c.Get(deviceIDHeader)
	if id == "" {
		return "", models.NewValidationError("X-Device-ID header is required")
	}
	return id, nil
}

// RunDiagnosis handles POST /api/diagnosis. Expects multipart form data
// with "crown" and "hairline" photo files.
func (s *Server) RunDiagnosis(c *fiber.Ctx) error {
	device, err := deviceID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	crownFile, err := c.FormFile("crown")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Both crown and hairline photos are required"))
	}
	hairlineFile, err := c.FormFile("hairline")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Both crown and hairline photos are required"))
	}

	crown, err := crownFile.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer crown.Close()
	hairline, err := hairlineFile.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer hairline.Close()

	result, err := s.analyzer.Analyze(c.Context(), crown, hairline)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	// Ledger persistence is best-effort: the user still gets their result
	// when Redis is down, it just won't appear in the history.
	if err := s.ledger.Append(c.Context(), device, result); err != nil {
		middleware.Logger.Warn("diagnosis ledger append failed",
			"device_id", device, "error", err)
	}

	guide, _ := s.catalog.GuideForStage(result.Stage)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": result,
		"guide":  guide,
	})
}

// GetDiagnosisHistory handles GET /api/diagnosis, most recent first.
func (s *Server) GetDiagnosisHistory(c *fiber.Ctx) error {
	device, err := deviceID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	results, err := s.ledger.List(c.Context(), device)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"results": results})
}

// GetDiagnosisResult handles GET /api/diagnosis/:resultId.
func (s *Server) GetDiagnosisResult(c *fiber.Ctx) error {
	device, err := deviceID(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	resultID := c.Params("resultId")
	result, err := s.ledger.GetByID(c.Context(), device, resultID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Diagnosis result", resultID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	guide, _ := s.catalog.GuideForStage(result.Stage)

	return c.JSON(fiber.Map{
		"result": result,
		"guide":  guide,
	})
}
