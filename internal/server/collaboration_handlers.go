package server

import (
	"bandmate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCollaborations handles GET /api/collaborations
// @Summary Collaboration history
// @Description The authenticated member's collaborations with each partner profile resolved
// @Tags collaborations
// @Produce json
// @Success 200 {array} service.CollaborationEntry
// @Security BearerAuth
// @Router /collaborations [get]
func (s *Server) GetCollaborations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	entries, err := s.collaborationService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// VerifyCollaboration handles POST /api/collaborations/:id/verify
// @Summary Verify a collaboration
// @Description Flag a collaboration as verified. Only a party of the collaboration may do so.
// @Tags collaborations
// @Accept json
// @Produce json
// @Param id path int true "Collaboration ID"
// @Param request body object{verified=bool} false "Verified state, defaults to true"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /collaborations/{id}/verify [post]
func (s *Server) VerifyCollaboration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collaborationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	req := struct {
		Verified *bool `json:"verified"`
	}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	if err := s.collaborationService.MarkVerified(c.UserContext(), userID, collaborationID, verified); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Collaboration updated",
	})
}

// CompleteCollaboration handles POST /api/collaborations/:id/complete
// @Summary Complete a collaboration
// @Description Flag a collaboration as completed. Only a party of the collaboration may do so.
// @Tags collaborations
// @Accept json
// @Produce json
// @Param id path int true "Collaboration ID"
// @Param request body object{completed=bool} false "Completed state, defaults to true"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /collaborations/{id}/complete [post]
func (s *Server) CompleteCollaboration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collaborationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	req := struct {
		Completed *bool `json:"completed"`
	}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	if err := s.collaborationService.MarkCompleted(c.UserContext(), userID, collaborationID, completed); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Collaboration updated",
	})
}
