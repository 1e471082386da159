package server

import (
	"bandmate/internal/featureflags"
	"bandmate/internal/middleware"
	"bandmate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BrowseOpportunities handles GET /api/opportunities
// @Summary Browse opportunities
// @Description Page through active opportunities, newest first
// @Tags opportunities
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} server.opportunityView
// @Router /opportunities [get]
func (s *Server) BrowseOpportunities(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID, _ := middleware.OptionalUserID(c)

	var opportunities []models.Opportunity
	var err error
	if s.featureFlags.Enabled(featureflags.FlagBrowseCache, viewerID) {
		opportunities, err = s.opportunityService.Browse(c.UserContext(), page.Limit, page.Offset)
	} else {
		opportunities, err = s.opportunityRepo.ListActive(c.UserContext(), page.Limit, page.Offset)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(opportunityViews(opportunities))
}

// GetOpportunity handles GET /api/opportunities/:id
// @Summary View an opportunity
// @Tags opportunities
// @Produce json
// @Param id path int true "Opportunity ID"
// @Success 200 {object} server.opportunityView
// @Failure 404 {object} models.ErrorResponse
// @Router /opportunities/{id} [get]
func (s *Server) GetOpportunity(c *fiber.Ctx) error {
	opportunityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	opportunity, err := s.opportunityService.GetOpportunity(c.UserContext(), opportunityID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(newOpportunityView(*opportunity))
}

// CreateOpportunity handles POST /api/opportunities
// @Summary Post an opportunity
// @Description Post a new opportunity. Each member may have at most two active at once.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param request body models.Opportunity true "Opportunity"
// @Success 201 {object} server.opportunityView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /opportunities [post]
func (s *Server) CreateOpportunity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req models.Opportunity
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	opportunity, err := s.opportunityService.CreateOpportunity(c.UserContext(), userID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newOpportunityView(*opportunity))
}

// UpdateOpportunity handles PUT /api/opportunities/:id
// @Summary Edit an opportunity
// @Description Edit an opportunity the authenticated member owns. Reactivating counts against the active cap.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param id path int true "Opportunity ID"
// @Param request body models.Opportunity true "Fields to change"
// @Success 200 {object} server.opportunityView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /opportunities/{id} [put]
func (s *Server) UpdateOpportunity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	opportunityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.Opportunity
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	opportunity, err := s.opportunityService.UpdateOpportunity(c.UserContext(), userID, opportunityID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(newOpportunityView(*opportunity))
}

// DeleteOpportunity handles DELETE /api/opportunities/:id
// @Summary Delete an opportunity
// @Tags opportunities
// @Produce json
// @Param id path int true "Opportunity ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /opportunities/{id} [delete]
func (s *Server) DeleteOpportunity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	opportunityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.opportunityService.DeleteOpportunity(c.UserContext(), userID, opportunityID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Opportunity deleted",
	})
}

// GetMyOpportunities handles GET /api/opportunities/mine
// @Summary Own opportunities
// @Description All of the authenticated member's opportunities, any status
// @Tags opportunities
// @Produce json
// @Success 200 {array} server.opportunityView
// @Security BearerAuth
// @Router /opportunities/mine [get]
func (s *Server) GetMyOpportunities(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	opportunities, err := s.opportunityService.ListByOwner(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(opportunityViews(opportunities))
}

// ToggleStar handles PUT /api/opportunities/:id/star
// @Summary Star or unstar an opportunity
// @Description Set the bookmark to the requested state. Repeating the same state is a no-op, not an error.
// @Tags opportunities
// @Accept json
// @Produce json
// @Param id path int true "Opportunity ID"
// @Param request body object{starred=bool} true "Desired bookmark state"
// @Success 200 {object} service.StarResult
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /opportunities/{id}/star [put]
func (s *Server) ToggleStar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	opportunityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Starred bool `json:"starred"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.opportunityService.ToggleStar(c.UserContext(), userID, opportunityID, req.Starred)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetStarredOpportunities handles GET /api/opportunities/starred
// @Summary Starred opportunities
// @Description The authenticated member's bookmarked opportunities, most recently starred first
// @Tags opportunities
// @Produce json
// @Success 200 {array} server.starredOpportunityView
// @Security BearerAuth
// @Router /opportunities/starred [get]
func (s *Server) GetStarredOpportunities(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	starred, err := s.opportunityService.ListStarred(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(starredOpportunityViews(starred))
}
