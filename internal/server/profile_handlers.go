package server

import (
	"context"

	"bandmate/internal/featureflags"
	"bandmate/internal/matching"
	"bandmate/internal/middleware"
	"bandmate/internal/models"
	"bandmate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profiles/me
// @Summary Own profile
// @Description The authenticated member's full profile, with buffered view counts flushed
// @Tags profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Security BearerAuth
// @Router /profiles/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// Flush buffered views first so the owner sees a current counter.
	s.profileService.FlushProfileViews(c.UserContext(), userID)

	profile, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
// @Summary Update own profile
// @Description Apply partial edits to the authenticated member's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body service.UpdateInput true "Profile edits"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req service.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// DeleteMyAccount handles DELETE /api/profiles/me
// @Summary Delete own account
// @Description Remove the authenticated member's account. Invitation and collaboration history stays.
// @Tags profiles
// @Produce json
// @Success 200 {object} object{message=string}
// @Security BearerAuth
// @Router /profiles/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.profileService.DeleteAccount(c.UserContext(), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}

// GetProfile handles GET /api/profiles/:id
// @Summary View a profile
// @Description A member's profile as the viewer is allowed to see it. Anonymous viewers get the public fields only.
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	subjectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := middleware.OptionalUserID(c)

	view, err := s.visibilityService.ViewProfile(c.UserContext(), viewerID, subjectID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.recordView(c.UserContext(), viewerID, subjectID)

	return c.JSON(view)
}

// recordView counts a profile view. Anonymous and self views do not count.
func (s *Server) recordView(ctx context.Context, viewerID, subjectID uint) {
	if viewerID == 0 || viewerID == subjectID {
		return
	}
	if !s.featureFlags.Enabled(featureflags.FlagViewBuffering, viewerID) {
		// Straight to the database when buffering is turned off.
		_ = s.profileRepo.IncrementProfileViews(ctx, subjectID, 1)
		return
	}
	s.profileService.RecordProfileView(ctx, viewerID, subjectID)
}

// ListProfiles handles GET /api/profiles
// @Summary Member directory
// @Description Page through member profiles
// @Tags profiles
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} service.ProfileView
// @Router /profiles [get]
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	profiles, err := s.profileService.ListProfiles(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	// The directory is a public surface. Everyone gets the anonymous
	// rendering; one-to-one relationships are resolved on the single
	// profile endpoint instead.
	views := make([]service.ProfileView, 0, len(profiles))
	for i := range profiles {
		views = append(views, service.RenderProfile(0, &profiles[i], service.RelationshipSnapshot{}))
	}
	return c.JSON(views)
}

// GetMatches handles GET /api/profiles/me/matches
// @Summary Suggested collaborators
// @Description Candidate collaborators ranked by fit for the authenticated member
// @Tags profiles
// @Produce json
// @Param limit query int false "Number of candidates to score" default(50)
// @Success 200 {array} matching.Result
// @Security BearerAuth
// @Router /profiles/me/matches [get]
func (s *Server) GetMatches(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 50)

	seeker, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	candidates, err := s.profileService.ListProfiles(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	results := matching.Rank(c.UserContext(), s.matcherFor(userID), seeker, candidates)
	return c.JSON(results)
}
