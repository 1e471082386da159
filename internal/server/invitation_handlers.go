package server

import (
	"bandmate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendInvitation handles POST /api/invitations
// @Summary Send an invitation
// @Description Invite another member to collaborate, optionally for a specific opportunity
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body object{to_user_id=int,opportunity_id=int,message=string} true "Invitation request"
// @Success 201 {object} server.invitationView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /invitations [post]
func (s *Server) SendInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ToUserID      uint   `json:"to_user_id"`
		OpportunityID *uint  `json:"opportunity_id"`
		Message       string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	invitation, err := s.invitationService.SubmitInvitation(
		c.UserContext(), userID, req.ToUserID, req.OpportunityID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newInvitationView(userID, *invitation))
}

// GetInvitations handles GET /api/invitations
// @Summary Invitation inbox
// @Description The authenticated member's received and sent invitations, newest first
// @Tags invitations
// @Produce json
// @Success 200 {object} server.invitationInboxView
// @Security BearerAuth
// @Router /invitations [get]
func (s *Server) GetInvitations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	inbox, err := s.invitationService.ListInvitations(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(invitationInboxView{
		Received: invitationViews(userID, inbox.Received),
		Sent:     invitationViews(userID, inbox.Sent),
	})
}

// AcceptInvitation handles POST /api/invitations/:id/accept
// @Summary Accept an invitation
// @Description Accept a pending invitation addressed to the authenticated member, creating a collaboration
// @Tags invitations
// @Produce json
// @Param id path int true "Invitation ID"
// @Success 200 {object} models.Collaboration
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /invitations/{id}/accept [post]
func (s *Server) AcceptInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	invitationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collaboration, err := s.invitationService.AcceptInvitation(c.UserContext(), userID, invitationID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collaboration)
}

// DeclineInvitation handles POST /api/invitations/:id/decline
// @Summary Decline an invitation
// @Description Decline a pending invitation addressed to the authenticated member. The sender cannot resubmit; the decliner still can.
// @Tags invitations
// @Produce json
// @Param id path int true "Invitation ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /invitations/{id}/decline [post]
func (s *Server) DeclineInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	invitationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.invitationService.RejectInvitation(c.UserContext(), userID, invitationID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Invitation declined",
	})
}
