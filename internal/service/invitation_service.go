package service

import (
	"context"
	"errors"

	"bandmate/internal/cache"
	"bandmate/internal/models"
	"bandmate/internal/observability"
	"bandmate/internal/repository"

	"github.com/google/uuid"
)

// InvitationService owns the invitation lifecycle: the submit rules for a
// pair, the accept transition that spawns a collaboration, and the
// decline transition that permanently blocks resubmission.
type InvitationService struct {
	invitationRepo  repository.InvitationRepository
	profileRepo     repository.ProfileRepository
	opportunityRepo repository.OpportunityRepository
}

// NewInvitationService returns a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	profileRepo repository.ProfileRepository,
	opportunityRepo repository.OpportunityRepository,
) *InvitationService {
	return &InvitationService{
		invitationRepo:  invitationRepo,
		profileRepo:     profileRepo,
		opportunityRepo: opportunityRepo,
	}
}

// InvitationInbox is the two-sided listing returned by ListInvitations.
type InvitationInbox struct {
	Received []models.Invitation `json:"received"`
	Sent     []models.Invitation `json:"sent"`
}

// SubmitInvitation runs the submit rules for the requester/target pair
// and creates a pending invitation when they allow it.
func (s *InvitationService) SubmitInvitation(ctx context.Context, requesterID, targetID uint, opportunityID *uint, message string) (*models.Invitation, error) {
	if targetID == 0 {
		return nil, s.submitRejected(models.NewValidationError("An invitation needs a target member"))
	}
	if requesterID == targetID {
		return nil, s.submitRejected(models.NewValidationError("You cannot invite yourself"))
	}

	if _, err := s.profileRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if opportunityID != nil {
		if _, err := s.opportunityRepo.GetByID(ctx, *opportunityID); err != nil {
			return nil, err
		}
	}

	history, err := s.invitationRepo.ListBetweenUsers(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}

	if verdict := submitDecision(history, requesterID, opportunityID); verdict != nil {
		return nil, s.submitRejected(verdict)
	}

	invitation := &models.Invitation{
		Token:         uuid.NewString(),
		FromUserID:    requesterID,
		ToUserID:      targetID,
		OpportunityID: opportunityID,
		Status:        models.InvitationStatusPending,
		Message:       message,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		// The partial unique index can reject a concurrent duplicate
		// that the history read raced past.
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, s.submitRejected(appErr)
		}
		observability.InvitationSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	observability.InvitationSubmissions.WithLabelValues("created").Inc()
	return s.invitationRepo.GetByID(ctx, invitation.ID)
}

func (s *InvitationService) submitRejected(verdict *models.AppError) *models.AppError {
	observability.InvitationSubmissions.WithLabelValues(outcomeLabel(verdict.Code)).Inc()
	return verdict
}

// AcceptInvitation flips a pending invitation addressed to the caller to
// accepted and creates the collaboration, atomically. The reputation
// counters on both profiles are then bumped as a best-effort follow-up:
// a failure there is logged and left for reconciliation, never undoing
// the acceptance.
func (s *InvitationService) AcceptInvitation(ctx context.Context, callerID, invitationID uint) (*models.Collaboration, error) {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation.ToUserID != callerID {
		return nil, models.NewUnauthorizedError("You can only accept invitations addressed to you")
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, models.NewValidationError("Invitation is not pending")
	}

	collaboration, err := s.invitationRepo.AcceptWithCollaboration(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, models.NewValidationError("Invitation is not pending")
		}
		return nil, err
	}
	observability.InvitationResolutions.WithLabelValues(string(models.InvitationStatusAccepted)).Inc()

	// Best-effort, outside the transaction on purpose.
	if err := s.profileRepo.IncrementAcceptedCollabs(ctx, invitation.FromUserID, invitation.ToUserID); err != nil {
		observability.CounterFollowupFailures.WithLabelValues("accepted_collabs").Inc()
		observability.LogAsyncOperationError(ctx, "increment_accepted_collabs", err, map[string]interface{}{
			"invitation_id": invitationID,
			"profiles":      []uint{invitation.FromUserID, invitation.ToUserID},
		})
	}
	cache.InvalidateProfile(ctx, invitation.FromUserID)
	cache.InvalidateProfile(ctx, invitation.ToUserID)

	return collaboration, nil
}

// RejectInvitation flips a pending invitation addressed to the caller to
// declined. The row stays around forever: the submit rules read it.
func (s *InvitationService) RejectInvitation(ctx context.Context, callerID, invitationID uint) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.ToUserID != callerID {
		return models.NewUnauthorizedError("You can only decline invitations addressed to you")
	}
	if invitation.Status != models.InvitationStatusPending {
		return models.NewValidationError("Invitation is not pending")
	}

	if err := s.invitationRepo.Decline(ctx, invitationID); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return models.NewValidationError("Invitation is not pending")
		}
		return err
	}
	observability.InvitationResolutions.WithLabelValues(string(models.InvitationStatusDeclined)).Inc()
	return nil
}

// ListInvitations returns the caller's received and sent invitations,
// newest first. Pure read.
func (s *InvitationService) ListInvitations(ctx context.Context, userID uint) (*InvitationInbox, error) {
	received, err := s.invitationRepo.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.invitationRepo.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &InvitationInbox{Received: received, Sent: sent}, nil
}

func outcomeLabel(code string) string {
	switch code {
	case models.CodeAlreadyConnected:
		return "already_connected"
	case models.CodeDuplicatePending:
		return "duplicate_pending"
	case models.CodePendingFromOther:
		return "pending_from_other"
	case models.CodeRetryBlockedScoped:
		return "retry_blocked_scoped"
	case models.CodeRetryBlockedGlobal:
		return "retry_blocked_global"
	}
	return "rejected"
}
