package service

import (
	"context"

	"bandmate/internal/models"
	"bandmate/internal/repository"
)

// CollaborationService reads and annotates the collaboration registry.
// Collaborations are only ever created by the invitation accept
// transaction; this service never inserts.
type CollaborationService struct {
	collaborationRepo repository.CollaborationRepository
}

// NewCollaborationService returns a new CollaborationService.
func NewCollaborationService(collaborationRepo repository.CollaborationRepository) *CollaborationService {
	return &CollaborationService{collaborationRepo: collaborationRepo}
}

// CollaborationEntry is a collaboration viewed from one party's side,
// with the other party's profile resolved.
type CollaborationEntry struct {
	models.Collaboration
	Partner *models.Profile `json:"partner,omitempty"`
}

// ListForUser returns the caller's collaborations with each partner
// profile attached. A partner whose account was since deleted shows up
// with a nil Partner; the collaboration row outlives the account.
func (s *CollaborationService) ListForUser(ctx context.Context, userID uint) ([]CollaborationEntry, error) {
	collaborations, err := s.collaborationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]CollaborationEntry, 0, len(collaborations))
	for _, collab := range collaborations {
		entry := CollaborationEntry{Collaboration: collab}
		partner := collab.User1
		if partner.ID == userID {
			partner = collab.User2
		}
		if partner.ID != 0 {
			entry.Partner = &partner
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MarkVerified sets the verified flag. Only a party of the collaboration
// may flag it.
func (s *CollaborationService) MarkVerified(ctx context.Context, callerID, collaborationID uint, verified bool) error {
	if err := s.authorize(ctx, callerID, collaborationID); err != nil {
		return err
	}
	return s.collaborationRepo.SetVerified(ctx, collaborationID, verified)
}

// MarkCompleted sets the completed flag. Only a party of the
// collaboration may flag it.
func (s *CollaborationService) MarkCompleted(ctx context.Context, callerID, collaborationID uint, completed bool) error {
	if err := s.authorize(ctx, callerID, collaborationID); err != nil {
		return err
	}
	return s.collaborationRepo.SetCompleted(ctx, collaborationID, completed)
}

func (s *CollaborationService) authorize(ctx context.Context, callerID, collaborationID uint) error {
	collab, err := s.collaborationRepo.GetByID(ctx, collaborationID)
	if err != nil {
		return err
	}
	if !collab.Involves(callerID) {
		return models.NewUnauthorizedError("You are not a party of this collaboration")
	}
	return nil
}
