package service

import (
	"context"

	"bandmate/internal/cache"
	"bandmate/internal/models"
	"bandmate/internal/observability"
	"bandmate/internal/repository"
)

// OpportunityService manages opportunity posts, the per-member active
// cap, and star bookmarks.
type OpportunityService struct {
	opportunityRepo repository.OpportunityRepository
	starRepo        repository.StarRepository
}

// NewOpportunityService returns a new OpportunityService.
func NewOpportunityService(
	opportunityRepo repository.OpportunityRepository,
	starRepo repository.StarRepository,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		starRepo:        starRepo,
	}
}

// StarResult reports what a toggle call did. Changed is false when the
// bookmark was already in the requested state.
type StarResult struct {
	Starred bool `json:"starred"`
	Changed bool `json:"changed"`
}

// CanPost reports whether the owner is below the active opportunity cap.
func (s *OpportunityService) CanPost(ctx context.Context, ownerID uint) (bool, error) {
	count, err := s.opportunityRepo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return count < models.MaxActiveOpportunities, nil
}

// CreateOpportunity posts a new opportunity for the owner, enforcing the
// active cap.
func (s *OpportunityService) CreateOpportunity(ctx context.Context, ownerID uint, opportunity *models.Opportunity) (*models.Opportunity, error) {
	opportunity.UserID = ownerID
	if opportunity.Status == "" {
		opportunity.Status = models.OpportunityStatusActive
	}
	if !opportunity.Status.Valid() {
		return nil, models.NewValidationError("Unknown opportunity status")
	}
	if !opportunity.LookingForRole.Valid() {
		return nil, models.NewValidationError("An opportunity needs a role it is looking for")
	}

	if opportunity.Status == models.OpportunityStatusActive {
		if err := s.enforceCap(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	if err := s.opportunityRepo.Create(ctx, opportunity); err != nil {
		return nil, err
	}
	cache.InvalidateBrowse(ctx)
	return s.opportunityRepo.GetByID(ctx, opportunity.ID)
}

// UpdateOpportunity applies owner edits. Reactivating an inactive
// opportunity re-runs the cap check, so deactivate-then-reactivate
// cannot be used to exceed it.
func (s *OpportunityService) UpdateOpportunity(ctx context.Context, callerID, opportunityID uint, updates *models.Opportunity) (*models.Opportunity, error) {
	existing, err := s.opportunityRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, models.NewUnauthorizedError("You can only edit your own opportunities")
	}

	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.LookingForRole != "" {
		if !updates.LookingForRole.Valid() {
			return nil, models.NewValidationError("Unknown role")
		}
		existing.LookingForRole = updates.LookingForRole
	}
	if updates.Genres != "" {
		existing.Genres = updates.Genres
	}
	if updates.Location != "" {
		existing.Location = updates.Location
	}
	if updates.CollabType != "" {
		existing.CollabType = updates.CollabType
	}
	if updates.Status != "" {
		if !updates.Status.Valid() {
			return nil, models.NewValidationError("Unknown opportunity status")
		}
		reactivating := existing.Status != models.OpportunityStatusActive &&
			updates.Status == models.OpportunityStatusActive
		if reactivating {
			if err := s.enforceCap(ctx, callerID); err != nil {
				return nil, err
			}
		}
		existing.Status = updates.Status
	}

	if err := s.opportunityRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	cache.InvalidateBrowse(ctx)
	return existing, nil
}

// DeleteOpportunity removes an opportunity and its stars. Invitations
// that referenced it keep their opportunity_id for the submit rules.
func (s *OpportunityService) DeleteOpportunity(ctx context.Context, callerID, opportunityID uint) error {
	existing, err := s.opportunityRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		return models.NewUnauthorizedError("You can only delete your own opportunities")
	}
	if err := s.opportunityRepo.Delete(ctx, opportunityID); err != nil {
		return err
	}
	cache.InvalidateBrowse(ctx)
	return nil
}

// GetOpportunity fetches one opportunity.
func (s *OpportunityService) GetOpportunity(ctx context.Context, opportunityID uint) (*models.Opportunity, error) {
	return s.opportunityRepo.GetByID(ctx, opportunityID)
}

// ListByOwner returns all of an owner's opportunities, any status.
func (s *OpportunityService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Opportunity, error) {
	return s.opportunityRepo.ListByOwner(ctx, ownerID)
}

// Browse returns the active opportunity feed, cache-aside on the first
// page shape so the hot listing does not hit the database every time.
func (s *OpportunityService) Browse(ctx context.Context, limit, offset int) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := cache.Aside(ctx, cache.BrowseKey(limit, offset), &opportunities, cache.BrowseTTL, func() error {
		var err error
		opportunities, err = s.opportunityRepo.ListActive(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return opportunities, nil
}

// ToggleStar sets the caller's bookmark on an opportunity to the
// requested state. Repeating a call with the same state is reported as
// unchanged rather than failing, so a stale client cannot accidentally
// undo itself.
func (s *OpportunityService) ToggleStar(ctx context.Context, userID, opportunityID uint, starred bool) (*StarResult, error) {
	if _, err := s.opportunityRepo.GetByID(ctx, opportunityID); err != nil {
		return nil, err
	}

	var changed bool
	var err error
	if starred {
		changed, err = s.starRepo.Star(ctx, userID, opportunityID)
	} else {
		changed, err = s.starRepo.Unstar(ctx, userID, opportunityID)
	}
	if err != nil {
		return nil, err
	}
	return &StarResult{Starred: starred, Changed: changed}, nil
}

// ListStarred returns the caller's bookmarked opportunities, most
// recently starred first.
func (s *OpportunityService) ListStarred(ctx context.Context, userID uint) ([]models.StarredOpportunity, error) {
	return s.starRepo.ListForUser(ctx, userID)
}

func (s *OpportunityService) enforceCap(ctx context.Context, ownerID uint) error {
	count, err := s.opportunityRepo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if count >= models.MaxActiveOpportunities {
		observability.OpportunityCapRejections.Inc()
		return models.NewLimitExceededError(models.MaxActiveOpportunities)
	}
	return nil
}
