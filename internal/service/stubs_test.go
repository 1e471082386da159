package service

import (
	"context"

	"bandmate/internal/models"
)

type invitationRepoStub struct {
	createFn                  func(context.Context, *models.Invitation) error
	getByIDFn                 func(context.Context, uint) (*models.Invitation, error)
	listBetweenUsersFn        func(context.Context, uint, uint) ([]models.Invitation, error)
	listReceivedFn            func(context.Context, uint) ([]models.Invitation, error)
	listSentFn                func(context.Context, uint) ([]models.Invitation, error)
	acceptWithCollaborationFn func(context.Context, uint) (*models.Collaboration, error)
	declineFn                 func(context.Context, uint) error
}

func (s *invitationRepoStub) Create(ctx context.Context, invitation *models.Invitation) error {
	return s.createFn(ctx, invitation)
}
func (s *invitationRepoStub) GetByID(ctx context.Context, id uint) (*models.Invitation, error) {
	return s.getByIDFn(ctx, id)
}
func (s *invitationRepoStub) ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Invitation, error) {
	return s.listBetweenUsersFn(ctx, userID1, userID2)
}
func (s *invitationRepoStub) ListReceived(ctx context.Context, userID uint) ([]models.Invitation, error) {
	return s.listReceivedFn(ctx, userID)
}
func (s *invitationRepoStub) ListSent(ctx context.Context, userID uint) ([]models.Invitation, error) {
	return s.listSentFn(ctx, userID)
}
func (s *invitationRepoStub) AcceptWithCollaboration(ctx context.Context, invitationID uint) (*models.Collaboration, error) {
	return s.acceptWithCollaborationFn(ctx, invitationID)
}
func (s *invitationRepoStub) Decline(ctx context.Context, invitationID uint) error {
	return s.declineFn(ctx, invitationID)
}

func noopInvitationRepo() *invitationRepoStub {
	return &invitationRepoStub{
		createFn:           func(context.Context, *models.Invitation) error { return nil },
		getByIDFn:          func(context.Context, uint) (*models.Invitation, error) { return &models.Invitation{}, nil },
		listBetweenUsersFn: func(context.Context, uint, uint) ([]models.Invitation, error) { return nil, nil },
		listReceivedFn:     func(context.Context, uint) ([]models.Invitation, error) { return nil, nil },
		listSentFn:         func(context.Context, uint) ([]models.Invitation, error) { return nil, nil },
		acceptWithCollaborationFn: func(context.Context, uint) (*models.Collaboration, error) {
			return &models.Collaboration{}, nil
		},
		declineFn: func(context.Context, uint) error { return nil },
	}
}

type profileRepoStub struct {
	createFn                func(context.Context, *models.Profile) error
	getByIDFn               func(context.Context, uint) (*models.Profile, error)
	getByEmailFn            func(context.Context, string) (*models.Profile, error)
	updateFn                func(context.Context, *models.Profile) error
	replaceSocialLinksFn    func(context.Context, uint, []models.SocialLink) error
	deleteFn                func(context.Context, uint) error
	listFn                  func(context.Context, int, int) ([]models.Profile, error)
	incrementAcceptedFn     func(context.Context, ...uint) error
	incrementProfileViewsFn func(context.Context, uint, int) error
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) ReplaceSocialLinks(ctx context.Context, profileID uint, links []models.SocialLink) error {
	return s.replaceSocialLinksFn(ctx, profileID, links)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *profileRepoStub) IncrementAcceptedCollabs(ctx context.Context, profileIDs ...uint) error {
	return s.incrementAcceptedFn(ctx, profileIDs...)
}
func (s *profileRepoStub) IncrementProfileViews(ctx context.Context, profileID uint, delta int) error {
	return s.incrementProfileViewsFn(ctx, profileID, delta)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn:                func(context.Context, *models.Profile) error { return nil },
		getByIDFn:               func(context.Context, uint) (*models.Profile, error) { return &models.Profile{}, nil },
		getByEmailFn:            func(context.Context, string) (*models.Profile, error) { return nil, nil },
		updateFn:                func(context.Context, *models.Profile) error { return nil },
		replaceSocialLinksFn:    func(context.Context, uint, []models.SocialLink) error { return nil },
		deleteFn:                func(context.Context, uint) error { return nil },
		listFn:                  func(context.Context, int, int) ([]models.Profile, error) { return nil, nil },
		incrementAcceptedFn:     func(context.Context, ...uint) error { return nil },
		incrementProfileViewsFn: func(context.Context, uint, int) error { return nil },
	}
}

type opportunityRepoStub struct {
	createFn             func(context.Context, *models.Opportunity) error
	getByIDFn            func(context.Context, uint) (*models.Opportunity, error)
	updateFn             func(context.Context, *models.Opportunity) error
	deleteFn             func(context.Context, uint) error
	listByOwnerFn        func(context.Context, uint) ([]models.Opportunity, error)
	listActiveFn         func(context.Context, int, int) ([]models.Opportunity, error)
	countActiveByOwnerFn func(context.Context, uint) (int64, error)
}

func (s *opportunityRepoStub) Create(ctx context.Context, opportunity *models.Opportunity) error {
	return s.createFn(ctx, opportunity)
}
func (s *opportunityRepoStub) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	return s.getByIDFn(ctx, id)
}
func (s *opportunityRepoStub) Update(ctx context.Context, opportunity *models.Opportunity) error {
	return s.updateFn(ctx, opportunity)
}
func (s *opportunityRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *opportunityRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]models.Opportunity, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *opportunityRepoStub) ListActive(ctx context.Context, limit, offset int) ([]models.Opportunity, error) {
	return s.listActiveFn(ctx, limit, offset)
}
func (s *opportunityRepoStub) CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error) {
	return s.countActiveByOwnerFn(ctx, ownerID)
}

func noopOpportunityRepo() *opportunityRepoStub {
	return &opportunityRepoStub{
		createFn:  func(context.Context, *models.Opportunity) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.Opportunity, error) { return &models.Opportunity{}, nil },
		updateFn:  func(context.Context, *models.Opportunity) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		listByOwnerFn: func(context.Context, uint) ([]models.Opportunity, error) {
			return nil, nil
		},
		listActiveFn: func(context.Context, int, int) ([]models.Opportunity, error) {
			return nil, nil
		},
		countActiveByOwnerFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type collaborationRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.Collaboration, error)
	getByInvitationIDFn func(context.Context, uint) (*models.Collaboration, error)
	listForUserFn       func(context.Context, uint) ([]models.Collaboration, error)
	listBetweenUsersFn  func(context.Context, uint, uint) ([]models.Collaboration, error)
	setVerifiedFn       func(context.Context, uint, bool) error
	setCompletedFn      func(context.Context, uint, bool) error
}

func (s *collaborationRepoStub) GetByID(ctx context.Context, id uint) (*models.Collaboration, error) {
	return s.getByIDFn(ctx, id)
}
func (s *collaborationRepoStub) GetByInvitationID(ctx context.Context, invitationID uint) (*models.Collaboration, error) {
	return s.getByInvitationIDFn(ctx, invitationID)
}
func (s *collaborationRepoStub) ListForUser(ctx context.Context, userID uint) ([]models.Collaboration, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *collaborationRepoStub) ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Collaboration, error) {
	return s.listBetweenUsersFn(ctx, userID1, userID2)
}
func (s *collaborationRepoStub) SetVerified(ctx context.Context, collaborationID uint, verified bool) error {
	return s.setVerifiedFn(ctx, collaborationID, verified)
}
func (s *collaborationRepoStub) SetCompleted(ctx context.Context, collaborationID uint, completed bool) error {
	return s.setCompletedFn(ctx, collaborationID, completed)
}

func noopCollaborationRepo() *collaborationRepoStub {
	return &collaborationRepoStub{
		getByIDFn: func(context.Context, uint) (*models.Collaboration, error) {
			return &models.Collaboration{}, nil
		},
		getByInvitationIDFn: func(context.Context, uint) (*models.Collaboration, error) {
			return &models.Collaboration{}, nil
		},
		listForUserFn:      func(context.Context, uint) ([]models.Collaboration, error) { return nil, nil },
		listBetweenUsersFn: func(context.Context, uint, uint) ([]models.Collaboration, error) { return nil, nil },
		setVerifiedFn:      func(context.Context, uint, bool) error { return nil },
		setCompletedFn:     func(context.Context, uint, bool) error { return nil },
	}
}

type starRepoStub struct {
	starFn        func(context.Context, uint, uint) (bool, error)
	unstarFn      func(context.Context, uint, uint) (bool, error)
	isStarredFn   func(context.Context, uint, uint) (bool, error)
	listForUserFn func(context.Context, uint) ([]models.StarredOpportunity, error)
}

func (s *starRepoStub) Star(ctx context.Context, userID, opportunityID uint) (bool, error) {
	return s.starFn(ctx, userID, opportunityID)
}
func (s *starRepoStub) Unstar(ctx context.Context, userID, opportunityID uint) (bool, error) {
	return s.unstarFn(ctx, userID, opportunityID)
}
func (s *starRepoStub) IsStarred(ctx context.Context, userID, opportunityID uint) (bool, error) {
	return s.isStarredFn(ctx, userID, opportunityID)
}
func (s *starRepoStub) ListForUser(ctx context.Context, userID uint) ([]models.StarredOpportunity, error) {
	return s.listForUserFn(ctx, userID)
}

func noopStarRepo() *starRepoStub {
	return &starRepoStub{
		starFn:      func(context.Context, uint, uint) (bool, error) { return true, nil },
		unstarFn:    func(context.Context, uint, uint) (bool, error) { return true, nil },
		isStarredFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		listForUserFn: func(context.Context, uint) ([]models.StarredOpportunity, error) {
			return nil, nil
		},
	}
}
