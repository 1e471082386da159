package service

import (
	"context"
	"errors"
	"testing"

	"bandmate/internal/models"
	"bandmate/internal/repository"
)

func newInvitationService(inv *invitationRepoStub, prof *profileRepoStub, opp *opportunityRepoStub) *InvitationService {
	return NewInvitationService(inv, prof, opp)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

func TestSubmitInvitationSelf(t *testing.T) {
	svc := newInvitationService(noopInvitationRepo(), noopProfileRepo(), noopOpportunityRepo())
	_, err := svc.SubmitInvitation(context.Background(), 3, 3, nil, "")
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestSubmitInvitationUnknownTarget(t *testing.T) {
	prof := noopProfileRepo()
	prof.getByIDFn = func(ctx context.Context, id uint) (*models.Profile, error) {
		return nil, models.NewNotFoundError("Profile", id)
	}
	svc := newInvitationService(noopInvitationRepo(), prof, noopOpportunityRepo())
	_, err := svc.SubmitInvitation(context.Background(), 1, 99, nil, "")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestSubmitInvitationUnknownOpportunity(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(ctx context.Context, id uint) (*models.Opportunity, error) {
		return nil, models.NewNotFoundError("Opportunity", id)
	}
	svc := newInvitationService(noopInvitationRepo(), noopProfileRepo(), opp)
	_, err := svc.SubmitInvitation(context.Background(), 1, 2, uintPtr(44), "")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestSubmitInvitationCreatesPending(t *testing.T) {
	inv := noopInvitationRepo()
	var created *models.Invitation
	inv.createFn = func(ctx context.Context, invitation *models.Invitation) error {
		created = invitation
		invitation.ID = 10
		return nil
	}
	inv.getByIDFn = func(ctx context.Context, id uint) (*models.Invitation, error) {
		return created, nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	result, err := svc.SubmitInvitation(context.Background(), 1, 2, uintPtr(7), "let's make a track")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FromUserID != 1 || result.ToUserID != 2 {
		t.Fatalf("unexpected parties: %d -> %d", result.FromUserID, result.ToUserID)
	}
	if result.Status != models.InvitationStatusPending {
		t.Fatalf("expected pending, got %s", result.Status)
	}
	if result.OpportunityID == nil || *result.OpportunityID != 7 {
		t.Fatal("expected opportunity scope to be preserved")
	}
	if result.Token == "" {
		t.Fatal("expected a token to be assigned")
	}
}

func TestSubmitInvitationBlockedByHistory(t *testing.T) {
	inv := noopInvitationRepo()
	inv.listBetweenUsersFn = func(context.Context, uint, uint) ([]models.Invitation, error) {
		return []models.Invitation{
			{FromUserID: 2, ToUserID: 1, Status: models.InvitationStatusAccepted},
		}, nil
	}
	inv.createFn = func(context.Context, *models.Invitation) error {
		t.Fatal("create must not be called when history blocks the submit")
		return nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	_, err := svc.SubmitInvitation(context.Background(), 1, 2, nil, "")
	assertAppErrorCode(t, err, models.CodeAlreadyConnected)
}

func TestSubmitInvitationConcurrentDuplicate(t *testing.T) {
	inv := noopInvitationRepo()
	inv.createFn = func(context.Context, *models.Invitation) error {
		return models.NewDuplicatePendingError(false)
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	_, err := svc.SubmitInvitation(context.Background(), 1, 2, nil, "")
	assertAppErrorCode(t, err, models.CodeDuplicatePending)
}

func TestAcceptInvitationWrongParty(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusPending}, nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())

	// The sender cannot accept their own invitation.
	_, err := svc.AcceptInvitation(context.Background(), 1, 5)
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	// Neither can a third party.
	_, err = svc.AcceptInvitation(context.Background(), 9, 5)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestAcceptInvitationNotPending(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusDeclined}, nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	_, err := svc.AcceptInvitation(context.Background(), 2, 5)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestAcceptInvitationLostRace(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusPending}, nil
	}
	inv.acceptWithCollaborationFn = func(context.Context, uint) (*models.Collaboration, error) {
		return nil, repository.ErrNotPending
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	_, err := svc.AcceptInvitation(context.Background(), 2, 5)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestAcceptInvitationBumpsBothCounters(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusPending}, nil
	}
	inv.acceptWithCollaborationFn = func(ctx context.Context, invitationID uint) (*models.Collaboration, error) {
		return &models.Collaboration{ID: 3, InvitationID: invitationID, User1ID: 1, User2ID: 2}, nil
	}

	prof := noopProfileRepo()
	var bumped []uint
	prof.incrementAcceptedFn = func(ctx context.Context, ids ...uint) error {
		bumped = append(bumped, ids...)
		return nil
	}

	svc := newInvitationService(inv, prof, noopOpportunityRepo())
	collab, err := svc.AcceptInvitation(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collab.InvitationID != 5 {
		t.Fatalf("expected collaboration for invitation 5, got %d", collab.InvitationID)
	}
	if len(bumped) != 2 || bumped[0] != 1 || bumped[1] != 2 {
		t.Fatalf("expected both parties bumped, got %v", bumped)
	}
}

func TestAcceptInvitationCounterFailureDoesNotUndo(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusPending}, nil
	}

	prof := noopProfileRepo()
	prof.incrementAcceptedFn = func(context.Context, ...uint) error {
		return errors.New("database gone")
	}

	svc := newInvitationService(inv, prof, noopOpportunityRepo())
	collab, err := svc.AcceptInvitation(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("acceptance must survive a counter failure, got %v", err)
	}
	if collab == nil {
		t.Fatal("expected the collaboration back")
	}
}

func TestRejectInvitation(t *testing.T) {
	inv := noopInvitationRepo()
	inv.getByIDFn = func(context.Context, uint) (*models.Invitation, error) {
		return &models.Invitation{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.InvitationStatusPending}, nil
	}
	var declined uint
	inv.declineFn = func(ctx context.Context, invitationID uint) error {
		declined = invitationID
		return nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	if err := svc.RejectInvitation(context.Background(), 2, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if declined != 5 {
		t.Fatalf("expected invitation 5 declined, got %d", declined)
	}

	err := svc.RejectInvitation(context.Background(), 1, 5)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestListInvitations(t *testing.T) {
	inv := noopInvitationRepo()
	inv.listReceivedFn = func(context.Context, uint) ([]models.Invitation, error) {
		return []models.Invitation{{ID: 1}, {ID: 2}}, nil
	}
	inv.listSentFn = func(context.Context, uint) ([]models.Invitation, error) {
		return []models.Invitation{{ID: 3}}, nil
	}

	svc := newInvitationService(inv, noopProfileRepo(), noopOpportunityRepo())
	inbox, err := svc.ListInvitations(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inbox.Received) != 2 || len(inbox.Sent) != 1 {
		t.Fatalf("unexpected inbox sizes: %d received, %d sent", len(inbox.Received), len(inbox.Sent))
	}
}
