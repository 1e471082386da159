package service

import (
	"context"
	"testing"

	"bandmate/internal/models"
)

func TestCreateOpportunityUnderCap(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.countActiveByOwnerFn = func(context.Context, uint) (int64, error) { return 1, nil }
	var created *models.Opportunity
	opp.createFn = func(ctx context.Context, o *models.Opportunity) error {
		created = o
		o.ID = 9
		return nil
	}
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) { return created, nil }

	svc := NewOpportunityService(opp, noopStarRepo())
	result, err := svc.CreateOpportunity(context.Background(), 4, &models.Opportunity{
		LookingForRole: models.RoleProducer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserID != 4 {
		t.Fatalf("expected owner 4, got %d", result.UserID)
	}
	if result.Status != models.OpportunityStatusActive {
		t.Fatalf("expected default active status, got %s", result.Status)
	}
}

func TestCreateOpportunityAtCap(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.countActiveByOwnerFn = func(context.Context, uint) (int64, error) {
		return models.MaxActiveOpportunities, nil
	}
	opp.createFn = func(context.Context, *models.Opportunity) error {
		t.Fatal("create must not run at the cap")
		return nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	_, err := svc.CreateOpportunity(context.Background(), 4, &models.Opportunity{
		LookingForRole: models.RoleProducer,
	})
	assertAppErrorCode(t, err, models.CodeLimitExceeded)
}

func TestCreateInactiveOpportunitySkipsCap(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.countActiveByOwnerFn = func(context.Context, uint) (int64, error) {
		t.Fatal("cap check must not run for an inactive listing")
		return 0, nil
	}
	var created *models.Opportunity
	opp.createFn = func(ctx context.Context, o *models.Opportunity) error {
		created = o
		return nil
	}
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) { return created, nil }

	svc := NewOpportunityService(opp, noopStarRepo())
	_, err := svc.CreateOpportunity(context.Background(), 4, &models.Opportunity{
		LookingForRole: models.RoleProducer,
		Status:         models.OpportunityStatusInactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateOpportunityRequiresRole(t *testing.T) {
	svc := NewOpportunityService(noopOpportunityRepo(), noopStarRepo())
	_, err := svc.CreateOpportunity(context.Background(), 4, &models.Opportunity{})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUpdateOpportunityOwnerOnly(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) {
		return &models.Opportunity{ID: 9, UserID: 4, Status: models.OpportunityStatusActive}, nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	_, err := svc.UpdateOpportunity(context.Background(), 5, 9, &models.Opportunity{Location: "Berlin"})
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestReactivationReChecksCap(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) {
		return &models.Opportunity{ID: 9, UserID: 4, Status: models.OpportunityStatusInactive}, nil
	}
	opp.countActiveByOwnerFn = func(context.Context, uint) (int64, error) {
		return models.MaxActiveOpportunities, nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	_, err := svc.UpdateOpportunity(context.Background(), 4, 9, &models.Opportunity{
		Status: models.OpportunityStatusActive,
	})
	assertAppErrorCode(t, err, models.CodeLimitExceeded)
}

func TestDeactivationSkipsCap(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) {
		return &models.Opportunity{ID: 9, UserID: 4, Status: models.OpportunityStatusActive}, nil
	}
	opp.countActiveByOwnerFn = func(context.Context, uint) (int64, error) {
		t.Fatal("cap check must not run when deactivating")
		return 0, nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	result, err := svc.UpdateOpportunity(context.Background(), 4, 9, &models.Opportunity{
		Status: models.OpportunityStatusInactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.OpportunityStatusInactive {
		t.Fatalf("expected inactive, got %s", result.Status)
	}
}

func TestDeleteOpportunityOwnerOnly(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(context.Context, uint) (*models.Opportunity, error) {
		return &models.Opportunity{ID: 9, UserID: 4}, nil
	}
	deleted := false
	opp.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	err := svc.DeleteOpportunity(context.Background(), 5, 9)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
	if deleted {
		t.Fatal("delete must not run for a non-owner")
	}

	if err := svc.DeleteOpportunity(context.Background(), 4, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected the opportunity deleted")
	}
}

func TestToggleStarReportsChange(t *testing.T) {
	star := noopStarRepo()
	svc := NewOpportunityService(noopOpportunityRepo(), star)

	// First star changes state.
	result, err := svc.ToggleStar(context.Background(), 1, 9, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Starred || !result.Changed {
		t.Fatalf("expected changed starred result, got %+v", result)
	}

	// Repeating the same intent is an informational no-op.
	star.starFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
	result, err = svc.ToggleStar(context.Background(), 1, 9, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Starred || result.Changed {
		t.Fatalf("expected unchanged starred result, got %+v", result)
	}

	// Unstarring removes it again.
	result, err = svc.ToggleStar(context.Background(), 1, 9, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Starred || !result.Changed {
		t.Fatalf("expected changed unstarred result, got %+v", result)
	}
}

func TestToggleStarUnknownOpportunity(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.getByIDFn = func(ctx context.Context, id uint) (*models.Opportunity, error) {
		return nil, models.NewNotFoundError("Opportunity", id)
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	_, err := svc.ToggleStar(context.Background(), 1, 99, true)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestBrowseFallsBackToRepository(t *testing.T) {
	opp := noopOpportunityRepo()
	opp.listActiveFn = func(ctx context.Context, limit, offset int) ([]models.Opportunity, error) {
		return []models.Opportunity{{ID: 1}, {ID: 2}}, nil
	}

	svc := NewOpportunityService(opp, noopStarRepo())
	results, err := svc.Browse(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(results))
	}
}
