package repository

import (
	"context"
	"errors"
	"fmt"

	"bandmate/internal/models"

	"gorm.io/gorm"
)

// ErrNotPending is returned by AcceptWithCollaboration and Decline when the
// invitation already left the pending state, e.g. because a concurrent
// request resolved it first.
var ErrNotPending = errors.New("invitation is not pending")

// InvitationRepository defines the interface for invitation data operations.
// Invitation rows are never deleted; declined rows feed the ledger's
// resubmission rules.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id uint) (*models.Invitation, error)
	// ListBetweenUsers returns every invitation linking the unordered pair,
	// newest first.
	ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Invitation, error)
	ListReceived(ctx context.Context, userID uint) ([]models.Invitation, error)
	ListSent(ctx context.Context, userID uint) ([]models.Invitation, error)

	// AcceptWithCollaboration flips the invitation to accepted and inserts
	// the derived collaboration as one transaction. A crash can never
	// leave an accepted invitation without its collaboration. Returns
	// ErrNotPending when the row is no longer pending.
	AcceptWithCollaboration(ctx context.Context, invitationID uint) (*models.Collaboration, error)

	// Decline flips the invitation to declined. The row is retained.
	// Returns ErrNotPending when the row is no longer pending.
	Decline(ctx context.Context, invitationID uint) error
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository returns a new InvitationRepository implementation.
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		// The partial unique index over the normalized pair backstops the
		// ledger's read-then-write protocol under concurrent submissions.
		if isUniqueConstraintError(err) {
			return models.NewDuplicatePendingError(false)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id uint) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).Preload("From").Preload("To").First(&invitation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Invitation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &invitation, nil
}

func (r *invitationRepository) ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := readDB(r.db).WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invitations, nil
}

func (r *invitationRepository) ListReceived(ctx context.Context, userID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := readDB(r.db).WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Preload("From").
		Find(&invitations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invitations, nil
}

func (r *invitationRepository) ListSent(ctx context.Context, userID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := readDB(r.db).WithContext(ctx).
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Preload("To").
		Find(&invitations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invitations, nil
}

func (r *invitationRepository) AcceptWithCollaboration(ctx context.Context, invitationID uint) (*models.Collaboration, error) {
	var collaboration models.Collaboration

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := tx.First(&invitation, invitationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Invitation", invitationID)
			}
			return err
		}

		// Guard against a concurrent accept/decline racing this one.
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
			Update("status", models.InvitationStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		collaboration = models.Collaboration{
			InvitationID: invitation.ID,
			User1ID:      invitation.FromUserID,
			User2ID:      invitation.ToUserID,
		}
		return tx.Create(&collaboration).Error
	})

	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) || errors.Is(err, ErrNotPending) {
			return nil, err
		}
		return nil, models.NewInternalError(fmt.Errorf("accept invitation %d: %w", invitationID, err))
	}
	return &collaboration, nil
}

func (r *invitationRepository) Decline(ctx context.Context, invitationID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
		Update("status", models.InvitationStatusDeclined)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
