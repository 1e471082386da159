package repository

import (
	"context"
	"errors"

	"bandmate/internal/models"

	"gorm.io/gorm"
)

// CollaborationRepository defines the interface for collaboration data
// operations. Creation happens only inside the invitation accept
// transaction, so there is no Create here; rows are never deleted in
// normal operation.
type CollaborationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Collaboration, error)
	GetByInvitationID(ctx context.Context, invitationID uint) (*models.Collaboration, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Collaboration, error)
	ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Collaboration, error)
	SetVerified(ctx context.Context, collaborationID uint, verified bool) error
	SetCompleted(ctx context.Context, collaborationID uint, completed bool) error
}

type collaborationRepository struct {
	db *gorm.DB
}

// NewCollaborationRepository returns a new CollaborationRepository implementation.
func NewCollaborationRepository(db *gorm.DB) CollaborationRepository {
	return &collaborationRepository{db: db}
}

func (r *collaborationRepository) GetByID(ctx context.Context, id uint) (*models.Collaboration, error) {
	var collaboration models.Collaboration
	if err := readDB(r.db).WithContext(ctx).First(&collaboration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collaboration", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &collaboration, nil
}

func (r *collaborationRepository) GetByInvitationID(ctx context.Context, invitationID uint) (*models.Collaboration, error) {
	var collaboration models.Collaboration
	if err := readDB(r.db).WithContext(ctx).
		Where("invitation_id = ?", invitationID).
		First(&collaboration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collaboration", invitationID)
		}
		return nil, models.NewInternalError(err)
	}
	return &collaboration, nil
}

func (r *collaborationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Collaboration, error) {
	var collaborations []models.Collaboration
	if err := readDB(r.db).WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Preload("User1").
		Preload("User2").
		Find(&collaborations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return collaborations, nil
}

func (r *collaborationRepository) ListBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.Collaboration, error) {
	var collaborations []models.Collaboration
	if err := readDB(r.db).WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at DESC").
		Find(&collaborations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return collaborations, nil
}

func (r *collaborationRepository) SetVerified(ctx context.Context, collaborationID uint, verified bool) error {
	return r.setFlag(ctx, collaborationID, "verified", verified)
}

func (r *collaborationRepository) SetCompleted(ctx context.Context, collaborationID uint, completed bool) error {
	return r.setFlag(ctx, collaborationID, "completed", completed)
}

func (r *collaborationRepository) setFlag(ctx context.Context, collaborationID uint, column string, value bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Collaboration{}).
		Where("id = ?", collaborationID).
		Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Collaboration", collaborationID)
	}
	return nil
}
