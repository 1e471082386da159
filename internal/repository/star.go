package repository

import (
	"context"

	"bandmate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StarRepository defines the interface for starred-opportunity bookkeeping.
type StarRepository interface {
	// Star bookmarks the opportunity. Returns false when the star already
	// existed; the unique (user_id, opportunity_id) constraint makes the
	// duplicate attempt a no-op rather than an error.
	Star(ctx context.Context, userID, opportunityID uint) (bool, error)
	// Unstar removes the bookmark. Returns false when no star existed.
	Unstar(ctx context.Context, userID, opportunityID uint) (bool, error)
	IsStarred(ctx context.Context, userID, opportunityID uint) (bool, error)
	// ListForUser returns the user's stars, most recently starred first.
	ListForUser(ctx context.Context, userID uint) ([]models.StarredOpportunity, error)
}

type starRepository struct {
	db *gorm.DB
}

// NewStarRepository returns a new StarRepository implementation.
func NewStarRepository(db *gorm.DB) StarRepository {
	return &starRepository{db: db}
}

func (r *starRepository) Star(ctx context.Context, userID, opportunityID uint) (bool, error) {
	star := models.StarredOpportunity{
		UserID:        userID,
		OpportunityID: opportunityID,
	}
	// OnConflict DoNothing turns a duplicate star into RowsAffected == 0.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&star)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *starRepository) Unstar(ctx context.Context, userID, opportunityID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		Delete(&models.StarredOpportunity{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *starRepository) IsStarred(ctx context.Context, userID, opportunityID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.StarredOpportunity{}).
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *starRepository) ListForUser(ctx context.Context, userID uint) ([]models.StarredOpportunity, error) {
	var stars []models.StarredOpportunity
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Opportunity").
		Preload("Opportunity.Owner").
		Find(&stars).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stars, nil
}
