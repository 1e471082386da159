package repository

import (
	"context"
	"errors"

	"bandmate/internal/models"

	"gorm.io/gorm"
)

// OpportunityRepository defines the interface for opportunity data operations.
type OpportunityRepository interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	GetByID(ctx context.Context, id uint) (*models.Opportunity, error)
	Update(ctx context.Context, opportunity *models.Opportunity) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Opportunity, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.Opportunity, error)
	CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository returns a new OpportunityRepository implementation.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	if err := r.db.WithContext(ctx).Create(opportunity).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *opportunityRepository) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := readDB(r.db).WithContext(ctx).Preload("Owner").First(&opportunity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Opportunity", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &opportunity, nil
}

func (r *opportunityRepository) Update(ctx context.Context, opportunity *models.Opportunity) error {
	if err := r.db.WithContext(ctx).Save(opportunity).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *opportunityRepository) Delete(ctx context.Context, id uint) error {
	// Stars on the listing go with it; invitations that referenced it keep
	// their opportunity_id as historical context.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.StarredOpportunity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Opportunity{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *opportunityRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&opportunities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return opportunities, nil
}

func (r *opportunityRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	if err := readDB(r.db).WithContext(ctx).
		Where("status = ?", models.OpportunityStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Owner").
		Find(&opportunities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return opportunities, nil
}

func (r *opportunityRepository) CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Opportunity{}).
		Where("user_id = ? AND status = ?", ownerID, models.OpportunityStatusActive).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
