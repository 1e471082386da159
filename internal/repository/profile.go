package repository

import (
	"context"
	"errors"

	"bandmate/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	ReplaceSocialLinks(ctx context.Context, profileID uint, links []models.SocialLink) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)

	// IncrementAcceptedCollabs bumps the reputation counter on each given
	// profile. Best-effort: callers must not treat a failure here as
	// fatal, and it must never run inside the accept transaction. Drift
	// is reconciled out-of-band.
	IncrementAcceptedCollabs(ctx context.Context, profileIDs ...uint) error

	// IncrementProfileViews bumps the view counter. Same best-effort
	// semantics as IncrementAcceptedCollabs.
	IncrementProfileViews(ctx context.Context, profileID uint, delta int) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := readDB(r.db).WithContext(ctx).
		Preload("SocialLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := readDB(r.db).WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit("SocialLinks").Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) ReplaceSocialLinks(ctx context.Context, profileID uint, links []models.SocialLink) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ID = 0
			links[i].ProfileID = profileID
			links[i].Position = i
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	// Invitations and collaborations are historical records and survive
	// account deletion; only the profile row and its links go.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) IncrementAcceptedCollabs(ctx context.Context, profileIDs ...uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id IN ?", profileIDs).
		UpdateColumn("accepted_collabs", gorm.Expr("accepted_collabs + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) IncrementProfileViews(ctx context.Context, profileID uint, delta int) error {
	if delta <= 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("profile_views", gorm.Expr("profile_views + ?", delta)).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
