package service

import (
	"context"

	"bandmate/internal/cache"
	"bandmate/internal/models"
	"bandmate/internal/observability"
	"bandmate/internal/repository"
	"bandmate/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProfileService owns account and profile lifecycle: registration,
// authentication, edits, view counting, and account deletion.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService returns a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// Register creates a new account with a hashed password.
func (s *ProfileService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(input.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRole(input.Role); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("An account with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	profile := &models.Profile{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
		Role:     input.Role,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Authenticate verifies the credentials and returns the profile. The
// same error covers an unknown email and a wrong password.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return profile, nil
}

// GetProfile fetches a profile by id, cache-aside. The caller is
// responsible for visibility gating before serving it to a viewer.
func (s *ProfileService) GetProfile(ctx context.Context, profileID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(profileID), &profile, cache.ProfileTTL, func() error {
		fetched, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		profile = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RecordProfileView counts a view of the subject by the viewer. Views
// buffer in Redis and flush to the database in batches; when Redis is
// down they go straight to the database. Either path is best-effort.
func (s *ProfileService) RecordProfileView(ctx context.Context, viewerID, subjectID uint) {
	if viewerID == subjectID {
		return
	}
	if cache.BufferProfileView(ctx, subjectID) {
		return
	}
	if err := s.profileRepo.IncrementProfileViews(ctx, subjectID, 1); err != nil {
		observability.CounterFollowupFailures.WithLabelValues("profile_views").Inc()
		observability.LogAsyncOperationError(ctx, "increment_profile_views", err, map[string]interface{}{
			"profile_id": subjectID,
		})
	}
}

// FlushProfileViews drains the buffered view count for a profile into
// the database. Called when the subject loads their own profile, so the
// counter they see is current.
func (s *ProfileService) FlushProfileViews(ctx context.Context, profileID uint) {
	buffered := cache.DrainProfileViews(ctx, profileID)
	if buffered == 0 {
		return
	}
	if err := s.profileRepo.IncrementProfileViews(ctx, profileID, buffered); err != nil {
		observability.CounterFollowupFailures.WithLabelValues("profile_views").Inc()
		observability.LogAsyncOperationError(ctx, "flush_profile_views", err, map[string]interface{}{
			"profile_id": profileID,
			"buffered":   buffered,
		})
		return
	}
	cache.InvalidateProfile(ctx, profileID)
}

// UpdateInput carries the editable profile fields. Nil pointers leave
// the current value untouched.
type UpdateInput struct {
	Name            *string      `json:"name"`
	Role            *models.Role `json:"role"`
	Bio             *string      `json:"bio"`
	Genres          *string      `json:"genres"`
	Location        *string      `json:"location"`
	Availability    *string      `json:"availability"`
	Skills          *string      `json:"skills"`
	ExperienceLevel *string      `json:"experience_level"`
	CollabType      *string      `json:"collab_type"`
	Avatar          *string      `json:"avatar"`
	PrivateMode     *bool        `json:"private_mode"`
	SocialLinks     []string     `json:"social_links"`
}

// UpdateProfile applies edits to the caller's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID uint, input UpdateInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validation.ValidateName(*input.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Name = *input.Name
	}
	if input.Role != nil {
		if err := validation.ValidateRole(*input.Role); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Role = *input.Role
	}
	if input.Bio != nil {
		if err := validation.ValidateBio(*input.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Bio = *input.Bio
	}
	if input.Genres != nil {
		profile.Genres = validation.NormalizeList(*input.Genres)
	}
	if input.Location != nil {
		profile.Location = *input.Location
	}
	if input.Availability != nil {
		profile.Availability = *input.Availability
	}
	if input.Skills != nil {
		profile.Skills = validation.NormalizeList(*input.Skills)
	}
	if input.ExperienceLevel != nil {
		profile.ExperienceLevel = *input.ExperienceLevel
	}
	if input.CollabType != nil {
		profile.CollabType = *input.CollabType
	}
	if input.Avatar != nil {
		profile.Avatar = *input.Avatar
	}
	if input.PrivateMode != nil {
		profile.PrivateMode = *input.PrivateMode
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if input.SocialLinks != nil {
		links, err := validation.ParseSocialLinks(input.SocialLinks)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if err := s.profileRepo.ReplaceSocialLinks(ctx, profileID, links); err != nil {
			return nil, err
		}
	}

	cache.InvalidateProfile(ctx, profileID)
	return s.profileRepo.GetByID(ctx, profileID)
}

// DeleteAccount removes the profile and its owned data. Invitation and
// collaboration history stays: declines keep blocking resubmission and
// the other party keeps their record.
func (s *ProfileService) DeleteAccount(ctx context.Context, profileID uint) error {
	if err := s.profileRepo.Delete(ctx, profileID); err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, profileID)
	cache.InvalidateBrowse(ctx)
	return nil
}

// ListProfiles pages through member profiles for the directory.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}
