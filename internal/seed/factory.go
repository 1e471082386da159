// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"bandmate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	genres = []string{
		"techno", "house", "ambient", "drum and bass", "hip hop", "trap",
		"indie rock", "punk", "metal", "jazz", "soul", "funk", "pop",
		"folk", "lo-fi", "synthwave", "dubstep", "afrobeat", "reggaeton",
	}

	skills = []string{
		"mixing", "mastering", "sound design", "vocals", "guitar", "bass",
		"drums", "keys", "songwriting", "arrangement", "live performance",
		"djing", "field recording", "modular synthesis",
	}

	experienceLevels = []string{"beginner", "intermediate", "advanced", "professional"}
	collabTypes      = []string{"remote", "in person", "either"}
	availabilities   = []string{"weekends", "evenings", "full time", "flexible"}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(opts.RandSeed)
	return &Factory{db: db, opts: opts}
}

func pick(r *rand.Rand, pool []string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if out != "" {
			out += ", "
		}
		out += pool[r.Intn(len(pool))]
	}
	return out
}

// CreateProfile constructs and persists a sample profile. Optional
// override functions may modify the generated profile before saving.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	r := rand.New(rand.NewSource(int64(gofakeit.Number(1, 1<<30))))

	profile := &models.Profile{
		Email:           gofakeit.Email(),
		Name:            gofakeit.Name(),
		Role:            models.Roles[r.Intn(len(models.Roles))],
		Bio:             gofakeit.Sentence(12),
		Genres:          pick(r, genres, 1+r.Intn(3)),
		Location:        gofakeit.City(),
		Availability:    availabilities[r.Intn(len(availabilities))],
		Skills:          pick(r, skills, 1+r.Intn(3)),
		ExperienceLevel: experienceLevels[r.Intn(len(experienceLevels))],
		CollabType:      collabTypes[r.Intn(len(collabTypes))],
		Avatar:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		PrivateMode:     r.Intn(10) == 0,
	}

	if f.opts.SkipBcrypt {
		profile.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		profile.Password = string(hashed)
	}

	// Spread join dates so membership ages look real.
	daysBack := r.Intn(900)
	profile.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)

	for _, override := range overrides {
		override(profile)
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateOpportunity constructs and persists a listing owned by the
// given profile.
func (f *Factory) CreateOpportunity(owner *models.Profile, overrides ...func(*models.Opportunity)) (*models.Opportunity, error) {
	r := rand.New(rand.NewSource(int64(gofakeit.Number(1, 1<<30))))

	opportunity := &models.Opportunity{
		UserID:         owner.ID,
		LookingForRole: models.Roles[r.Intn(len(models.Roles))],
		Location:       owner.Location,
		Description:    gofakeit.Paragraph(1, 2, 8, " "),
		Genres:         pick(r, genres, 1+r.Intn(2)),
		CollabType:     collabTypes[r.Intn(len(collabTypes))],
		Status:         models.OpportunityStatusActive,
	}

	for _, override := range overrides {
		override(opportunity)
	}

	if err := f.db.Create(opportunity).Error; err != nil {
		return nil, err
	}
	return opportunity, nil
}

// CreateInvitation persists an invitation in the given status between
// two profiles. Accepting here also creates the collaboration and bumps
// both counters, mirroring what the accept transaction does in
// production.
func (f *Factory) CreateInvitation(from, to *models.Profile, status models.InvitationStatus, opportunityID *uint) (*models.Invitation, error) {
	invitation := &models.Invitation{
		Token:         gofakeit.UUID(),
		FromUserID:    from.ID,
		ToUserID:      to.ID,
		OpportunityID: opportunityID,
		Status:        status,
		Message:       gofakeit.Sentence(8),
	}
	if err := f.db.Create(invitation).Error; err != nil {
		return nil, err
	}

	if status == models.InvitationStatusAccepted {
		collaboration := &models.Collaboration{
			InvitationID: invitation.ID,
			User1ID:      from.ID,
			User2ID:      to.ID,
		}
		if err := f.db.Create(collaboration).Error; err != nil {
			return nil, err
		}
		err := f.db.Model(&models.Profile{}).
			Where("id IN ?", []uint{from.ID, to.ID}).
			UpdateColumn("accepted_collabs", gorm.Expr("accepted_collabs + 1")).Error
		if err != nil {
			return nil, err
		}
	}
	return invitation, nil
}

// StarOpportunity bookmarks a listing for a profile.
func (f *Factory) StarOpportunity(profile *models.Profile, opportunityID uint) error {
	return f.db.Create(&models.StarredOpportunity{
		UserID:        profile.ID,
		OpportunityID: opportunityID,
	}).Error
}
