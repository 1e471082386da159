package seed

import (
	"fmt"
	"log"
	"math/rand"

	"bandmate/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles      int
	NumOpportunities int
	ShouldClean      bool
	SkipBcrypt       bool
	RandSeed         int64
}

// Seed populates the database with demo data: profiles, opportunities
// under the per-owner cap, an invitation mesh in every status, and
// stars. The relationships it writes keep the same invariants the
// services enforce, so a seeded database behaves like a lived-in one.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumProfiles < 2 {
		opts.NumProfiles = 12
	}
	if opts.NumOpportunities <= 0 {
		opts.NumOpportunities = opts.NumProfiles
	}
	log.Printf("🌱 Seeding %d profiles and %d opportunities...", opts.NumProfiles, opts.NumOpportunities)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)
	r := rand.New(rand.NewSource(opts.RandSeed))

	demo, err := createDemoAccount(db, factory)
	if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	profiles := []*models.Profile{demo}
	for i := 1; i < opts.NumProfiles; i++ {
		profile, err := factory.CreateProfile()
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	log.Printf("✓ %d profiles created", len(profiles))

	opportunities, err := createOpportunities(factory, profiles, opts.NumOpportunities, r)
	if err != nil {
		return fmt.Errorf("failed to create opportunities: %w", err)
	}
	log.Printf("✓ %d opportunities created", len(opportunities))

	invitations, err := createInvitationMesh(factory, profiles, opportunities, r)
	if err != nil {
		return fmt.Errorf("failed to create invitations: %w", err)
	}
	log.Printf("✓ %d invitations created", invitations)

	stars, err := createStars(factory, profiles, opportunities, r)
	if err != nil {
		return fmt.Errorf("failed to create stars: %w", err)
	}
	log.Printf("✓ %d stars created", stars)

	log.Println("🎉 Seeding complete")
	return nil
}

// createDemoAccount makes a stable login for manual testing.
func createDemoAccount(db *gorm.DB, factory *Factory) (*models.Profile, error) {
	var existing models.Profile
	if err := db.Where("email = ?", "demo@bandmate.dev").First(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Demo&Session1234"), bcrypt.MinCost)
	return factory.CreateProfile(func(p *models.Profile) {
		p.Email = "demo@bandmate.dev"
		p.Password = string(hashed)
		p.Name = "Demo Artist"
		p.Role = models.RoleArtist
		p.PrivateMode = false
	})
}

func createOpportunities(factory *Factory, profiles []*models.Profile, total int, r *rand.Rand) ([]*models.Opportunity, error) {
	var opportunities []*models.Opportunity
	perOwner := make(map[uint]int)

	for len(opportunities) < total {
		owner := profiles[r.Intn(len(profiles))]
		if perOwner[owner.ID] >= models.MaxActiveOpportunities {
			// Over the cap listings go in closed.
			opp, err := factory.CreateOpportunity(owner, func(o *models.Opportunity) {
				o.Status = models.OpportunityStatusInactive
			})
			if err != nil {
				return nil, err
			}
			opportunities = append(opportunities, opp)
			continue
		}
		opp, err := factory.CreateOpportunity(owner)
		if err != nil {
			return nil, err
		}
		perOwner[owner.ID]++
		opportunities = append(opportunities, opp)
	}
	return opportunities, nil
}

// createInvitationMesh links profiles pairwise, skewed toward accepted
// so badges show up. Each pair gets at most one invitation, matching
// the one-active-per-pair rule.
func createInvitationMesh(factory *Factory, profiles []*models.Profile, opportunities []*models.Opportunity, r *rand.Rand) (int, error) {
	statuses := []models.InvitationStatus{
		models.InvitationStatusAccepted,
		models.InvitationStatusAccepted,
		models.InvitationStatusPending,
		models.InvitationStatusDeclined,
	}

	created := 0
	for i := range profiles {
		for j := i + 1; j < len(profiles); j++ {
			if r.Intn(3) != 0 {
				continue
			}
			from, to := profiles[i], profiles[j]
			if r.Intn(2) == 0 {
				from, to = to, from
			}

			var opportunityID *uint
			if len(opportunities) > 0 && r.Intn(2) == 0 {
				opp := opportunities[r.Intn(len(opportunities))]
				if opp.UserID == to.ID {
					opportunityID = &opp.ID
				}
			}

			status := statuses[r.Intn(len(statuses))]
			if _, err := factory.CreateInvitation(from, to, status, opportunityID); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func createStars(factory *Factory, profiles []*models.Profile, opportunities []*models.Opportunity, r *rand.Rand) (int, error) {
	created := 0
	for _, profile := range profiles {
		for _, opp := range opportunities {
			if opp.UserID == profile.ID || opp.Status != models.OpportunityStatusActive {
				continue
			}
			if r.Intn(6) != 0 {
				continue
			}
			if err := factory.StarOpportunity(profile, opp.ID); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func clearData(db *gorm.DB) error {
	tables := []string{
		"starred_opportunities",
		"collaborations",
		"invitations",
		"opportunities",
		"social_links",
		"profiles",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
