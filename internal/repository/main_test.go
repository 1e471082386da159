package repository

import (
	"fmt"
	"testing"
	"time"

	"bandmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.SocialLink{},
		&models.Invitation{},
		&models.Collaboration{},
		&models.Opportunity{},
		&models.StarredOpportunity{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createProfile(t *testing.T, db *gorm.DB, name string) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		Email:    fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		Password: "hashed",
		Name:     name,
		Role:     models.RoleArtist,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile %s: %v", name, err)
	}
	return profile
}

func createInvitation(t *testing.T, db *gorm.DB, from, to uint) *models.Invitation {
	t.Helper()

	invitation := &models.Invitation{
		Token:      uuid.New().String(),
		FromUserID: from,
		ToUserID:   to,
		Status:     models.InvitationStatusPending,
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	return invitation
}
