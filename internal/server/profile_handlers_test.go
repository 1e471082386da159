package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bandmate/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestGetProfileVisibility(t *testing.T) {
	s, db := setupTestServer(t)
	subject := createTestProfile(t, db, "subject@example.com", "Subject", models.RoleArtist)
	viewer := createTestProfile(t, db, "viewer@example.com", "Viewer", models.RoleProducer)
	stranger := createTestProfile(t, db, "stranger@example.com", "Stranger", models.RoleDJ)

	// Viewer and subject share an accepted invitation.
	invitation := models.Invitation{
		Token:      "tok-accepted-1",
		FromUserID: viewer.ID,
		ToUserID:   subject.ID,
		Status:     models.InvitationStatusAccepted,
	}
	if err := db.Create(&invitation).Error; err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	app := fiber.New()
	app.Get("/profiles/:id", s.GetProfile)

	fetch := func(token string) map[string]any {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/profiles/%d", subject.ID), nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var view map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		return view
	}

	t.Run("anonymous viewer gets no email", func(t *testing.T) {
		view := fetch("")
		if _, exists := view["email"]; exists {
			t.Error("email should be hidden from anonymous viewers")
		}
		if view["name"] != "Subject" {
			t.Errorf("name should always render, got %v", view["name"])
		}
	})

	t.Run("connected viewer sees email", func(t *testing.T) {
		token, err := s.generateToken(viewer.ID)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		view := fetch(token)
		if view["email"] != "subject@example.com" {
			t.Errorf("connected viewer should see email, got %v", view["email"])
		}
	})

	t.Run("unrelated viewer gets no email", func(t *testing.T) {
		token, err := s.generateToken(stranger.ID)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		view := fetch(token)
		if _, exists := view["email"]; exists {
			t.Error("email should be hidden from unrelated viewers")
		}
	})
}

func TestListProfilesHidesContactDetails(t *testing.T) {
	s, db := setupTestServer(t)
	open := createTestProfile(t, db, "open@example.com", "Open", models.RoleArtist)
	private := createTestProfile(t, db, "hidden@example.com", "Hidden", models.RoleProducer)

	db.Model(&models.Profile{}).Where("id = ?", open.ID).Update("skills", "mixing")
	db.Model(&models.Profile{}).Where("id = ?", private.ID).
		Updates(map[string]any{"skills": "mastering", "private_mode": true})

	app := fiber.New()
	app.Get("/profiles", s.ListProfiles)

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var entries []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode directory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byID := map[uint]map[string]any{}
	for _, entry := range entries {
		if _, exists := entry["email"]; exists {
			t.Errorf("directory entry %v leaks an email", entry["name"])
		}
		if _, exists := entry["social_links"]; exists {
			t.Errorf("directory entry %v leaks social links", entry["name"])
		}
		byID[uint(entry["id"].(float64))] = entry
	}

	if byID[open.ID]["skills"] != "mixing" {
		t.Errorf("open profile should list skills, got %v", byID[open.ID]["skills"])
	}
	if _, exists := byID[private.ID]["skills"]; exists {
		t.Error("private profile should not list skills in the directory")
	}
	if byID[private.ID]["locked"] != true {
		t.Error("private profile should be marked locked")
	}
	if byID[private.ID]["name"] != "Hidden" {
		t.Errorf("name should always render, got %v", byID[private.ID]["name"])
	}
}

func TestGetProfileCountsViews(t *testing.T) {
	s, db := setupTestServer(t)
	subject := createTestProfile(t, db, "viewed@example.com", "Viewed", models.RoleArtist)
	viewer := createTestProfile(t, db, "counter@example.com", "Counter", models.RoleProducer)

	app := fiber.New()
	app.Get("/profiles/:id", s.GetProfile)

	token, err := s.generateToken(viewer.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/profiles/%d", subject.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	_ = resp.Body.Close()

	// No Redis in tests, so the view goes straight to the database.
	var reloaded models.Profile
	if err := db.First(&reloaded, subject.ID).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if reloaded.ProfileViews != 1 {
		t.Errorf("expected 1 profile view, got %d", reloaded.ProfileViews)
	}
}

func TestUpdateMyProfile(t *testing.T) {
	s, db := setupTestServer(t)
	profile := createTestProfile(t, db, "edit@example.com", "Editor", models.RoleArtist)

	app := fiber.New()
	app.Put("/profiles/me", asUser(profile.ID, s.UpdateMyProfile))

	body, _ := json.Marshal(map[string]any{
		"bio":    "I make noise",
		"genres": "Techno, HOUSE, techno",
	})
	req := httptest.NewRequest(http.MethodPut, "/profiles/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if updated.Bio != "I make noise" {
		t.Errorf("bio not applied: %q", updated.Bio)
	}
	if updated.Genres != "techno, house" {
		t.Errorf("genres not normalized: %q", updated.Genres)
	}
	if updated.Name != "Editor" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
}

func TestDeleteMyAccount(t *testing.T) {
	s, db := setupTestServer(t)
	profile := createTestProfile(t, db, "gone@example.com", "Gone", models.RoleArtist)

	app := fiber.New()
	app.Delete("/profiles/me", asUser(profile.ID, s.DeleteMyAccount))

	req := httptest.NewRequest(http.MethodDelete, "/profiles/me", nil)
	resp, _ := app.Test(req)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Profile{}).Where("id = ?", profile.ID).Count(&count)
	if count != 0 {
		t.Error("profile should be deleted")
	}
}

func TestGetMatchesRanksCandidates(t *testing.T) {
	s, db := setupTestServer(t)
	seeker := createTestProfile(t, db, "seeker@example.com", "Seeker", models.RoleArtist)
	producer := createTestProfile(t, db, "prod@example.com", "Producer", models.RoleProducer)
	fan := createTestProfile(t, db, "listener@example.com", "Listener", models.RoleFan)

	// Give the producer genre overlap with the seeker.
	db.Model(&models.Profile{}).Where("id = ?", seeker.ID).Update("genres", "techno, house")
	db.Model(&models.Profile{}).Where("id = ?", producer.ID).Update("genres", "techno")

	app := fiber.New()
	app.Get("/matches", asUser(seeker.ID, s.GetMatches))

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var results []struct {
		ProfileID uint `json:"profile_id"`
		Score     int  `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(results))
	}
	if results[0].ProfileID != producer.ID {
		t.Errorf("expected the producer ranked first, got profile %d", results[0].ProfileID)
	}
	if results[1].ProfileID != fan.ID {
		t.Errorf("expected the fan ranked last, got profile %d", results[1].ProfileID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected a strictly better score for the producer, got %d vs %d",
			results[0].Score, results[1].Score)
	}
}
