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

func sendInvitationRequest(t *testing.T, app *fiber.App, toUserID uint, opportunityID *uint) *http.Response {
	t.Helper()
	payload := map[string]any{
		"to_user_id": toUserID,
		"message":    "let's make something",
	}
	if opportunityID != nil {
		payload["opportunity_id"] = *opportunityID
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/invitations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("send invitation: %v", err)
	}
	return resp
}

func TestInvitationLifecycle(t *testing.T) {
	s, db := setupTestServer(t)
	alice := createTestProfile(t, db, "alice@example.com", "Alice", models.RoleArtist)
	bob := createTestProfile(t, db, "bob@example.com", "Bob", models.RoleProducer)

	aliceApp := fiber.New()
	aliceApp.Post("/invitations", asUser(alice.ID, s.SendInvitation))
	aliceApp.Get("/invitations", asUser(alice.ID, s.GetInvitations))

	bobApp := fiber.New()
	bobApp.Post("/invitations/:id/accept", asUser(bob.ID, s.AcceptInvitation))
	bobApp.Post("/invitations/:id/decline", asUser(bob.ID, s.DeclineInvitation))

	resp := sendInvitationRequest(t, aliceApp, bob.ID, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var invitation models.Invitation
	if err := json.NewDecoder(resp.Body).Decode(&invitation); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	_ = resp.Body.Close()
	if invitation.Status != models.InvitationStatusPending {
		t.Errorf("expected pending, got %s", invitation.Status)
	}

	// A second submission while the first is pending is a conflict.
	resp = sendInvitationRequest(t, aliceApp, bob.ID, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate pending, got %d", resp.StatusCode)
	}

	// Bob accepts; the response is the new collaboration.
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invitations/%d/accept", invitation.ID), nil)
	resp, _ = bobApp.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on accept, got %d", resp.StatusCode)
	}
	var collaboration models.Collaboration
	if err := json.NewDecoder(resp.Body).Decode(&collaboration); err != nil {
		t.Fatalf("decode collaboration: %v", err)
	}
	_ = resp.Body.Close()
	if !collaboration.Involves(alice.ID) || !collaboration.Involves(bob.ID) {
		t.Error("collaboration should link both parties")
	}

	// The pair is connected now; further invitations are conflicts.
	resp = sendInvitationRequest(t, aliceApp, bob.ID, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 once connected, got %d", resp.StatusCode)
	}

	// Alice's sent box has the accepted invitation.
	req = httptest.NewRequest(http.MethodGet, "/invitations", nil)
	resp, _ = aliceApp.Test(req)
	var inbox struct {
		Received []models.Invitation `json:"received"`
		Sent     []models.Invitation `json:"sent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&inbox); err != nil {
		t.Fatalf("decode inbox: %v", err)
	}
	_ = resp.Body.Close()
	if len(inbox.Sent) != 1 || inbox.Sent[0].Status != models.InvitationStatusAccepted {
		t.Errorf("expected one accepted sent invitation, got %+v", inbox.Sent)
	}
}

func TestInboxGatesCounterpartProfiles(t *testing.T) {
	s, db := setupTestServer(t)
	alice := createTestProfile(t, db, "alice@example.com", "Alice", models.RoleArtist)
	bob := createTestProfile(t, db, "bob@example.com", "Bob", models.RoleProducer)

	aliceApp := fiber.New()
	aliceApp.Post("/invitations", asUser(alice.ID, s.SendInvitation))

	bobApp := fiber.New()
	bobApp.Get("/invitations", asUser(bob.ID, s.GetInvitations))
	bobApp.Post("/invitations/:id/accept", asUser(bob.ID, s.AcceptInvitation))

	resp := sendInvitationRequest(t, aliceApp, bob.ID, nil)
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	_ = resp.Body.Close()

	fetchSender := func() map[string]any {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/invitations", nil)
		resp, _ := bobApp.Test(req)
		defer func() { _ = resp.Body.Close() }()
		var inbox struct {
			Received []map[string]any `json:"received"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&inbox); err != nil {
			t.Fatalf("decode inbox: %v", err)
		}
		if len(inbox.Received) != 1 {
			t.Fatalf("expected 1 received invitation, got %d", len(inbox.Received))
		}
		from, ok := inbox.Received[0]["from"].(map[string]any)
		if !ok {
			t.Fatalf("expected an embedded sender, got %v", inbox.Received[0]["from"])
		}
		return from
	}

	// Pending: Bob sees who is asking but not their contact info.
	from := fetchSender()
	if from["name"] != "Alice" {
		t.Errorf("sender name should render, got %v", from["name"])
	}
	if _, exists := from["email"]; exists {
		t.Error("pending invitation should not disclose the sender's email")
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invitations/%d/accept", created.ID), nil)
	resp, _ = bobApp.Test(req)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on accept, got %d", resp.StatusCode)
	}

	// Accepted: the pair is connected, contact info unlocks.
	from = fetchSender()
	if from["email"] != "alice@example.com" {
		t.Errorf("accepted invitation should disclose the sender's email, got %v", from["email"])
	}
}

func TestDeclineBlocksSenderNotDecliner(t *testing.T) {
	s, db := setupTestServer(t)
	carol := createTestProfile(t, db, "carol@example.com", "Carol", models.RoleSongwriter)
	dan := createTestProfile(t, db, "dan@example.com", "Dan", models.RoleDJ)

	carolApp := fiber.New()
	carolApp.Post("/invitations", asUser(carol.ID, s.SendInvitation))

	danApp := fiber.New()
	danApp.Post("/invitations", asUser(dan.ID, s.SendInvitation))
	danApp.Post("/invitations/:id/decline", asUser(dan.ID, s.DeclineInvitation))

	resp := sendInvitationRequest(t, carolApp, dan.ID, nil)
	var invitation models.Invitation
	if err := json.NewDecoder(resp.Body).Decode(&invitation); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	_ = resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invitations/%d/decline", invitation.ID), nil)
	resp, _ = danApp.Test(req)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on decline, got %d", resp.StatusCode)
	}

	// Carol cannot resubmit after the unscoped decline.
	resp = sendInvitationRequest(t, carolApp, dan.ID, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for blocked retry, got %d", resp.StatusCode)
	}

	// Dan, who declined, may still invite Carol.
	resp = sendInvitationRequest(t, danApp, carol.ID, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for decliner's invitation, got %d", resp.StatusCode)
	}
}

func TestAcceptRequiresAddressee(t *testing.T) {
	s, db := setupTestServer(t)
	erin := createTestProfile(t, db, "erin@example.com", "Erin", models.RoleArtist)
	frank := createTestProfile(t, db, "frank@example.com", "Frank", models.RoleProducer)

	erinApp := fiber.New()
	erinApp.Post("/invitations", asUser(erin.ID, s.SendInvitation))
	// Erin trying to accept her own outgoing invitation.
	erinApp.Post("/invitations/:id/accept", asUser(erin.ID, s.AcceptInvitation))

	resp := sendInvitationRequest(t, erinApp, frank.ID, nil)
	var invitation models.Invitation
	if err := json.NewDecoder(resp.Body).Decode(&invitation); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	_ = resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invitations/%d/accept", invitation.ID), nil)
	resp, _ = erinApp.Test(req)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSendInvitationToUnknownMember(t *testing.T) {
	s, db := setupTestServer(t)
	gina := createTestProfile(t, db, "gina@example.com", "Gina", models.RoleArtist)

	app := fiber.New()
	app.Post("/invitations", asUser(gina.ID, s.SendInvitation))

	resp := sendInvitationRequest(t, app, 9999, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
