package server

import (
	"time"

	"bandmate/internal/models"
	"bandmate/internal/service"
)

// Response shapes for endpoints that embed other members' profiles.
// Raw models.Profile rows never leave the API except for the caller's
// own profile; everything else goes through the disclosure gates via
// service.RenderProfile.

// counterpartView renders an embedded profile for the viewer with the
// given relationship evidence. Returns nil for an absent preload so the
// field is omitted instead of serializing a zero profile.
func counterpartView(viewerID uint, p *models.Profile, snap service.RelationshipSnapshot) *service.ProfileView {
	if p == nil || p.ID == 0 {
		return nil
	}
	view := service.RenderProfile(viewerID, p, snap)
	return &view
}

// publicProfileView renders a profile at the anonymous tier: no email,
// no social links, extended fields only when the profile is not private.
func publicProfileView(p *models.Profile) *service.ProfileView {
	return counterpartView(0, p, service.RelationshipSnapshot{})
}

type invitationView struct {
	ID            uint                    `json:"id"`
	Token         string                  `json:"token"`
	FromUserID    uint                    `json:"from_user_id"`
	ToUserID      uint                    `json:"to_user_id"`
	OpportunityID *uint                   `json:"opportunity_id,omitempty"`
	Status        models.InvitationStatus `json:"status"`
	Message       string                  `json:"message"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`

	From *service.ProfileView `json:"from,omitempty"`
	To   *service.ProfileView `json:"to,omitempty"`
}

// newInvitationView renders an invitation for one of its parties. The
// invitation itself is the relationship evidence: a pending row unlocks
// the counterpart's portfolio but not their email, an accepted row
// unlocks both.
func newInvitationView(viewerID uint, inv models.Invitation) invitationView {
	snap := service.RelationshipSnapshot{Invitations: []models.Invitation{inv}}
	return invitationView{
		ID:            inv.ID,
		Token:         inv.Token,
		FromUserID:    inv.FromUserID,
		ToUserID:      inv.ToUserID,
		OpportunityID: inv.OpportunityID,
		Status:        inv.Status,
		Message:       inv.Message,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		From:          counterpartView(viewerID, &inv.From, snap),
		To:            counterpartView(viewerID, &inv.To, snap),
	}
}

func invitationViews(viewerID uint, invitations []models.Invitation) []invitationView {
	views := make([]invitationView, 0, len(invitations))
	for _, inv := range invitations {
		views = append(views, newInvitationView(viewerID, inv))
	}
	return views
}

type invitationInboxView struct {
	Received []invitationView `json:"received"`
	Sent     []invitationView `json:"sent"`
}

type opportunityView struct {
	ID             uint                     `json:"id"`
	UserID         uint                     `json:"user_id"`
	LookingForRole models.Role              `json:"looking_for_role"`
	Location       string                   `json:"location"`
	Description    string                   `json:"description"`
	Genres         string                   `json:"genres"`
	CollabType     string                   `json:"collab_type"`
	Status         models.OpportunityStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`

	Owner *service.ProfileView `json:"owner,omitempty"`
}

func newOpportunityView(o models.Opportunity) opportunityView {
	return opportunityView{
		ID:             o.ID,
		UserID:         o.UserID,
		LookingForRole: o.LookingForRole,
		Location:       o.Location,
		Description:    o.Description,
		Genres:         o.Genres,
		CollabType:     o.CollabType,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Owner:          publicProfileView(&o.Owner),
	}
}

func opportunityViews(opportunities []models.Opportunity) []opportunityView {
	views := make([]opportunityView, 0, len(opportunities))
	for _, o := range opportunities {
		views = append(views, newOpportunityView(o))
	}
	return views
}

type starredOpportunityView struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"user_id"`
	OpportunityID uint            `json:"opportunity_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Opportunity   opportunityView `json:"opportunity"`
}

func starredOpportunityViews(stars []models.StarredOpportunity) []starredOpportunityView {
	views := make([]starredOpportunityView, 0, len(stars))
	for _, star := range stars {
		views = append(views, starredOpportunityView{
			ID:            star.ID,
			UserID:        star.UserID,
			OpportunityID: star.OpportunityID,
			CreatedAt:     star.CreatedAt,
			Opportunity:   newOpportunityView(star.Opportunity),
		})
	}
	return views
}
