package service

import (
	"context"
	"strconv"
	"time"

	"bandmate/internal/models"
	"bandmate/internal/observability"
	"bandmate/internal/repository"
)

// timeSince is swappable so tests can pin membership ages.
var timeSince = time.Since

// RelationshipSnapshot is everything the disclosure gates need to know
// about a pair: the invitations and collaborations linking them. Callers
// fetch it fresh per read; the gates themselves hold no state.
type RelationshipSnapshot struct {
	Invitations    []models.Invitation
	Collaborations []models.Collaboration
}

func (s RelationshipSnapshot) hasAcceptedInvitation(a, b uint) bool {
	for i := range s.Invitations {
		inv := &s.Invitations[i]
		if inv.Status == models.InvitationStatusAccepted && linksPair(inv.FromUserID, inv.ToUserID, a, b) {
			return true
		}
	}
	return false
}

func (s RelationshipSnapshot) hasAnyInvitation(a, b uint) bool {
	for i := range s.Invitations {
		inv := &s.Invitations[i]
		if linksPair(inv.FromUserID, inv.ToUserID, a, b) {
			return true
		}
	}
	return false
}

func (s RelationshipSnapshot) hasCollaboration(a, b uint) bool {
	for i := range s.Collaborations {
		col := &s.Collaborations[i]
		if linksPair(col.User1ID, col.User2ID, a, b) {
			return true
		}
	}
	return false
}

func linksPair(x, y, a, b uint) bool {
	return (x == a && y == b) || (x == b && y == a)
}

// Connected reports whether viewer and subject share an accepted
// invitation or a collaboration. Symmetric in its arguments; a viewer is
// always connected to themself.
func Connected(viewerID, subjectID uint, snap RelationshipSnapshot) bool {
	if viewerID == subjectID {
		return true
	}
	return snap.hasAcceptedInvitation(viewerID, subjectID) || snap.hasCollaboration(viewerID, subjectID)
}

// ProfileUnlocked reports whether the subject's extended fields render at
// all for the viewer, or collapse to a locked placeholder. Privacy mode
// only bites for unconnected viewers.
func ProfileUnlocked(subject *models.Profile, viewerID uint, snap RelationshipSnapshot) bool {
	if !subject.PrivateMode {
		return true
	}
	return Connected(viewerID, subject.ID, snap)
}

// CanSeeEmail gates contact info behind mutual acceptance: only the
// subject themself, or a viewer linked by an accepted invitation or a
// collaboration, may see it. A pending invitation never unlocks email,
// and private_mode plays no part either way.
func CanSeeEmail(viewerID, subjectID uint, snap RelationshipSnapshot) bool {
	if viewerID == subjectID {
		return true
	}
	return snap.hasAcceptedInvitation(viewerID, subjectID) || snap.hasCollaboration(viewerID, subjectID)
}

// CanSeeSocialLinks gates portfolio links. Deliberately weaker than the
// email gate: any invitation between the pair, pending included and in
// either direction, is enough - showing interest unlocks the portfolio,
// while contact info waits for mutual acceptance.
func CanSeeSocialLinks(viewerID, subjectID uint, snap RelationshipSnapshot) bool {
	if viewerID == subjectID {
		return true
	}
	return snap.hasCollaboration(viewerID, subjectID) || snap.hasAnyInvitation(viewerID, subjectID)
}

// ProfileView is a profile rendered for a specific viewer, with fields
// the viewer may not see elided. Name, role, bio, genres, location,
// avatar, membership age and badge tier are always visible.
type ProfileView struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Role      models.Role  `json:"role"`
	Bio       string       `json:"bio"`
	Genres    string       `json:"genres"`
	Location  string       `json:"location"`
	Avatar    string       `json:"avatar"`
	MemberFor string       `json:"member_for"`
	Badge     models.Badge `json:"badge"`

	// Locked marks a private profile rendered for an unconnected viewer;
	// the extended fields below are zeroed when it is set.
	Locked bool `json:"locked"`

	Availability    string `json:"availability,omitempty"`
	Skills          string `json:"skills,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	CollabType      string `json:"collab_type,omitempty"`
	AcceptedCollabs int    `json:"accepted_collabs"`

	Email       string              `json:"email,omitempty"`
	SocialLinks []models.SocialLink `json:"social_links,omitempty"`
}

// RenderProfile applies every disclosure gate and returns what the viewer
// is allowed to see of the subject.
func RenderProfile(viewerID uint, subject *models.Profile, snap RelationshipSnapshot) ProfileView {
	view := ProfileView{
		ID:              subject.ID,
		Name:            subject.Name,
		Role:            subject.Role,
		Bio:             subject.Bio,
		Genres:          subject.Genres,
		Location:        subject.Location,
		Avatar:          subject.Avatar,
		MemberFor:       membershipAge(subject),
		Badge:           subject.BadgeTier(),
		AcceptedCollabs: subject.AcceptedCollabs,
	}

	if ProfileUnlocked(subject, viewerID, snap) {
		view.Availability = subject.Availability
		view.Skills = subject.Skills
		view.ExperienceLevel = subject.ExperienceLevel
		view.CollabType = subject.CollabType
	} else {
		view.Locked = true
	}

	if CanSeeEmail(viewerID, subject.ID, snap) {
		view.Email = subject.Email
	}
	if CanSeeSocialLinks(viewerID, subject.ID, snap) {
		view.SocialLinks = subject.SocialLinks
	}

	return view
}

// membershipAge formats how long the subject has been a member.
func membershipAge(subject *models.Profile) string {
	days := int(timeSince(subject.CreatedAt).Hours() / 24)
	switch {
	case days >= 365:
		years := days / 365
		if years == 1 {
			return "1 year"
		}
		return strconv.Itoa(years) + " years"
	case days >= 30:
		months := days / 30
		if months == 1 {
			return "1 month"
		}
		return strconv.Itoa(months) + " months"
	case days == 1:
		return "1 day"
	default:
		return strconv.Itoa(days) + " days"
	}
}

// VisibilityService fetches relationship snapshots and answers the
// disclosure questions the profile pages ask.
type VisibilityService struct {
	invitationRepo    repository.InvitationRepository
	collaborationRepo repository.CollaborationRepository
	profileRepo       repository.ProfileRepository
}

// NewVisibilityService returns a new VisibilityService.
func NewVisibilityService(
	invitationRepo repository.InvitationRepository,
	collaborationRepo repository.CollaborationRepository,
	profileRepo repository.ProfileRepository,
) *VisibilityService {
	return &VisibilityService{
		invitationRepo:    invitationRepo,
		collaborationRepo: collaborationRepo,
		profileRepo:       profileRepo,
	}
}

// Snapshot pulls the pair's current invitations and collaborations.
func (s *VisibilityService) Snapshot(ctx context.Context, userID1, userID2 uint) (RelationshipSnapshot, error) {
	if userID1 == userID2 {
		return RelationshipSnapshot{}, nil
	}
	invitations, err := s.invitationRepo.ListBetweenUsers(ctx, userID1, userID2)
	if err != nil {
		return RelationshipSnapshot{}, err
	}
	collaborations, err := s.collaborationRepo.ListBetweenUsers(ctx, userID1, userID2)
	if err != nil {
		return RelationshipSnapshot{}, err
	}
	return RelationshipSnapshot{Invitations: invitations, Collaborations: collaborations}, nil
}

// IsConnected answers the symmetric connection question for a pair.
func (s *VisibilityService) IsConnected(ctx context.Context, viewerID, subjectID uint) (bool, error) {
	snap, err := s.Snapshot(ctx, viewerID, subjectID)
	if err != nil {
		return false, err
	}
	allowed := Connected(viewerID, subjectID, snap)
	observability.VisibilityChecks.WithLabelValues("connected", strconv.FormatBool(allowed)).Inc()
	return allowed, nil
}

// CanSeeEmail answers the contact-info gate for a pair.
func (s *VisibilityService) CanSeeEmail(ctx context.Context, viewerID, subjectID uint) (bool, error) {
	snap, err := s.Snapshot(ctx, viewerID, subjectID)
	if err != nil {
		return false, err
	}
	allowed := CanSeeEmail(viewerID, subjectID, snap)
	observability.VisibilityChecks.WithLabelValues("email", strconv.FormatBool(allowed)).Inc()
	return allowed, nil
}

// CanSeeSocialLinks answers the portfolio gate for a pair.
func (s *VisibilityService) CanSeeSocialLinks(ctx context.Context, viewerID, subjectID uint) (bool, error) {
	snap, err := s.Snapshot(ctx, viewerID, subjectID)
	if err != nil {
		return false, err
	}
	allowed := CanSeeSocialLinks(viewerID, subjectID, snap)
	observability.VisibilityChecks.WithLabelValues("social_links", strconv.FormatBool(allowed)).Inc()
	return allowed, nil
}

// IsProfileUnlocked answers the extended-field gate for a pair.
func (s *VisibilityService) IsProfileUnlocked(ctx context.Context, viewerID, subjectID uint) (bool, error) {
	subject, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		return false, err
	}
	snap, err := s.Snapshot(ctx, viewerID, subjectID)
	if err != nil {
		return false, err
	}
	allowed := ProfileUnlocked(subject, viewerID, snap)
	observability.VisibilityChecks.WithLabelValues("unlocked", strconv.FormatBool(allowed)).Inc()
	return allowed, nil
}

// ViewProfile renders the subject for the viewer with all gates applied.
func (s *VisibilityService) ViewProfile(ctx context.Context, viewerID, subjectID uint) (*ProfileView, error) {
	subject, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, viewerID, subjectID)
	if err != nil {
		return nil, err
	}
	view := RenderProfile(viewerID, subject, snap)
	return &view, nil
}
