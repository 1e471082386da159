package models

import (
	"time"
)

// InvitationStatus represents the lifecycle state of an invitation.
// The only legal transitions are pending -> accepted and
// pending -> declined, both performed by the addressed party.
// Accepted and declined are terminal; rows are never deleted.
type InvitationStatus string

const (
	// InvitationStatusPending indicates an unresolved invitation.
	InvitationStatusPending InvitationStatus = "pending"
	// InvitationStatusAccepted indicates the target accepted; a
	// Collaboration exists for this invitation.
	InvitationStatusAccepted InvitationStatus = "accepted"
	// InvitationStatusDeclined indicates the target declined. The row is
	// retained because the resubmission rules depend on it.
	InvitationStatusDeclined InvitationStatus = "declined"
)

// Valid reports whether the status is one of the three known values.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined:
		return true
	}
	return false
}

// Invitation is a directional collaboration request from one profile to
// another, optionally scoped to an opportunity.
type Invitation struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Token         string           `gorm:"type:varchar(36);uniqueIndex" json:"token"`
	FromUserID    uint             `gorm:"not null;index:idx_invitations_from" json:"from_user_id"`
	ToUserID      uint             `gorm:"not null;index:idx_invitations_to" json:"to_user_id"`
	OpportunityID *uint            `json:"opportunity_id,omitempty"`
	Status        InvitationStatus `gorm:"type:varchar(20);default:'pending';index:idx_invitations_status" json:"status"`
	Message       string           `json:"message"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relationships
	From Profile `gorm:"foreignKey:FromUserID" json:"from,omitempty"`
	To   Profile `gorm:"foreignKey:ToUserID" json:"to,omitempty"`
}

// TableName specifies the table name for GORM
func (Invitation) TableName() string {
	return "invitations"
}

// Involves reports whether the given user is either party of the invitation.
func (i *Invitation) Involves(userID uint) bool {
	return i.FromUserID == userID || i.ToUserID == userID
}

// ScopedTo reports whether the invitation targets the given opportunity.
func (i *Invitation) ScopedTo(opportunityID uint) bool {
	return i.OpportunityID != nil && *i.OpportunityID == opportunityID
}
