package models

import (
	"time"
)

// Collaboration is the symmetric record derived from an accepted
// invitation. Exactly one exists per accepted invitation and none are
// deleted in normal operation.
type Collaboration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvitationID uint      `gorm:"not null;uniqueIndex" json:"invitation_id"`
	User1ID      uint      `gorm:"not null;index:idx_collaborations_user1" json:"user1_id"`
	User2ID      uint      `gorm:"not null;index:idx_collaborations_user2" json:"user2_id"`
	Verified     bool      `gorm:"default:false" json:"verified"`
	Completed    bool      `gorm:"default:false" json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	User1 Profile `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2 Profile `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
}

// TableName specifies the table name for GORM
func (Collaboration) TableName() string {
	return "collaborations"
}

// Involves reports whether the given user is either party.
func (c *Collaboration) Involves(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParty returns the counterpart of the given viewer. Returns 0 when
// the viewer is not part of the collaboration.
func (c *Collaboration) OtherParty(viewerID uint) uint {
	switch viewerID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return 0
}
