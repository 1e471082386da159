// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role identifies what a profile does in the music scene.
type Role string

const (
	RoleArtist     Role = "artist"
	RoleProducer   Role = "producer"
	RoleSongwriter Role = "songwriter"
	RoleDJ         Role = "dj"
	RolePromoter   Role = "promoter"
	RolePR         Role = "pr"
	RoleFan        Role = "fan"
)

// Roles lists every valid profile role.
var Roles = []Role{RoleArtist, RoleProducer, RoleSongwriter, RoleDJ, RolePromoter, RolePR, RoleFan}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Profile is a member's public identity. The ID doubles as the
// authenticated principal id.
type Profile struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Email           string       `gorm:"unique;not null" json:"email"`
	Password        string       `gorm:"not null" json:"-"`
	Name            string       `gorm:"not null" json:"name"`
	Role            Role         `gorm:"type:varchar(20);not null;index" json:"role"`
	Bio             string       `json:"bio"`
	Genres          string       `json:"genres"`
	Location        string       `json:"location"`
	Availability    string       `json:"availability"`
	Skills          string       `json:"skills"`
	ExperienceLevel string       `json:"experience_level"`
	CollabType      string       `json:"collab_type"`
	SocialLinks     []SocialLink `gorm:"foreignKey:ProfileID" json:"social_links,omitempty"`
	Avatar          string       `json:"avatar"`
	PrivateMode     bool         `gorm:"default:false" json:"private_mode"`
	AcceptedCollabs int          `gorm:"default:0" json:"accepted_collabs"`
	ProfileViews    int          `gorm:"default:0" json:"profile_views"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// BadgeTier returns the reputation tier earned by this profile.
func (p *Profile) BadgeTier() Badge {
	return BadgeForCount(p.AcceptedCollabs)
}

// SocialLink is one entry in a profile's ordered portfolio link list.
type SocialLink struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProfileID uint   `gorm:"not null;index" json:"-"`
	Position  int    `gorm:"not null" json:"-"`
	Platform  string `gorm:"not null" json:"platform"`
	URL       string `gorm:"not null" json:"url"`
}

// TableName specifies the table name for GORM
func (SocialLink) TableName() string {
	return "social_links"
}
