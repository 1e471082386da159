package models

import (
	"time"
)

// OpportunityStatus marks whether a listing is open for applications.
type OpportunityStatus string

const (
	// OpportunityStatusActive indicates an open listing. An owner may have
	// at most MaxActiveOpportunities of these at a time.
	OpportunityStatusActive OpportunityStatus = "active"
	// OpportunityStatusInactive indicates a closed listing.
	OpportunityStatusInactive OpportunityStatus = "inactive"
)

// MaxActiveOpportunities caps how many active listings one owner may hold.
const MaxActiveOpportunities = 2

// Valid reports whether the status is a known value.
func (s OpportunityStatus) Valid() bool {
	return s == OpportunityStatusActive || s == OpportunityStatusInactive
}

// Opportunity is a listing describing a role a profile wants to fill.
// Deleting one does not invalidate invitations that referenced it; the
// invitation keeps the id as historical context.
type Opportunity struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	UserID         uint              `gorm:"not null;index:idx_opportunities_owner" json:"user_id"`
	LookingForRole Role              `gorm:"type:varchar(20);not null" json:"looking_for_role"`
	Location       string            `json:"location"`
	Description    string            `json:"description"`
	Genres         string            `json:"genres"`
	CollabType     string            `json:"collab_type"`
	Status         OpportunityStatus `gorm:"type:varchar(20);default:'active';index:idx_opportunities_status" json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Relationships
	Owner Profile `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

// TableName specifies the table name for GORM
func (Opportunity) TableName() string {
	return "opportunities"
}

// StarredOpportunity bookmarks a listing for later. The (user_id,
// opportunity_id) pair is unique; the guard treats a duplicate star as an
// informational no-op rather than an error.
type StarredOpportunity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_starred_user_opportunity" json:"user_id"`
	OpportunityID uint      `gorm:"not null;uniqueIndex:idx_starred_user_opportunity" json:"opportunity_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}

// TableName specifies the table name for GORM
func (StarredOpportunity) TableName() string {
	return "starred_opportunities"
}
