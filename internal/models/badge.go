package models

// Badge is the reputation tier derived from a profile's accepted
// collaboration count. It is always visible, regardless of privacy mode.
type Badge string

const (
	BadgeNone   Badge = ""
	BadgeBlue   Badge = "blue"
	BadgePurple Badge = "purple"
	BadgeGold   Badge = "gold"
	BadgeOrange Badge = "orange"
)

// BadgeForCount maps an accepted-collaboration count to its tier.
// Thresholds: <4 none, 4-9 blue, 10-19 purple, 20-39 gold, >=40 orange.
func BadgeForCount(acceptedCollabs int) Badge {
	switch {
	case acceptedCollabs >= 40:
		return BadgeOrange
	case acceptedCollabs >= 20:
		return BadgeGold
	case acceptedCollabs >= 10:
		return BadgePurple
	case acceptedCollabs >= 4:
		return BadgeBlue
	}
	return BadgeNone
}
