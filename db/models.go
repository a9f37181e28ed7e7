package db

import "time"

// Profile is the canonical team-member record. UserID is the linked
// Slack account and may be empty for members imported from HR data
// before they have been matched to a Slack user. Email uniqueness is
// enforced at the write sites (case-insensitive) rather than with a
// database constraint, since implicitly created records may start out
// with no email at all.
type Profile struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           string `gorm:"index"`
	Name             string
	Email            string `gorm:"index"`
	Mobile           string
	Position         string
	Designation      string
	JoinDate         string // MM/DD/YYYY, empty when no anniversary is set
	DOB              string // MM/DD/YYYY, empty when no birthday is set
	Address          string
	BloodGroup       string
	Image            string
	SecondaryContact string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CelebrationConfig holds the per-kind celebration state for a profile:
// custom message/image and the last-celebrated dedup guard.
type CelebrationConfig struct {
	ID                 uint   `gorm:"primaryKey"`
	ProfileID          uint   `gorm:"index:idx_profile_kind,unique;not null"`
	Kind               string `gorm:"index:idx_profile_kind,unique;not null"`
	Message            string
	Image              string
	LastCelebratedDate string // ISO YYYY-MM-DD
	AddedAt            time.Time
}
