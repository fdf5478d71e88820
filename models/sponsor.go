package models

import "time"

// SponsorshipLevel mirrors the sponsorship_level ENUM in the database.
type SponsorshipLevel string

const (
	SponsorshipGold       SponsorshipLevel = "gold"
	SponsorshipSilver     SponsorshipLevel = "silver"
	SponsorshipBronze     SponsorshipLevel = "bronze"
	SponsorshipSupporting SponsorshipLevel = "supporting"
)

func (l SponsorshipLevel) Valid() bool {
	switch l {
	case SponsorshipGold, SponsorshipSilver, SponsorshipBronze, SponsorshipSupporting:
		return true
	}
	return false
}

// Sponsor is a club-scoped sponsor. Identity is the
// (sponsor_name, club_id, state, location) tuple, not the name alone, so the
// same business can sponsor several clubs or branches.
type Sponsor struct {
	ID               int              `json:"id" db:"id"`
	SponsorName      string           `json:"sponsor_name" db:"sponsor_name"`
	ClubID           int              `json:"club_id" db:"club_id"`
	State            string           `json:"state" db:"state"`
	Location         string           `json:"location" db:"location"`
	SponsorshipLevel SponsorshipLevel `json:"sponsorship_level" db:"sponsorship_level"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`

	Club *Club `json:"club,omitempty" db:"-"`
}
