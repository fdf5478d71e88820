package models

import "time"

// ShortsColor mirrors the shorts_color ENUM in the database. It records a
// playing restriction, not a uniform preference.
type ShortsColor string

const (
	ShortsUnrestricted ShortsColor = "unrestricted"
	ShortsRed          ShortsColor = "red"
	ShortsYellow       ShortsColor = "yellow"
	ShortsBlue         ShortsColor = "blue"
	ShortsGreen        ShortsColor = "green"
)

func (c ShortsColor) Valid() bool {
	switch c {
	case ShortsUnrestricted, ShortsRed, ShortsYellow, ShortsBlue, ShortsGreen:
		return true
	}
	return false
}

// ClubPlayer is a player on a club roster. The tuple
// (club_id, first_name, last_name, date_of_birth) is the canonical player
// identity within a club; email is deliberately not unique so that family
// members sharing an address can both register.
type ClubPlayer struct {
	ID           int         `json:"id" db:"id"`
	ClubID       int         `json:"club_id" db:"club_id"`
	FirstName    string      `json:"first_name" db:"first_name"`
	LastName     string      `json:"last_name" db:"last_name"`
	DateOfBirth  time.Time   `json:"date_of_birth" db:"date_of_birth"`
	Email        string      `json:"email" db:"email"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	ShortsColor  ShortsColor `json:"shorts_color" db:"shorts_color"`
	Notes        *string     `json:"notes,omitempty" db:"notes"`
	RegisteredAt time.Time   `json:"registered_at" db:"registered_at"`

	Club *Club `json:"club,omitempty" db:"-"`
}
