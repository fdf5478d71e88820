package models

import "time"

// Carnival is a scheduled event that clubs register to attend. A carnival is
// either created directly by an organiser (claimed from birth) or imported
// from the MySideline feed and later claimed.
type Carnival struct {
	ID       int     `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Subtitle *string `json:"subtitle,omitempty" db:"subtitle"`

	// Provenance fields, written once at import time and never updated
	// afterwards.
	MySidelineID                   *string `json:"mysideline_id,omitempty" db:"mysideline_id"`
	MySidelineSubtitle             *string `json:"mysideline_subtitle,omitempty" db:"mysideline_subtitle"`
	OriginalMySidelineContactEmail *string `json:"original_mysideline_contact_email,omitempty" db:"original_mysideline_contact_email"`

	// ContactEmail is the operational contact and may change freely.
	ContactEmail *string `json:"contact_email,omitempty" db:"contact_email"`

	AddressLine1 *string `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty" db:"address_line2"`
	Suburb       *string `json:"suburb,omitempty" db:"suburb"`
	State        *string `json:"state,omitempty" db:"state"`

	TeamRegistrationFee float64 `json:"team_registration_fee" db:"team_registration_fee"`
	PerPlayerFee        float64 `json:"per_player_fee" db:"per_player_fee"`

	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`

	ClaimedByUserID *int      `json:"claimed_by_user_id,omitempty" db:"claimed_by_user_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	ClaimedBy *User          `json:"claimed_by,omitempty" db:"-"`
	Clubs     []CarnivalClub `json:"clubs,omitempty" db:"-"`
}

// Claimed reports whether an organiser has taken ownership of the carnival.
// The transition is one-way; there is no unclaim.
func (c *Carnival) Claimed() bool {
	return c.ClaimedByUserID != nil
}
