package models

import "time"

// Club is an organisation that maintains a roster of players and registers
// to attend carnivals.
type Club struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	State     *string   `json:"state,omitempty" db:"state"`
	Location  *string   `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players  []ClubPlayer `json:"players,omitempty" db:"-"`
	Sponsors []Sponsor    `json:"sponsors,omitempty" db:"-"`
}
